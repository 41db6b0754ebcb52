package ledger

import (
	"encoding/csv"
	"log"
	"os"
)

// appendCSV appends one mirror row. Called only after a successful insert -
// the CSV never participates in the idempotency decision.
func (l *Ledger) appendCSV(name, date, timeStr string) {
	if l.csvPath == "" {
		return
	}
	l.csvMu.Lock()
	defer l.csvMu.Unlock()

	writeHeader := false
	if _, err := os.Stat(l.csvPath); os.IsNotExist(err) {
		writeHeader = true
	}
	file, err := os.OpenFile(l.csvPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("Cannot open attendance CSV %s: %v", l.csvPath, err)
		return
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if writeHeader {
		_ = w.Write([]string{"Name", "Date", "Time"})
	}
	_ = w.Write([]string{name, date, timeStr})
	w.Flush()
	if err := w.Error(); err != nil {
		log.Printf("Cannot append to attendance CSV %s: %v", l.csvPath, err)
	}
}
