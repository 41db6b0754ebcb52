package export

import (
	"bytes"
	"encoding/csv"
	"log"
	"sync/atomic"
	"time"

	"attendance/ledger"
	"attendance/storage"
)

// Scheduler snapshots a day's ledger to a dated CSV at a fixed wall-clock
// time on business days. An explicit timer re-arm drives the two states
// (idle, exporting); a tick missed while the process was down is skipped on
// the next boot, not backfilled.
type Scheduler struct {
	book    *ledger.Ledger
	dest    storage.API
	hour    int
	min     int
	stop    chan struct{}
	running atomic.Bool
}

func NewScheduler(book *ledger.Ledger, dest storage.API, hour, min int) *Scheduler {
	return &Scheduler{book: book, dest: dest, hour: hour, min: min}
}

// NextRun computes the next occurrence of hh:mm that falls on a business
// day (Mon-Fri). Already past today's slot, or a weekend "now", rolls
// forward to the next business day.
func NextRun(now time.Time, hour, min int) time.Time {
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
	for !target.After(now) || target.Weekday() == time.Saturday || target.Weekday() == time.Sunday {
		target = target.AddDate(0, 0, 1)
	}
	return target
}

func (s *Scheduler) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	s.stop = make(chan struct{})
	go s.loop()
}

func (s *Scheduler) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	close(s.stop)
}

func (s *Scheduler) loop() {
	for {
		next := NextRun(time.Now(), s.hour, s.min)
		timer := time.NewTimer(time.Until(next))
		log.Printf("Next attendance export at %s", next.Format("2006-01-02 15:04"))
		select {
		case <-timer.C:
			if err := s.ExportDay(time.Now()); err != nil {
				log.Printf("Attendance export failed: %v", err)
			}
			// Loop re-arms from a fresh clock reading
		case <-s.stop:
			timer.Stop()
			return
		}
	}
}

// ExportDay writes Attendance_<date>.csv for the calendar day of t.
// An empty day produces no file.
func (s *Scheduler) ExportDay(t time.Time) error {
	date := t.Format("2006-01-02")
	rows, err := s.book.RecordsForDate(date)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		log.Printf("No attendance for %s, skipping export", date)
		return nil
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Student", "Class", "Time"})
	for _, row := range rows {
		_ = w.Write([]string{row.Student, row.Class, row.Time})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	name := "Attendance_" + date + ".csv"
	if err := s.dest.Save(name, buf.Bytes()); err != nil {
		return err
	}
	log.Printf("Exported %s (%d records)", name, len(rows))
	return nil
}
