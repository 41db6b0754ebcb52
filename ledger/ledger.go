package ledger

import (
	"log"
	"sync"
	"time"

	"attendance/db"
	"attendance/models"

	"gorm.io/gorm/clause"
)

type Outcome uint8

const (
	Inserted Outcome = iota
	AlreadyPresent
	UnknownStudent
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case AlreadyPresent:
		return "already-present"
	case UnknownStudent:
		return "unknown-student"
	}
	return "failed"
}

// Row is one line of a day's attendance, for display and export
type Row struct {
	Student string
	Class   string
	Time    string
}

// Ledger enforces at-most-one attendance record per (student, day). The
// database unique index is the only idempotency authority; the CSV mirror
// is a projection of successful inserts and is never read back.
type Ledger struct {
	csvPath   string
	csvMu     sync.Mutex
	listeners []func()
}

func New(csvPath string) *Ledger {
	return &Ledger{csvPath: csvPath}
}

// OnChange registers a callback fired after every successful insert.
// Register at boot, before any marking starts.
func (l *Ledger) OnChange(fn func()) {
	l.listeners = append(l.listeners, fn)
}

// Mark records the student as present for the calendar day of t. The
// check-and-insert is a single atomic operation: the insert either lands or
// is rejected by the (student_id, date) unique constraint, so concurrent
// callers cannot double-book. A rejected insert is the expected
// AlreadyPresent outcome, not a failure. Store errors degrade to a no-op.
func (l *Ledger) Mark(name string, t time.Time) Outcome {
	student, found := models.StudentFindByName(name)
	if !found {
		return UnknownStudent
	}
	record := models.AttendanceRecord{
		StudentID: student.ID,
		Date:      t.Format("2006-01-02"),
		Time:      t.Format("15:04:05"),
	}
	result := db.Instance.Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
	if result.Error != nil {
		log.Printf("Cannot mark attendance for %s: %v", name, result.Error)
		return Failed
	}
	if result.RowsAffected == 0 {
		return AlreadyPresent
	}
	log.Printf("Marked %s present at %s", name, record.Time)
	l.appendCSV(name, record.Date, record.Time)
	for _, fn := range l.listeners {
		fn()
	}
	return Inserted
}

// RecordsForDate returns the day's attendance ordered by time ascending
func (l *Ledger) RecordsForDate(date string) ([]Row, error) {
	rows, err := db.Instance.Table("attendance").
		Select("students.name, classes.name, attendance.time").
		Joins("JOIN students ON students.id = attendance.student_id").
		Joins("JOIN classes ON classes.id = students.class_id").
		Where("attendance.date = ?", date).
		Order("attendance.time ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []Row{}
	for rows.Next() {
		row := Row{}
		if err = rows.Scan(&row.Student, &row.Class, &row.Time); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, nil
}
