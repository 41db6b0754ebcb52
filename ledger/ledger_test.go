package ledger

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"attendance/db"
	"attendance/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	instance, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	db.Instance = instance
	if err := instance.AutoMigrate(&models.Class{}, &models.Student{}, &models.AttendanceRecord{}); err != nil {
		t.Fatal(err)
	}
}

func seedStudent(t *testing.T, name, className string) {
	t.Helper()
	class, err := models.ClassGetOrCreate(className)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := models.StudentUpsert(name, class.ID, ""); err != nil {
		t.Fatal(err)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func attendanceCount(t *testing.T) (count int64) {
	t.Helper()
	if err := db.Instance.Model(&models.AttendanceRecord{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	return
}

func TestMarkIdempotent(t *testing.T) {
	setupDB(t)
	seedStudent(t, "alice", "10A")
	csvPath := filepath.Join(t.TempDir(), "Attendance.csv")
	book := New(csvPath)

	when := time.Date(2026, 3, 2, 8, 55, 12, 0, time.Local)
	if got := book.Mark("alice", when); got != Inserted {
		t.Fatalf("first Mark = %v, want Inserted", got)
	}
	// Same student, same day, later time: no second record
	if got := book.Mark("alice", when.Add(2*time.Hour)); got != AlreadyPresent {
		t.Fatalf("second Mark = %v, want AlreadyPresent", got)
	}
	if n := attendanceCount(t); n != 1 {
		t.Errorf("attendance rows = %d, want 1", n)
	}
	// Next day is a fresh record
	if got := book.Mark("alice", when.AddDate(0, 0, 1)); got != Inserted {
		t.Errorf("next-day Mark should insert, got %v", got)
	}

	rows := readCSV(t, csvPath)
	if len(rows) != 3 { // header + two inserted days
		t.Fatalf("CSV rows = %d, want 3", len(rows))
	}
	want := []string{"alice", "2026-03-02", "08:55:12"}
	for i, col := range want {
		if rows[1][i] != col {
			t.Errorf("CSV row = %v, want %v", rows[1], want)
			break
		}
	}
}

func TestMarkUnknownStudent(t *testing.T) {
	setupDB(t)
	csvPath := filepath.Join(t.TempDir(), "Attendance.csv")
	book := New(csvPath)

	if got := book.Mark("stranger", time.Now()); got != UnknownStudent {
		t.Fatalf("Mark = %v, want UnknownStudent", got)
	}
	if n := attendanceCount(t); n != 0 {
		t.Errorf("unknown student must have no side effect, found %d rows", n)
	}
	if _, err := os.Stat(csvPath); !os.IsNotExist(err) {
		t.Error("unknown student must not touch the CSV")
	}
}

func TestMarkConcurrent(t *testing.T) {
	setupDB(t)
	seedStudent(t, "alice", "10A")
	book := New(filepath.Join(t.TempDir(), "Attendance.csv"))

	when := time.Date(2026, 3, 3, 9, 0, 0, 0, time.Local)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		inserted int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if book.Mark("alice", when) == Inserted {
				mu.Lock()
				inserted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if inserted != 1 {
		t.Errorf("concurrent marks inserted %d times, want exactly 1", inserted)
	}
	if n := attendanceCount(t); n != 1 {
		t.Errorf("attendance rows = %d, want 1", n)
	}
}

func TestMarkIgnoresCSVState(t *testing.T) {
	setupDB(t)
	seedStudent(t, "alice", "10A")
	csvPath := filepath.Join(t.TempDir(), "Attendance.csv")
	book := New(csvPath)

	when := time.Date(2026, 3, 4, 8, 0, 0, 0, time.Local)
	if got := book.Mark("alice", when); got != Inserted {
		t.Fatal("first mark should insert")
	}
	// Losing the mirror must not re-open the day: the store is the only
	// idempotency authority
	if err := os.Remove(csvPath); err != nil {
		t.Fatal(err)
	}
	if got := book.Mark("alice", when.Add(time.Hour)); got != AlreadyPresent {
		t.Errorf("Mark after CSV loss = %v, want AlreadyPresent", got)
	}
	if _, err := os.Stat(csvPath); !os.IsNotExist(err) {
		t.Error("rejected mark must not rewrite the CSV")
	}
}

func TestRecordsForDateOrdering(t *testing.T) {
	setupDB(t)
	seedStudent(t, "alice", "10A")
	seedStudent(t, "bob", "10B")
	book := New("")

	day := time.Date(2026, 3, 5, 0, 0, 0, 0, time.Local)
	book.Mark("bob", day.Add(9*time.Hour))
	book.Mark("alice", day.Add(8*time.Hour))

	rows, err := book.RecordsForDate("2026-03-05")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Student != "alice" || rows[1].Student != "bob" {
		t.Errorf("rows not ordered by time: %+v", rows)
	}
	if rows[0].Class != "10A" || rows[0].Time != "08:00:00" {
		t.Errorf("unexpected first row: %+v", rows[0])
	}

	empty, err := book.RecordsForDate("2026-03-06")
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no rows for an unmarked day, got %+v", empty)
	}
}

func TestOnChangeFiresOncePerInsert(t *testing.T) {
	setupDB(t)
	seedStudent(t, "alice", "10A")
	book := New("")

	fired := 0
	book.OnChange(func() { fired++ })

	when := time.Date(2026, 3, 9, 8, 30, 0, 0, time.Local)
	book.Mark("alice", when)
	book.Mark("alice", when.Add(time.Minute))
	book.Mark("stranger", when)

	if fired != 1 {
		t.Errorf("OnChange fired %d times, want 1", fired)
	}
}
