package models

// AttendanceRecord is one "present" event. The composite unique index on
// (student_id, date) is what makes marking idempotent: inserts either land
// or are rejected by the constraint, there is no separate existence check.
type AttendanceRecord struct {
	ID        uint64  `gorm:"primaryKey"`
	StudentID uint64  `gorm:"index:uniq_student_date,unique;priority:1"`
	Student   Student `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Date      string  `gorm:"type:varchar(10);index:uniq_student_date,unique;priority:2"` // YYYY-MM-DD, local time
	Time      string  `gorm:"type:varchar(8)"`                                            // HH:MM:SS
}

// TableName overrides the table name
func (AttendanceRecord) TableName() string {
	return "attendance"
}
