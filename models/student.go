package models

import "attendance/db"

type Student struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	Name      string `gorm:"type:varchar(300);index:uniq_student_name,unique"`
	ClassID   uint64
	Class     Class  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ImagePath string `gorm:"type:varchar(500)"`
	// 128-float32 face descriptor from the last gallery build, little-endian
	Descriptor []byte `gorm:"type:blob"`
}

func StudentFindByName(name string) (s Student, found bool) {
	if db.Instance.First(&s, "name = ?", name).Error != nil {
		return Student{}, false
	}
	return s, true
}

// StudentUpsert creates the student row or moves an existing one to the
// given class/image (the add-student flow re-captures the photo)
func StudentUpsert(name string, classID uint64, imagePath string) (s Student, err error) {
	result := db.Instance.First(&s, "name = ?", name)
	s.Name = name
	s.ClassID = classID
	s.ImagePath = imagePath
	if result.Error != nil {
		return s, db.Instance.Create(&s).Error
	}
	return s, db.Instance.Save(&s).Error
}

// SetDescriptor persists the embedding computed during a gallery build
func (s *Student) SetDescriptor(blob []byte) error {
	s.Descriptor = blob
	return db.Instance.Model(s).Update("descriptor", blob).Error
}
