package models

import "attendance/db"

type Class struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	Name      string `gorm:"type:varchar(100);index:uniq_class_name,unique"`
}

func ClassGetOrCreate(name string) (c Class, err error) {
	result := db.Instance.First(&c, "name = ?", name)
	if result.Error == nil {
		return c, nil
	}
	c = Class{Name: name}
	return c, db.Instance.Create(&c).Error
}
