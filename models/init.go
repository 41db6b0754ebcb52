package models

import (
	"attendance/config"
	"attendance/db"
	"log"
)

func Init() {
	db.Instance.AutoMigrate(&Class{})
	db.Instance.AutoMigrate(&Student{})
	db.Instance.AutoMigrate(&AttendanceRecord{})
	db.Instance.AutoMigrate(&User{})

	if config.ADMIN_PASSWORD == "" {
		log.Println("ADMIN_PASSWORD not set - dashboard login disabled")
		return
	}
	if err := EnsureAdminUser(config.ADMIN_USERNAME, config.ADMIN_PASSWORD); err != nil {
		panic(err)
	}
}
