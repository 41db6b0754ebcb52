package handlers

import (
	"net/http"
	"time"

	"attendance/models"

	"github.com/gin-gonic/gin"
)

type AttendanceRow struct {
	Student string `json:"student"`
	Class   string `json:"class"`
	Time    string `json:"time"`
}

func attendanceForDate(c *gin.Context, date string) {
	rows, err := book.RecordsForDate(date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	result := []AttendanceRow{}
	for _, row := range rows {
		result = append(result, AttendanceRow{Student: row.Student, Class: row.Class, Time: row.Time})
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "records": result})
}

func AttendanceToday(c *gin.Context, user *models.User) {
	attendanceForDate(c, time.Now().Format("2006-01-02"))
}

func AttendanceForDate(c *gin.Context, user *models.User) {
	date := c.Query("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	attendanceForDate(c, date)
}

func ExportNow(c *gin.Context, user *models.User) {
	if err := exporter.ExportDay(time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": ""})
}
