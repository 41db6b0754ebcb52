package models

import (
	"attendance/db"
	"attendance/utils"
)

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	Username  string `gorm:"type:varchar(100);index:uniq_username,unique"`
	Password  string `gorm:"type:varchar(128)"`
	PassSalt  string `gorm:"type:varchar(200)"`
}

const saltSize = 60

func (u *User) SetPassword(plainTextPassword string) {
	u.PassSalt = utils.RandSalt(saltSize)
	u.Password = utils.Sha512String(plainTextPassword + u.PassSalt)
}

// UserLogin is the dashboard credential gate: username+password in, yes/no out
func UserLogin(username, plainTextPassword string) (u User, success bool) {
	result := db.Instance.First(&u, "username = ?", username)
	if result.Error != nil {
		return User{}, false
	}
	if u.Password != utils.Sha512String(plainTextPassword+u.PassSalt) {
		return User{}, false
	}
	return u, true
}

// EnsureAdminUser creates or updates the single configured account
func EnsureAdminUser(username, plainTextPassword string) error {
	var u User
	result := db.Instance.First(&u, "username = ?", username)
	u.Username = username
	u.SetPassword(plainTextPassword)
	if result.Error != nil {
		return db.Instance.Create(&u).Error
	}
	return db.Instance.Save(&u).Error
}
