package models

import "time"

// User is an account created through signup.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	FullName     string    `gorm:"column:full_name;size:100;not null"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"`
	Username     string    `gorm:"size:50;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null"`
	AccountType  string    `gorm:"column:account_type;size:20;not null;default:Student"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}
