package models

import "gorm.io/gorm"

// User represents an account that can issue and manage certificates
type User struct {
	gorm.Model
	Name      string `json:"name"`
	Email     string `json:"email" gorm:"unique;not null"`
	Password  string `json:"-"`
	Role      string `json:"role" gorm:"default:'USER'"` // USER, ADMIN
	IsDeleted bool   `gorm:"default:false"`
}
