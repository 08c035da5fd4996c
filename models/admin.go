package models

import "gorm.io/gorm"

// Admin is a workshop staff account for the HTTP API.
type Admin struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"` // bcrypt hash
}
