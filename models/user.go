package models

import "time"

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:60;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         string    `json:"role" gorm:"size:20;not null"` // "admin" | "manager" | "cleaner"
	Name         string    `json:"name" gorm:"size:120"`
	EmployeeID   *uint     `json:"employee_id" gorm:"index"` // set for cleaner accounts
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
