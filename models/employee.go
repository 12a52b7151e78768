package models

import "time"

type Employee struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FirstName  string    `gorm:"size:50;not null" json:"first_name"`
	LastName   string    `gorm:"size:50;not null" json:"last_name"`
	Phone      string    `gorm:"size:15" json:"phone"`
	Email      string    `gorm:"size:80;uniqueIndex" json:"email"`
	HourlyRate float64   `gorm:"not null;default:0" json:"hourly_rate"`
	Active     bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (e Employee) FullName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
