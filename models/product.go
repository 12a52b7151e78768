package models

import "time"

// Product is an inventory row for cleaning supplies.
type Product struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	SKU          string    `gorm:"size:40;uniqueIndex" json:"sku"`
	Quantity     int       `gorm:"not null;default:0" json:"quantity"`
	UnitCost     float64   `gorm:"not null;default:0" json:"unit_cost"`
	ReorderLevel int       `gorm:"not null;default:0" json:"reorder_level"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
