package models

import "gorm.io/gorm"

type Item struct {
	gorm.Model
	SKU         string `gorm:"size:64;uniqueIndex;not null" json:"sku"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Category    string `gorm:"size:100;index" json:"category"`
	Location    string `gorm:"size:100" json:"location"` // warehouse / shelf
	Description string `gorm:"type:text" json:"description"`

	QuantityTotal     int `gorm:"not null;default:0" json:"quantity_total"`
	QuantityAvailable int `gorm:"not null;default:0" json:"quantity_available"`
	ReorderLevel      int `gorm:"not null;default:0" json:"reorder_level"`

	Leases []Lease `json:"leases,omitempty"`
}

// LowStock reports whether availability dropped to the reorder level.
func (i Item) LowStock() bool {
	return i.QuantityAvailable <= i.ReorderLevel
}
