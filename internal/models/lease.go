package models

import (
	"time"

	"gorm.io/gorm"
)

type LeaseStatus string

const (
	LeaseActive   LeaseStatus = "active"
	LeaseOverdue  LeaseStatus = "overdue"
	LeaseReturned LeaseStatus = "returned"
)

// Open reports whether the lease still holds stock.
func (s LeaseStatus) Open() bool {
	return s == LeaseActive || s == LeaseOverdue
}

type Lease struct {
	gorm.Model
	ItemID uint `gorm:"index;not null" json:"item_id"`
	Item   Item `json:"item,omitempty"`

	LesseeName    string `gorm:"size:255;not null" json:"lessee_name"`
	LesseeContact string `gorm:"size:255" json:"lessee_contact"`
	Quantity      int    `gorm:"not null" json:"quantity"`

	StartsAt   time.Time   `gorm:"not null" json:"starts_at"`
	DueAt      time.Time   `gorm:"index;not null" json:"due_at"`
	ReturnedAt *time.Time  `json:"returned_at"`
	Status     LeaseStatus `gorm:"type:varchar(20);index;not null" json:"status"`
	Notes      string      `gorm:"type:text" json:"notes"`

	CreatedByID uint `json:"created_by_id"` // User.ID
}
