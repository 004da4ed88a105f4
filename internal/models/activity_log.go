package models

import "time"

// ActivityLog is one immutable audit-trail entry of a user-initiated action.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"constraint:OnDelete:RESTRICT" json:"-"`

	Action      string  `gorm:"size:64;index;not null" json:"action"` // "create_item", "return_lease", ...
	Description *string `gorm:"type:text" json:"description"`
	IPAddress   string  `gorm:"size:45" json:"ip_address"`
	UserAgent   string  `gorm:"size:512" json:"user_agent"`
}
