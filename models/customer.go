package models

import "time"

// Customer links an externally authenticated identity to a contact profile.
// Authentication itself lives with the identity provider; IdentityRef is the
// provider's stable subject identifier.
type Customer struct {
	ID          uint   `gorm:"primaryKey"`
	IdentityRef string `gorm:"uniqueIndex;not null"`
	Phone       string
	Address     string
	CreatedAt   time.Time
}

func (c *Customer) TableName() string { return "customers" }
