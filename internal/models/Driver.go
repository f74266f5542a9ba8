// internal/models/driver.go
package models

import (
	"time"

	"gorm.io/gorm"
)

type DriverStatus string

const (
	DriverPending  DriverStatus = "pending" // invited, has never verified a login code
	DriverActive   DriverStatus = "active"
	DriverInactive DriverStatus = "inactive"
)

func (s DriverStatus) Valid() bool {
	switch s {
	case DriverPending, DriverActive, DriverInactive:
		return true
	}
	return false
}

type Driver struct {
	gorm.Model
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" gorm:"uniqueIndex" binding:"required"` // login identifier
	Email string `json:"email"`                                       // optional second notification channel

	Status DriverStatus `json:"status" gorm:"default:pending"`

	// Passwordless login code. Only a bcrypt hash is stored so a database
	// read never exposes a live credential.
	LoginCodeHash      string     `json:"-"`
	LoginCodeExpiresAt *time.Time `json:"-"`

	Assignments  []RouteAssignment    `gorm:"foreignKey:DriverID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"assignments,omitempty"`
	Availability []AvailabilityRecord `gorm:"foreignKey:DriverID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"availability,omitempty"`
}
