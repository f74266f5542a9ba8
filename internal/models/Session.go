package models

import (
	"time"

	"gorm.io/gorm"
)

type SessionKind string

const (
	SessionAdmin  SessionKind = "admin"
	SessionDriver SessionKind = "driver"
)

// Session is an opaque bearer token bound to a principal. A principal may
// hold any number of concurrent sessions; expiry is fixed at issue time and
// never extended on use.
type Session struct {
	gorm.Model

	Token string      `json:"-" gorm:"uniqueIndex;size:64"`
	Kind  SessionKind `json:"kind" gorm:"index"`

	// Exactly one of these identifies the owner, depending on Kind.
	DriverID   uint   `json:"driver_id" gorm:"index"`
	AdminEmail string `json:"admin_email"`

	ExpiresAt time.Time `json:"expires_at"`
}
