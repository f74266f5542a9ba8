package models

import (
	"gorm.io/gorm"
)

const (
	AttemptRequestCode = "request_code"
	AttemptVerifyCode  = "verify_code"
)

// LoginAttempt is an append-only audit record of every login-code request
// and verification. Rows are never updated or deleted; admins read them
// through the security log procedures.
type LoginAttempt struct {
	gorm.Model

	PrincipalType SessionKind `json:"principal_type" gorm:"index"`
	Action        string      `json:"action"`
	Identifier    string      `json:"identifier"` // email or phone as presented

	// Set when the identifier resolved to a known driver, even for failed
	// attempts, so wrong-code tries can be correlated.
	DriverID *uint `json:"driver_id" gorm:"index"`

	Success       bool   `json:"success" gorm:"index"`
	FailureReason string `json:"failure_reason"`

	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
}
