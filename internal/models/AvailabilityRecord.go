package models

import (
	"gorm.io/gorm"
)

// AvailabilityRecord marks whether a driver can work a given date.
// At most one record exists per (driver, date); dates with no record are
// treated as unavailable when gating assignments.
type AvailabilityRecord struct {
	gorm.Model

	DriverID uint   `json:"driver_id" gorm:"uniqueIndex:idx_driver_date"`
	Driver   Driver `gorm:"foreignKey:DriverID" json:"driver,omitempty"`

	Date        string `json:"date" gorm:"uniqueIndex:idx_driver_date;size:10"`
	IsAvailable bool   `json:"is_available"`
}
