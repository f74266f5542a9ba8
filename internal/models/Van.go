// internal/models/van.go
package models

import (
	"gorm.io/gorm"
)

type Van struct {
	gorm.Model
	Name         string `json:"name" binding:"required"`
	LicensePlate string `json:"license_plate" gorm:"unique"`
	Capacity     int    `json:"capacity"`
	InService    bool   `json:"in_service" gorm:"default:true"`
}
