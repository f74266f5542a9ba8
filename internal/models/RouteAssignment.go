package models

import (
	"gorm.io/gorm"
)

type RouteType string

const (
	RouteRegular   RouteType = "regular"
	RouteBigBox    RouteType = "big-box"
	RouteOutOfTown RouteType = "out-of-town"
)

func (t RouteType) Valid() bool {
	switch t {
	case RouteRegular, RouteBigBox, RouteOutOfTown:
		return true
	}
	return false
}

// Special routes are capped at one per driver per ISO week.
func (t RouteType) Special() bool {
	return t == RouteBigBox || t == RouteOutOfTown
}

// Label is the human-readable name used in user-facing messages.
func (t RouteType) Label() string {
	switch t {
	case RouteBigBox:
		return "Big Box"
	case RouteOutOfTown:
		return "Out of Town"
	default:
		return "Regular"
	}
}

type AssignmentStatus string

const (
	AssignmentAssigned  AssignmentStatus = "assigned"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentAssigned, AssignmentCompleted, AssignmentCancelled:
		return true
	}
	return false
}

// RouteAssignment is one driver/date/route-type booking.
// Dates are stored as YYYY-MM-DD strings; lexicographic order is date order.
type RouteAssignment struct {
	gorm.Model

	DriverID uint   `json:"driver_id" gorm:"index"`
	Driver   Driver `gorm:"foreignKey:DriverID" json:"driver,omitempty"`

	VanID *uint `json:"van_id"`
	Van   *Van  `gorm:"foreignKey:VanID" json:"van,omitempty"`

	Date      string           `json:"date" gorm:"index;size:10"`
	RouteType RouteType        `json:"route_type"`
	Status    AssignmentStatus `json:"status" gorm:"default:assigned"`
	Notes     string           `json:"notes"`
}
