package services

import (
	"errors"
	"fmt"

	"route_scheduler/internal/models"
)

// Message text on the assignment rejections is part of the API contract;
// calling UIs display it verbatim.
var (
	ErrStoreUnavailable = errors.New("Database is not available")

	ErrSessionInvalid = errors.New("Invalid or expired session")

	ErrPhoneNotRegistered = errors.New("This phone number is not registered")
	ErrEmailNotAuthorized = errors.New("This email is not authorized")
	ErrInvalidLoginCode   = errors.New("Invalid or expired code")

	ErrDriverNotFound     = errors.New("Driver not found")
	ErrAssignmentNotFound = errors.New("Route assignment not found")
	ErrVanNotFound        = errors.New("Van not found")

	ErrInsufficientNotice = errors.New("Route assignments require at least 24 hours advance notice")
	ErrDriverUnavailable  = errors.New("Driver is not available on this date")

	ErrNotRouteOwner = errors.New("You are not assigned to this route")

	ErrInvalidDate = errors.New("Invalid date, expected YYYY-MM-DD")
)

// DuplicateSpecialRouteError rejects a second special route of the same type
// for a driver within one ISO week.
type DuplicateSpecialRouteError struct {
	RouteType models.RouteType
}

func (e *DuplicateSpecialRouteError) Error() string {
	return fmt.Sprintf("Driver already has a %s route assigned this week", e.RouteType.Label())
}
