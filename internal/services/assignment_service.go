package services

import (
	"errors"
	"fmt"
	"time"

	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"route_scheduler/internal/models"
	"route_scheduler/internal/notify"
)

// minimum lead time between now and the route's local midnight
const noticeWindow = 24 * time.Hour

// AssignmentService validates and creates route assignments under the
// business rules: 24h notice, one special route of a type per driver per ISO
// week, and an explicit availability record for the date. Checks run in that
// order and the first failure wins, with no partial effects.
//
// The cap and availability checks are read-then-write without a transaction;
// two concurrent requests for the same driver/week can both pass. That race
// is accepted at this scale.
type AssignmentService struct {
	db         func() *gorm.DB
	dispatcher *notify.Dispatcher
	now        func() time.Time
}

func NewAssignmentService(db func() *gorm.DB, dispatcher *notify.Dispatcher) *AssignmentService {
	return &AssignmentService{db: db, dispatcher: dispatcher, now: time.Now}
}

type AssignInput struct {
	DriverID  uint
	Date      string
	RouteType models.RouteType
	VanID     *uint
	Notes     string
}

type UpdateInput struct {
	VanID  *uint
	Notes  *string
	Status *models.AssignmentStatus
}

// Assign validates and creates a new assignment, then notifies the driver
// best-effort. Returns the persisted assignment.
func (s *AssignmentService) Assign(in AssignInput) (*models.RouteAssignment, error) {
	db := s.db()
	if db == nil {
		return nil, ErrStoreUnavailable
	}

	var driver models.Driver
	if err := db.First(&driver, in.DriverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}

	if err := s.validate(db, driver.ID, in.Date, in.RouteType, 0); err != nil {
		return nil, err
	}
	if err := s.checkVan(db, in.VanID); err != nil {
		return nil, err
	}

	assignment := models.RouteAssignment{
		DriverID:  driver.ID,
		VanID:     in.VanID,
		Date:      in.Date,
		RouteType: in.RouteType,
		Status:    models.AssignmentAssigned,
		Notes:     in.Notes,
	}
	if err := db.Create(&assignment).Error; err != nil {
		return nil, err
	}

	// Fire and continue; a slow or failing provider must not block the
	// create.
	go s.notifyAssigned(driver, assignment)

	return &assignment, nil
}

// Reassign moves an assignment to a new date and/or driver, re-running the
// full validation pipeline against the effective values. The assignment
// itself is excluded from the weekly cap check so moving a special route
// within its own week succeeds. Status and route type are never changed
// here.
func (s *AssignmentService) Reassign(id uint, newDate *string, newDriverID *uint) (*models.RouteAssignment, error) {
	db := s.db()
	if db == nil {
		return nil, ErrStoreUnavailable
	}

	var assignment models.RouteAssignment
	if err := db.First(&assignment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	date := assignment.Date
	if newDate != nil {
		date = *newDate
	}
	driverID := assignment.DriverID
	if newDriverID != nil {
		driverID = *newDriverID
	}
	driverChanged := driverID != assignment.DriverID

	var driver models.Driver
	if err := db.First(&driver, driverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}

	if err := s.validate(db, driverID, date, assignment.RouteType, assignment.ID); err != nil {
		return nil, err
	}

	assignment.Date = date
	assignment.DriverID = driverID
	if err := db.Save(&assignment).Error; err != nil {
		return nil, err
	}

	if driverChanged {
		go s.notifyAssigned(driver, assignment)
	}

	return &assignment, nil
}

// Update applies cosmetic/completion edits (van, notes, status) without
// re-running the creation invariants. This carve-out is deliberate: once an
// assignment exists, these edits must not be blocked by notice or cap rules.
func (s *AssignmentService) Update(id uint, in UpdateInput) (*models.RouteAssignment, error) {
	db := s.db()
	if db == nil {
		return nil, ErrStoreUnavailable
	}

	var assignment models.RouteAssignment
	if err := db.First(&assignment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	return s.apply(db, &assignment, in)
}

// UpdateOwned is the driver-scoped variant of Update: the mutating driver
// must own the assignment.
func (s *AssignmentService) UpdateOwned(driverID, id uint, in UpdateInput) (*models.RouteAssignment, error) {
	db := s.db()
	if db == nil {
		return nil, ErrStoreUnavailable
	}

	var assignment models.RouteAssignment
	if err := db.First(&assignment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	if assignment.DriverID != driverID {
		return nil, ErrNotRouteOwner
	}

	return s.apply(db, &assignment, in)
}

func (s *AssignmentService) apply(db *gorm.DB, assignment *models.RouteAssignment, in UpdateInput) (*models.RouteAssignment, error) {
	if in.VanID != nil {
		if err := s.checkVan(db, in.VanID); err != nil {
			return nil, err
		}
		assignment.VanID = in.VanID
	}
	if in.Notes != nil {
		assignment.Notes = *in.Notes
	}
	if in.Status != nil {
		assignment.Status = *in.Status
	}

	if err := db.Save(assignment).Error; err != nil {
		return nil, err
	}
	return assignment, nil
}

// Cancel marks an assignment cancelled. Cancelled rows no longer count
// toward the weekly special-route cap.
func (s *AssignmentService) Cancel(id uint) error {
	db := s.db()
	if db == nil {
		return ErrStoreUnavailable
	}

	var assignment models.RouteAssignment
	if err := db.First(&assignment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	assignment.Status = models.AssignmentCancelled
	return db.Save(&assignment).Error
}

// validate runs the creation pipeline in order: notice period, weekly
// special-route cap, availability gate. excludeID names an assignment to
// skip in the cap check during reassignment; zero means none.
func (s *AssignmentService) validate(db *gorm.DB, driverID uint, date string, routeType models.RouteType, excludeID uint) error {
	day, err := ParseDate(date)
	if err != nil {
		return err
	}

	// 1) Notice period: the route's local midnight must be at least 24h out,
	// which also rejects every same-day assignment.
	if day.Sub(s.now()) < noticeWindow {
		return ErrInsufficientNotice
	}

	// 2) Weekly cap, special routes only.
	if routeType.Special() {
		weekStart, weekEnd := isoWeekBounds(day)
		query := db.Model(&models.RouteAssignment{}).
			Where("driver_id = ?", driverID).
			Where("route_type = ?", routeType).
			Where("status <> ?", models.AssignmentCancelled).
			Where("date >= ? AND date <= ?", weekStart, weekEnd)
		if excludeID != 0 {
			query = query.Where("id <> ?", excludeID)
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &DuplicateSpecialRouteError{RouteType: routeType}
		}
	}

	// 3) Availability gate. No record counts as unavailable: drivers opt in
	// to every date explicitly.
	var record models.AvailabilityRecord
	err = db.Where("driver_id = ? AND date = ?", driverID, date).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDriverUnavailable
		}
		return err
	}
	if !record.IsAvailable {
		return ErrDriverUnavailable
	}

	return nil
}

func (s *AssignmentService) checkVan(db *gorm.DB, vanID *uint) error {
	if vanID == nil {
		return nil
	}
	var van models.Van
	if err := db.First(&van, *vanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVanNotFound
		}
		return err
	}
	return nil
}

func (s *AssignmentService) notifyAssigned(driver models.Driver, assignment models.RouteAssignment) {
	if s.dispatcher == nil {
		return
	}

	body := fmt.Sprintf("Hi %s, you have a %s route on %s.", driver.Name, assignment.RouteType.Label(), assignment.Date)
	res := s.dispatcher.Send(driver.Email, driver.Phone, "New route assignment", body)
	if !res.Any() {
		logrus.WithFields(logrus.Fields{
			"driver_id":     driver.ID,
			"assignment_id": assignment.ID,
		}).Warn("route assignment notification not delivered")
	}
}
