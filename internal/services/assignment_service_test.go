package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"route_scheduler/internal/models"
)

// Monday 2025-03-03, midday. "Next week" in these tests is Mar 10-16.
var testNow = time.Date(2025, 3, 3, 12, 0, 0, 0, time.Local)

func newTestAssignments(t *testing.T) (*AssignmentService, *gorm.DB) {
	t.Helper()

	dbFn := newTestDB(t)
	svc := NewAssignmentService(dbFn, nil)
	svc.now = func() time.Time { return testNow }
	return svc, dbFn()
}

func TestAssignRequiresNotice(t *testing.T) {
	svc, db := newTestAssignments(t)
	driver := seedDriver(t, db, "Ann", "+15550001", models.DriverActive)
	markAvailable(t, db, driver.ID, "2025-03-03", "2025-03-04")

	// Same-day and next-day-before-24h are both rejected, availability
	// notwithstanding.
	for _, date := range []string{"2025-03-03", "2025-03-04"} {
		_, err := svc.Assign(AssignInput{DriverID: driver.ID, Date: date, RouteType: models.RouteRegular})
		require.ErrorIs(t, err, ErrInsufficientNotice, date)
		require.Equal(t, "Route assignments require at least 24 hours advance notice", err.Error())
	}

	// 2025-03-05 00:00 is 36h out.
	markAvailable(t, db, driver.ID, "2025-03-05")
	assignment, err := svc.Assign(AssignInput{DriverID: driver.ID, Date: "2025-03-05", RouteType: models.RouteRegular})
	require.NoError(t, err)
	require.Equal(t, models.AssignmentAssigned, assignment.Status)
	require.NotZero(t, assignment.ID)
}

func TestAssignWeeklySpecialCap(t *testing.T) {
	svc, db := newTestAssignments(t)
	driver := seedDriver(t, db, "Ben", "+15550002", models.DriverActive)
	markAvailable(t, db, driver.ID,
		"2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13", "2025-03-14", "2025-03-17")

	_, err := svc.Assign(AssignInput{DriverID: driver.ID, Date: "2025-03-10", RouteType: models.RouteBigBox})
	require.NoError(t, err)

	// Second big-box in the same ISO week is capped.
	_, err = svc.Assign(AssignInput{DriverID: driver.ID, Date: "2025-03-12", RouteType: models.RouteBigBox})
	var dup *DuplicateSpecialRouteError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "Driver already has a Big Box route assigned this week", err.Error())

	// Caps are per-type: an out-of-town route in the same week is fine.
	_, err = svc.Assign(AssignInput{DriverID: driver.ID, Date: "2025-03-12", RouteType: models.RouteOutOfTown})
	require.NoError(t, err)

	// Regular routes have no cap.
	_, err = svc.Assign(AssignInput{DriverID: driver.ID, Date: "2025-03-13", RouteType: models.RouteRegular})
	require.NoError(t, err)
	_, err = svc.Assign(AssignInput{DriverID: driver.ID, Date: "2025-03-14", RouteType: models.RouteRegular})
	require.NoError(t, err)

	// The following Monday is a new ISO week.
	_, err = svc.Assign(AssignInput{DriverID: driver.ID, Date: "2025-03-17", RouteType: models.RouteBigBox})
	require.NoError(t, err)
}

func TestAssignCancelledRoutesDoNotCount(t *testing.T) {
	svc, db := newTestAssignments(t)
	driver := seedDriver(t, db, "Cam", "+15550003", models.DriverActive)
	markAvailable(t, db, driver.ID, "2025-03-10", "2025-03-12")

	first, err := svc.Assign(AssignInput{DriverID: driver.ID, Date: "2025-03-10", RouteType: models.RouteBigBox})
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(first.ID))

	_, err = svc.Assign(AssignInput{DriverID: driver.ID, Date: "2025-03-12", RouteType: models.RouteBigBox})
	require.NoError(t, err)
}

func TestAssignAvailabilityGate(t *testing.T) {
	svc, db := newTestAssignments(t)
	driver := seedDriver(t, db, "Dee", "+15550004", models.DriverActive)

	// No record at all: closed-world, treated as unavailable.
	_, err := svc.Assign(AssignInput{DriverID: driver.ID, Date: "2025-03-10", RouteType: models.RouteRegular})
	require.ErrorIs(t, err, ErrDriverUnavailable)
	require.Equal(t, "Driver is not available on this date", err.Error())

	// Explicitly unavailable behaves identically.
	record := models.AvailabilityRecord{DriverID: driver.ID, Date: "2025-03-11", IsAvailable: false}
	require.NoError(t, db.Create(&record).Error)
	_, err = svc.Assign(AssignInput{DriverID: driver.ID, Date: "2025-03-11", RouteType: models.RouteRegular})
	require.ErrorIs(t, err, ErrDriverUnavailable)
}

func TestAssignUnknownDriver(t *testing.T) {
	svc, _ := newTestAssignments(t)

	_, err := svc.Assign(AssignInput{DriverID: 999, Date: "2025-03-10", RouteType: models.RouteRegular})
	require.ErrorIs(t, err, ErrDriverNotFound)
}

func TestReassignSameWeekExcludesSelf(t *testing.T) {
	svc, db := newTestAssignments(t)
	driver := seedDriver(t, db, "Eva", "+15550005", models.DriverActive)
	markAvailable(t, db, driver.ID, "2025-03-10", "2025-03-12")

	assignment, err := svc.Assign(AssignInput{DriverID: driver.ID, Date: "2025-03-10", RouteType: models.RouteOutOfTown})
	require.NoError(t, err)

	// Moving the route within its own week must not trip the cap.
	newDate := "2025-03-12"
	updated, err := svc.Reassign(assignment.ID, &newDate, nil)
	require.NoError(t, err)
	require.Equal(t, "2025-03-12", updated.Date)
	require.Equal(t, models.RouteOutOfTown, updated.RouteType)
}

func TestReassignValidatesNewDriver(t *testing.T) {
	svc, db := newTestAssignments(t)
	alice := seedDriver(t, db, "Alice", "+15550006", models.DriverActive)
	bob := seedDriver(t, db, "Bob", "+15550007", models.DriverActive)
	markAvailable(t, db, alice.ID, "2025-03-10")
	markAvailable(t, db, bob.ID, "2025-03-10", "2025-03-11")

	assignment, err := svc.Assign(AssignInput{DriverID: alice.ID, Date: "2025-03-10", RouteType: models.RouteBigBox})
	require.NoError(t, err)
	_, err = svc.Assign(AssignInput{DriverID: bob.ID, Date: "2025-03-11", RouteType: models.RouteBigBox})
	require.NoError(t, err)

	// Bob already has a big-box route that week.
	_, err = svc.Reassign(assignment.ID, nil, &bob.ID)
	var dup *DuplicateSpecialRouteError
	require.ErrorAs(t, err, &dup)

	// An unavailable target driver is rejected too.
	carol := seedDriver(t, db, "Carol", "+15550008", models.DriverActive)
	_, err = svc.Reassign(assignment.ID, nil, &carol.ID)
	require.ErrorIs(t, err, ErrDriverUnavailable)
}

func TestUpdateOwnedEnforcesOwnership(t *testing.T) {
	svc, db := newTestAssignments(t)
	owner := seedDriver(t, db, "Fay", "+15550009", models.DriverActive)
	other := seedDriver(t, db, "Gus", "+15550010", models.DriverActive)
	markAvailable(t, db, owner.ID, "2025-03-10")

	assignment, err := svc.Assign(AssignInput{DriverID: owner.ID, Date: "2025-03-10", RouteType: models.RouteRegular})
	require.NoError(t, err)

	completed := models.AssignmentCompleted
	_, err = svc.UpdateOwned(other.ID, assignment.ID, UpdateInput{Status: &completed})
	require.ErrorIs(t, err, ErrNotRouteOwner)

	updated, err := svc.UpdateOwned(owner.ID, assignment.ID, UpdateInput{Status: &completed})
	require.NoError(t, err)
	require.Equal(t, models.AssignmentCompleted, updated.Status)
}

func TestUpdateBypassesCreationChecks(t *testing.T) {
	svc, db := newTestAssignments(t)
	driver := seedDriver(t, db, "Hal", "+15550011", models.DriverActive)
	markAvailable(t, db, driver.ID, "2025-03-10")

	assignment, err := svc.Assign(AssignInput{DriverID: driver.ID, Date: "2025-03-10", RouteType: models.RouteRegular})
	require.NoError(t, err)

	// Remove the availability record; cosmetic edits must still go through.
	require.NoError(t, db.Where("driver_id = ?", driver.ID).Delete(&models.AvailabilityRecord{}).Error)

	van := models.Van{Name: "Van 1", LicensePlate: "T-1", Capacity: 100, InService: true}
	require.NoError(t, db.Create(&van).Error)

	notes := "gate code 4411"
	updated, err := svc.Update(assignment.ID, UpdateInput{VanID: &van.ID, Notes: &notes})
	require.NoError(t, err)
	require.Equal(t, van.ID, *updated.VanID)
	require.Equal(t, notes, updated.Notes)

	// An unknown van is still rejected.
	badVan := uint(999)
	_, err = svc.Update(assignment.ID, UpdateInput{VanID: &badVan})
	require.ErrorIs(t, err, ErrVanNotFound)
}

func TestCancelUnknownAssignment(t *testing.T) {
	svc, _ := newTestAssignments(t)
	require.ErrorIs(t, svc.Cancel(12345), ErrAssignmentNotFound)
}
