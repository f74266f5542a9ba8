package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"route_scheduler/internal/models"
)

var testDBCounter int64

// newTestDB opens a fresh in-memory database with the full schema. The
// shared-cache name keeps gorm's pooled connections on the same database.
func newTestDB(t *testing.T) func() *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Driver{},
		&models.Van{},
		&models.RouteAssignment{},
		&models.AvailabilityRecord{},
		&models.Session{},
		&models.LoginAttempt{},
	))

	return func() *gorm.DB { return db }
}

func seedDriver(t *testing.T, db *gorm.DB, name, phone string, status models.DriverStatus) *models.Driver {
	t.Helper()

	driver := models.Driver{Name: name, Phone: phone, Status: status}
	require.NoError(t, db.Create(&driver).Error)
	return &driver
}

func markAvailable(t *testing.T, db *gorm.DB, driverID uint, dates ...string) {
	t.Helper()

	for _, date := range dates {
		record := models.AvailabilityRecord{DriverID: driverID, Date: date, IsAvailable: true}
		require.NoError(t, db.Create(&record).Error)
	}
}
