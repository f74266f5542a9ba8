package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"route_scheduler/internal/models"
)

// AvailabilityService maintains the per-driver, per-date availability
// ledger. Writes are idempotent upserts keyed on (driver, date).
type AvailabilityService struct {
	db func() *gorm.DB
}

func NewAvailabilityService(db func() *gorm.DB) *AvailabilityService {
	return &AvailabilityService{db: db}
}

// Set upserts the availability flag for one driver and date.
func (s *AvailabilityService) Set(driverID uint, date string, isAvailable bool) (*models.AvailabilityRecord, error) {
	db := s.db()
	if db == nil {
		return nil, ErrStoreUnavailable
	}
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}

	record := models.AvailabilityRecord{
		DriverID:    driverID,
		Date:        date,
		IsAvailable: isAvailable,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "driver_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_available", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return nil, err
	}

	// On the conflict path gorm does not backfill the id; read the row back
	// so the caller always sees the stored record.
	if err := db.Where("driver_id = ? AND date = ?", driverID, date).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// GetRange returns a driver's records between start and end inclusive,
// ordered by date ascending. Dates with no record are simply absent.
func (s *AvailabilityService) GetRange(driverID uint, start, end string) ([]models.AvailabilityRecord, error) {
	db := s.db()
	if db == nil {
		return nil, ErrStoreUnavailable
	}
	if _, err := ParseDate(start); err != nil {
		return nil, err
	}
	if _, err := ParseDate(end); err != nil {
		return nil, err
	}

	var records []models.AvailabilityRecord
	err := db.Where("driver_id = ? AND date >= ? AND date <= ?", driverID, start, end).
		Order("date asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ForDate returns availability across all drivers for one date, optionally
// restricted to drivers who marked themselves available.
func (s *AvailabilityService) ForDate(date string, availableOnly bool) ([]models.AvailabilityRecord, error) {
	db := s.db()
	if db == nil {
		return nil, ErrStoreUnavailable
	}
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}

	query := db.Where("date = ?", date).Preload("Driver").Order("driver_id asc")
	if availableOnly {
		query = query.Where("is_available = ?", true)
	}

	var records []models.AvailabilityRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
