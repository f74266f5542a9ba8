package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"route_scheduler/internal/models"
)

// --- Helper Structs for Request Bodies ---

type scheduleByDateInput struct {
	Date string `json:"date" binding:"required"`
}

type driverAvailabilityInput struct {
	DriverID  uint   `json:"driver_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type allAvailabilityInput struct {
	Date          string `json:"date" binding:"required"`
	AvailableOnly bool   `json:"available_only"`
}

// --- Admin Schedule Procedures ---

// ScheduleByDate handles schedule.byDate: every assignment on one date with
// its driver and van.
func ScheduleByDate(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var input scheduleByDateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var assignments []models.RouteAssignment
	err := db.Preload("Driver").Preload("Van").
		Where("date = ?", input.Date).
		Order("driver_id asc").
		Find(&assignments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading schedule: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": assignments})
}

// DriverAvailability handles schedule.driverAvailability.
func DriverAvailability(c *gin.Context) {
	var input driverAvailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := deps.Availability.GetRange(input.DriverID, input.StartDate, input.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}

// AllAvailability handles schedule.allAvailability across every driver for
// one date, optionally filtered to available drivers.
func AllAvailability(c *gin.Context) {
	var input allAvailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := deps.Availability.ForDate(input.Date, input.AvailableOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}
