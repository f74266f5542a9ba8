package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"route_scheduler/internal/models"
	"route_scheduler/internal/services"
)

// --- Helper Structs for Request Bodies ---

type myRoutesInput struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type myAvailabilityInput struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type setAvailabilityInput struct {
	Date        string `json:"date" binding:"required"`
	IsAvailable *bool  `json:"is_available" binding:"required"`
}

type availabilityEntry struct {
	Date        string `json:"date" binding:"required"`
	IsAvailable *bool  `json:"is_available" binding:"required"`
}

type availabilityBatchInput struct {
	Entries []availabilityEntry `json:"entries" binding:"required,dive"`
}

type portalUpdateRouteInput struct {
	ID    uint    `json:"id" binding:"required"`
	VanID *uint   `json:"van_id"`
	Notes *string `json:"notes"`
}

// --- Driver Portal Procedures ---

// MyRoutes handles driverPortal.myRoutes for the authenticated driver.
func MyRoutes(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var input myRoutesInput
	if err := bindOptional(c, &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := db.Preload("Van").
		Where("driver_id = ?", c.GetUint("driver_id")).
		Order("date asc")
	if input.StartDate != "" {
		query = query.Where("date >= ?", input.StartDate)
	}
	if input.EndDate != "" {
		query = query.Where("date <= ?", input.EndDate)
	}

	var assignments []models.RouteAssignment
	if err := query.Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing routes: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": assignments})
}

// MyAvailability handles driverPortal.myAvailability.
func MyAvailability(c *gin.Context) {
	var input myAvailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := deps.Availability.GetRange(c.GetUint("driver_id"), input.StartDate, input.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}

// SetAvailability handles driverPortal.setAvailability.
func SetAvailability(c *gin.Context) {
	var input setAvailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := deps.Availability.Set(c.GetUint("driver_id"), input.Date, *input.IsAvailable)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": record})
}

// SaveAvailabilityBatch handles driverPortal.saveAvailabilityBatch: upserts
// a whole set of dates in one call, e.g. a month grid from the portal UI.
func SaveAvailabilityBatch(c *gin.Context) {
	var input availabilityBatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	driverID := c.GetUint("driver_id")
	saved := 0
	for _, entry := range input.Entries {
		if _, err := deps.Availability.Set(driverID, entry.Date, *entry.IsAvailable); err != nil {
			// Upserts already applied stay applied; tell the caller how far
			// the batch got.
			c.JSON(errorStatus(err), gin.H{"error": err.Error(), "saved": saved})
			return
		}
		saved++
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "saved": saved})
}

// PortalUpdateRoute handles driverPortal.updateRoute: van and notes only,
// and only on the driver's own assignment.
func PortalUpdateRoute(c *gin.Context) {
	var input portalUpdateRouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignment, err := deps.Assignments.UpdateOwned(c.GetUint("driver_id"), input.ID, services.UpdateInput{
		VanID: input.VanID,
		Notes: input.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignment": assignment})
}

// CompleteRoute handles driverPortal.completeRoute.
func CompleteRoute(c *gin.Context) {
	var input routeIDInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	completed := models.AssignmentCompleted
	assignment, err := deps.Assignments.UpdateOwned(c.GetUint("driver_id"), input.ID, services.UpdateInput{
		Status: &completed,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "assignment": assignment})
}
