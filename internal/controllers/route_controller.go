package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"route_scheduler/internal/models"
	"route_scheduler/internal/services"
)

// --- Helper Structs for Request Bodies ---

type listRoutesInput struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	DriverID  *uint  `json:"driver_id"`
}

type assignRouteInput struct {
	DriverID  uint             `json:"driver_id" binding:"required"`
	Date      string           `json:"date" binding:"required"`
	RouteType models.RouteType `json:"route_type" binding:"required"`
	VanID     *uint            `json:"van_id"`
	Notes     string           `json:"notes"`
}

type updateRouteInput struct {
	ID     uint                     `json:"id" binding:"required"`
	VanID  *uint                    `json:"van_id"`
	Notes  *string                  `json:"notes"`
	Status *models.AssignmentStatus `json:"status"`
}

type reassignRouteInput struct {
	ID       uint    `json:"id" binding:"required"`
	Date     *string `json:"date"`
	DriverID *uint   `json:"driver_id"`
}

type routeIDInput struct {
	ID uint `json:"id" binding:"required"`
}

// --- Admin Route Procedures ---

// ListRoutes handles routes.list with optional date-range and driver
// filters.
func ListRoutes(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var input listRoutesInput
	if err := bindOptional(c, &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := db.Preload("Driver").Preload("Van").Order("date asc")
	if input.StartDate != "" {
		query = query.Where("date >= ?", input.StartDate)
	}
	if input.EndDate != "" {
		query = query.Where("date <= ?", input.EndDate)
	}
	if input.DriverID != nil {
		query = query.Where("driver_id = ?", *input.DriverID)
	}

	var assignments []models.RouteAssignment
	if err := query.Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing routes: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": assignments})
}

// AssignRoute handles routes.assign: the engine's create operation.
func AssignRoute(c *gin.Context) {
	var input assignRouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.RouteType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route type"})
		return
	}

	assignment, err := deps.Assignments.Assign(services.AssignInput{
		DriverID:  input.DriverID,
		Date:      input.Date,
		RouteType: input.RouteType,
		VanID:     input.VanID,
		Notes:     input.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"assignment_id": assignment.ID,
		"assignment":    assignment,
	})
}

// UpdateRoute handles routes.update: van/notes/status edits that bypass the
// creation invariants.
func UpdateRoute(c *gin.Context) {
	var input updateRouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Status != nil && !input.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment status"})
		return
	}

	assignment, err := deps.Assignments.Update(input.ID, services.UpdateInput{
		VanID:  input.VanID,
		Notes:  input.Notes,
		Status: input.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignment": assignment})
}

// DeleteRoute handles routes.delete by marking the assignment cancelled.
func DeleteRoute(c *gin.Context) {
	var input routeIDInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := deps.Assignments.Cancel(input.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ReassignRoute handles routes.reassign.
func ReassignRoute(c *gin.Context) {
	var input reassignRouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignment, err := deps.Assignments.Reassign(input.ID, input.Date, input.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "assignment": assignment})
}
