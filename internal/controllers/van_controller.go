package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"route_scheduler/internal/models"
)

// ListVans handles vans.list. Public: the driver portal shows the fleet
// before login.
func ListVans(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var vans []models.Van
	if err := db.Order("name asc").Find(&vans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing vans: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vans})
}

// SeedVans handles vans.seed: inserts the default fleet when the table is
// empty. Safe to call repeatedly.
func SeedVans(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var count int64
	if err := db.Model(&models.Van{}).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		return
	}
	if count > 0 {
		c.JSON(http.StatusOK, gin.H{"seeded": false, "count": count})
		return
	}

	vans := []models.Van{
		{Name: "Van 1", LicensePlate: "DLV-001", Capacity: 120, InService: true},
		{Name: "Van 2", LicensePlate: "DLV-002", Capacity: 120, InService: true},
		{Name: "Van 3", LicensePlate: "DLV-003", Capacity: 160, InService: true},
		{Name: "Box Truck", LicensePlate: "DLV-010", Capacity: 400, InService: true},
	}
	if err := db.Create(&vans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not seed vans: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"seeded": true, "count": len(vans)})
}
