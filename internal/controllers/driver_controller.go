package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"route_scheduler/internal/models"
	"route_scheduler/internal/notify"
)

// --- Helper Structs for Request Bodies ---

type driverIDInput struct {
	ID uint `json:"id" binding:"required"`
}

type inviteDriverInput struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
}

// updateDriverInput defines the fields an admin can change on a driver.
type updateDriverInput struct {
	ID     uint                 `json:"id" binding:"required"`
	Name   *string              `json:"name"`
	Phone  *string              `json:"phone"`
	Email  *string              `json:"email"`
	Status *models.DriverStatus `json:"status"`
}

type notifyDriverInput struct {
	ID      uint   `json:"id" binding:"required"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// --- Admin Driver Procedures ---

// ListDrivers handles drivers.list.
func ListDrivers(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var drivers []models.Driver
	if err := db.Order("name asc").Find(&drivers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing drivers: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": drivers})
}

// GetDriver handles drivers.get.
func GetDriver(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var input driverIDInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var driver models.Driver
	if err := db.First(&driver, input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

// InviteDriver handles drivers.invite: creates a pending driver and sends a
// welcome message. A failed welcome delivery does not fail the invite.
func InviteDriver(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var input inviteDriverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	driver := models.Driver{
		Name:   input.Name,
		Phone:  input.Phone,
		Email:  input.Email,
		Status: models.DriverPending,
	}
	if err := db.Create(&driver).Error; err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "Phone number already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create driver: " + err.Error()})
		return
	}

	delivery := sendInvite(driver)

	c.JSON(http.StatusCreated, gin.H{
		"driver":   driver,
		"delivery": delivery,
	})
}

// ResendInvite handles drivers.resendInvite.
func ResendInvite(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var input driverIDInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var driver models.Driver
	if err := db.First(&driver, input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		return
	}

	delivery := sendInvite(driver)
	c.JSON(http.StatusOK, gin.H{"success": true, "delivery": delivery})
}

// UpdateDriver handles drivers.update. Setting any field directly also
// activates a pending driver, matching the invite lifecycle.
func UpdateDriver(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var input updateDriverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var driver models.Driver
	if err := db.First(&driver, input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		return
	}

	if input.Name != nil {
		driver.Name = *input.Name
	}
	if input.Phone != nil {
		driver.Phone = *input.Phone
	}
	if input.Email != nil {
		driver.Email = *input.Email
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver status"})
			return
		}
		driver.Status = *input.Status
	} else if driver.Status == models.DriverPending {
		driver.Status = models.DriverActive
	}

	if err := db.Save(&driver).Error; err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "Phone number already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update driver: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

// DeleteDriver handles drivers.delete. Soft-deletes the driver and revokes
// their sessions; assignment and availability rows are retained for history.
func DeleteDriver(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var input driverIDInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var driver models.Driver
	if err := db.First(&driver, input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		return
	}

	if err := db.Where("driver_id = ? AND kind = ?", driver.ID, models.SessionDriver).
		Delete(&models.Session{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not revoke driver sessions: " + err.Error()})
		return
	}
	if err := db.Delete(&driver).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete driver: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// NotifyDriver handles drivers.notify: sends an admin-composed message over
// both channels and reports per-channel delivery.
func NotifyDriver(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var input notifyDriverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var driver models.Driver
	if err := db.First(&driver, input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		return
	}

	subject := input.Subject
	if subject == "" {
		subject = "Message from dispatch"
	}
	delivery := deps.Notify.Send(driver.Email, driver.Phone, subject, input.Message)

	c.JSON(http.StatusOK, gin.H{"success": true, "delivery": delivery})
}

// sendInvite issues a fresh login code for the driver and sends the welcome
// message carrying it. Delivery stays best effort.
func sendInvite(driver models.Driver) notify.DeliveryResult {
	body := fmt.Sprintf(
		"Hi %s, you've been added to the delivery schedule. Log in with your phone number %s to set your availability.",
		driver.Name, driver.Phone,
	)
	if code, err := deps.LoginCodes.IssueDriverCode(driver.ID); err == nil {
		body += fmt.Sprintf(" Your login code is %s. It expires in 10 minutes.", code)
	} else {
		logrus.WithError(err).Warn("could not issue invite login code")
	}
	return deps.Notify.Send(driver.Email, driver.Phone, "Welcome to the delivery team", body)
}
