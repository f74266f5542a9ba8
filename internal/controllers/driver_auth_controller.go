package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"route_scheduler/internal/middleware"
	"route_scheduler/internal/models"
	"route_scheduler/internal/services"
)

type driverRequestCodeInput struct {
	Phone string `json:"phone" binding:"required"`
}

type driverVerifyCodeInput struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// DriverRequestCode handles driverAuth.requestCode.
func DriverRequestCode(c *gin.Context) {
	var input driverRequestCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := deps.LoginCodes.RequestDriverCode(input.Phone, requestMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// DriverVerifyCode handles driverAuth.verifyCode.
func DriverVerifyCode(c *gin.Context) {
	var input driverVerifyCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	driver, err := deps.LoginCodes.VerifyDriverCode(input.Phone, input.Code, requestMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	session, err := deps.Sessions.IssueDriver(driver.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	setSessionCookie(c, middleware.DriverSessionCookie, session.Token, int(services.DriverSessionTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"token":  session.Token,
		"driver": driver,
	})
}

// DriverMe handles driverAuth.me.
func DriverMe(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	driverID := c.GetUint("driver_id")
	var driver models.Driver
	if err := db.First(&driver, driverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

// DriverLogout handles driverAuth.logout.
func DriverLogout(c *gin.Context) {
	if err := deps.Sessions.Revoke(middleware.DriverToken(c)); err != nil {
		respondError(c, err)
		return
	}

	clearSessionCookie(c, middleware.DriverSessionCookie)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
