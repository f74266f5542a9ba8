package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"route_scheduler/internal/models"
)

type securityLogsInput struct {
	Limit         int                `json:"limit"`
	Offset        int                `json:"offset"`
	PrincipalType models.SessionKind `json:"principal_type"`
	FailedOnly    bool               `json:"failed_only"`
}

// ListSecurityLogs handles securityLogs.list: newest attempts first. The
// log is read-only; there is no mutation surface.
func ListSecurityLogs(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var input securityLogsInput
	if err := bindOptional(c, &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Limit <= 0 || input.Limit > 200 {
		input.Limit = 50
	}

	filter := func() *gorm.DB {
		query := db.Model(&models.LoginAttempt{})
		if input.PrincipalType != "" {
			query = query.Where("principal_type = ?", input.PrincipalType)
		}
		if input.FailedOnly {
			query = query.Where("success = ?", false)
		}
		return query
	}

	var total int64
	if err := filter().Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		return
	}

	var attempts []models.LoginAttempt
	if err := filter().Order("id desc").Limit(input.Limit).Offset(input.Offset).Find(&attempts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": attempts, "total": total})
}

// SecurityLogStats handles securityLogs.stats.
func SecurityLogStats(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var total, failures, adminAttempts, driverAttempts, recentFailures int64

	base := db.Model(&models.LoginAttempt{})
	if err := base.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		return
	}
	db.Model(&models.LoginAttempt{}).Where("success = ?", false).Count(&failures)
	db.Model(&models.LoginAttempt{}).Where("principal_type = ?", models.SessionAdmin).Count(&adminAttempts)
	db.Model(&models.LoginAttempt{}).Where("principal_type = ?", models.SessionDriver).Count(&driverAttempts)
	db.Model(&models.LoginAttempt{}).
		Where("success = ? AND created_at >= ?", false, time.Now().Add(-24*time.Hour)).
		Count(&recentFailures)

	c.JSON(http.StatusOK, gin.H{
		"total":            total,
		"successes":        total - failures,
		"failures":         failures,
		"admin_attempts":   adminAttempts,
		"driver_attempts":  driverAttempts,
		"failures_last24h": recentFailures,
	})
}
