package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"route_scheduler/internal/config"
	"route_scheduler/internal/notify"
	"route_scheduler/internal/services"
)

// Deps holds the service instances the handlers call into. Wired once from
// main at startup.
type Deps struct {
	Sessions     *services.SessionService
	LoginCodes   *services.LoginCodeService
	Availability *services.AvailabilityService
	Assignments  *services.AssignmentService
	Notify       *notify.Dispatcher
}

var deps Deps

func Init(d Deps) {
	deps = d
}

// requireDB fetches the lazily-established database handle. Responds 503
// when the store is unavailable, which is distinct from "no data found".
func requireDB(c *gin.Context) (*gorm.DB, bool) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database is not available"})
		return nil, false
	}
	return db, true
}

// bindOptional binds a JSON body whose fields are all optional. An empty
// request body is legal and leaves the zero values in place.
func bindOptional(c *gin.Context, obj interface{}) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func requestMeta(c *gin.Context) services.RequestMeta {
	return services.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// errorStatus maps service errors onto the HTTP taxonomy.
func errorStatus(err error) int {
	var dup *services.DuplicateSpecialRouteError

	switch {
	case errors.Is(err, services.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrSessionInvalid),
		errors.Is(err, services.ErrPhoneNotRegistered),
		errors.Is(err, services.ErrEmailNotAuthorized),
		errors.Is(err, services.ErrInvalidLoginCode):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrDriverNotFound),
		errors.Is(err, services.ErrAssignmentNotFound),
		errors.Is(err, services.ErrVanNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotRouteOwner):
		return http.StatusForbidden
	case errors.As(err, &dup),
		errors.Is(err, services.ErrInsufficientNotice),
		errors.Is(err, services.ErrDriverUnavailable),
		errors.Is(err, services.ErrInvalidDate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a service error. Validation messages pass through
// verbatim; the UI displays them as-is.
func respondError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}
