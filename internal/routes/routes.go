package routes

import (
	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"route_scheduler/internal/middleware"
	"route_scheduler/internal/services"
)

// SetupRouter builds the gin engine and registers every RPC procedure under
// the /rpc mount. All procedures are POST with JSON bodies; the procedure
// name is the final path segment.
func SetupRouter(sessions *services.SessionService) *gin.Engine {
	r := gin.New()
	r.Use(ginlogger.SetLogger())
	r.Use(gin.Recovery())

	rpc := r.Group("/rpc")

	adminOnly := middleware.RequireAdmin(sessions)
	driverOnly := middleware.RequireDriver(sessions)

	AuthRoutes(rpc, adminOnly, driverOnly)
	PublicRoutes(rpc)
	AdminRoutes(rpc, adminOnly)
	DriverPortalRoutes(rpc, driverOnly)

	return r
}
