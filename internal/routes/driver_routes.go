package routes

import (
	"route_scheduler/internal/controllers"

	"github.com/gin-gonic/gin"
)

func DriverPortalRoutes(rpc *gin.RouterGroup, driverOnly gin.HandlerFunc) {
	portal := rpc.Group("", driverOnly)
	{
		portal.POST("/driverPortal.myRoutes", controllers.MyRoutes)
		portal.POST("/driverPortal.myAvailability", controllers.MyAvailability)
		portal.POST("/driverPortal.setAvailability", controllers.SetAvailability)
		portal.POST("/driverPortal.saveAvailabilityBatch", controllers.SaveAvailabilityBatch)
		portal.POST("/driverPortal.updateRoute", controllers.PortalUpdateRoute)
		portal.POST("/driverPortal.completeRoute", controllers.CompleteRoute)
	}
}
