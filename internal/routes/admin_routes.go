package routes

import (
	"route_scheduler/internal/controllers"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(rpc *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	admin := rpc.Group("", adminOnly)
	{
		admin.POST("/drivers.list", controllers.ListDrivers)
		admin.POST("/drivers.get", controllers.GetDriver)
		admin.POST("/drivers.invite", controllers.InviteDriver)
		admin.POST("/drivers.update", controllers.UpdateDriver)
		admin.POST("/drivers.delete", controllers.DeleteDriver)
		admin.POST("/drivers.resendInvite", controllers.ResendInvite)
		admin.POST("/drivers.notify", controllers.NotifyDriver)

		admin.POST("/vans.seed", controllers.SeedVans)

		admin.POST("/routes.list", controllers.ListRoutes)
		admin.POST("/routes.assign", controllers.AssignRoute)
		admin.POST("/routes.update", controllers.UpdateRoute)
		admin.POST("/routes.delete", controllers.DeleteRoute)
		admin.POST("/routes.reassign", controllers.ReassignRoute)

		admin.POST("/schedule.byDate", controllers.ScheduleByDate)
		admin.POST("/schedule.driverAvailability", controllers.DriverAvailability)
		admin.POST("/schedule.allAvailability", controllers.AllAvailability)

		admin.POST("/securityLogs.list", controllers.ListSecurityLogs)
		admin.POST("/securityLogs.stats", controllers.SecurityLogStats)
	}
}
