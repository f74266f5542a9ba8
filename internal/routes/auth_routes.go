package routes

import (
	"route_scheduler/internal/controllers"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(rpc *gin.RouterGroup, adminOnly, driverOnly gin.HandlerFunc) {
	rpc.POST("/adminAuth.sendCode", controllers.AdminSendCode)
	rpc.POST("/adminAuth.verifyCode", controllers.AdminVerifyCode)
	rpc.POST("/adminAuth.me", adminOnly, controllers.AdminMe)
	rpc.POST("/adminAuth.logout", controllers.AdminLogout)

	rpc.POST("/driverAuth.requestCode", controllers.DriverRequestCode)
	rpc.POST("/driverAuth.verifyCode", controllers.DriverVerifyCode)
	rpc.POST("/driverAuth.me", driverOnly, controllers.DriverMe)
	rpc.POST("/driverAuth.logout", controllers.DriverLogout)
}
