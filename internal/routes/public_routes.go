package routes

import (
	"route_scheduler/internal/controllers"

	"github.com/gin-gonic/gin"
)

func PublicRoutes(rpc *gin.RouterGroup) {
	rpc.POST("/vans.list", controllers.ListVans)
}
