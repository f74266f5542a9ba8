package main

import (
	"log"
	"net/http"

	"route_scheduler/internal/config"
	"route_scheduler/internal/controllers"
	"route_scheduler/internal/logger"
	"route_scheduler/internal/middleware"
	"route_scheduler/internal/notify"
	"route_scheduler/internal/reminder"
	"route_scheduler/internal/routes"
	"route_scheduler/internal/services"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database (non-fatal: handlers answer 503 until it's up)
	config.InitDB()
	app := config.LoadApp()

	// Outbound notification channels
	dispatcher := notify.NewDispatcher(
		notify.NewSESEmailSender(app),
		notify.NewSNSSMSSender(app),
	)

	sessions := services.NewSessionService(config.GetDB)
	controllers.Init(controllers.Deps{
		Sessions:     sessions,
		LoginCodes:   services.NewLoginCodeService(config.GetDB, dispatcher, app.AdminEmail),
		Availability: services.NewAvailabilityService(config.GetDB),
		Assignments:  services.NewAssignmentService(config.GetDB, dispatcher),
		Notify:       dispatcher,
	})

	// Next-day route reminders
	reminder.Start(config.GetDB, dispatcher)

	// Setup Gin router
	r := routes.SetupRouter(sessions)

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Println("🚀 Server running at :" + app.Port)
	log.Fatal(http.ListenAndServe("0.0.0.0:"+app.Port, handler))
}
