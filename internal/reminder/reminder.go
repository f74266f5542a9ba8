// Package reminder runs the daily route reminder. It is a periodic caller
// of the same read surface the portal uses, not part of the assignment
// engine: it tolerates an empty result set and keeps going past per-driver
// delivery failures.
package reminder

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"route_scheduler/internal/models"
	"route_scheduler/internal/notify"
)

type Reminder struct {
	db         func() *gorm.DB
	dispatcher *notify.Dispatcher
	cron       *cron.Cron
}

// Start schedules the reminder run every day at 17:00 local time and
// returns the running instance.
func Start(db func() *gorm.DB, dispatcher *notify.Dispatcher) *Reminder {
	r := &Reminder{db: db, dispatcher: dispatcher, cron: cron.New()}

	if _, err := r.cron.AddFunc("0 17 * * *", r.Run); err != nil {
		logrus.WithError(err).Error("could not schedule route reminder")
		return r
	}
	r.cron.Start()
	return r
}

func (r *Reminder) Stop() {
	r.cron.Stop()
}

// Run sends each driver a reminder for tomorrow's assigned routes.
func (r *Reminder) Run() {
	db := r.db()
	if db == nil {
		logrus.Warn("route reminder skipped, store unavailable")
		return
	}

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	var assignments []models.RouteAssignment
	err := db.Preload("Driver").
		Where("date = ? AND status = ?", tomorrow, models.AssignmentAssigned).
		Find(&assignments).Error
	if err != nil {
		logrus.WithError(err).Error("route reminder query failed")
		return
	}

	for _, a := range assignments {
		body := fmt.Sprintf("Reminder: you have a %s route tomorrow (%s).", a.RouteType.Label(), a.Date)
		res := r.dispatcher.Send(a.Driver.Email, a.Driver.Phone, "Route reminder", body)
		if !res.Any() {
			logrus.WithField("driver_id", a.DriverID).Warn("route reminder not delivered")
		}
	}

	logrus.WithField("count", len(assignments)).Info("route reminders processed")
}
