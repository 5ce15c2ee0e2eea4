package routes

import (
	"github.com/gin-gonic/gin"

	"slotbook/handlers"
)

// RegisterRoutes registers all endpoints for the booking server.
func RegisterRoutes(r *gin.Engine, appt *handlers.AppointmentHandler, schedule *handlers.ScheduleHandler) {
	r.GET("/health", handlers.HealthHandler)

	api := r.Group("/api")

	appointments := api.Group("/appointments")
	{
		appointments.POST("", appt.Create)
		appointments.GET("/day/:date", appt.GetDay)
		appointments.GET("/range", appt.GetRange)
		appointments.GET("/client/:clientId", appt.GetClient)
		appointments.GET("/record/:id", appt.GetByRecord)
		appointments.PATCH("/status", appt.SetStatus)
		appointments.PATCH("/payment", appt.SetPayment)
		appointments.DELETE("", appt.DeleteGroup)
	}

	api.PATCH("/records/:id", appt.UpdateRecord)

	sched := api.Group("/schedule")
	{
		sched.GET("/slots/:date", schedule.GetGrid)
		sched.GET("/config", schedule.GetConfig)
		sched.PUT("/config", schedule.UpdateConfig)
	}
}
