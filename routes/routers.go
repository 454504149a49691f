package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"occupancy/controllers"
	"occupancy/metrics"
	middlewares "occupancy/middleware"
	"occupancy/services"
	"occupancy/services/logger"
)

func SetupRoutes(router *gin.Engine, facade *services.OccupancyFacade, m *melody.Melody, log logger.Logger) {
	roomController := controllers.NewRoomController(facade, log)
	statsController := controllers.NewStatsController(facade, log)
	notificationController := controllers.NewNotificationController(facade, log)

	v1 := router.Group("/api/v1")
	v1.Use(middlewares.SessionMiddleware())

	v1.GET("/rooms", roomController.GetRooms)
	v1.GET("/rooms/grouped", roomController.GetGroupedRooms)
	v1.GET("/rooms/:id", roomController.GetRoom)
	v1.PUT("/rooms/:id/stay", roomController.CommitStay)
	v1.PUT("/rooms/:id/reserve", roomController.Reserve)
	v1.PUT("/rooms/:id/checkout", roomController.CheckOut)

	v1.GET("/stats/daily", statsController.GetDailyStats)
	v1.GET("/stats/occupancy", statsController.GetOccupancy)
	v1.GET("/stats/report", statsController.GetDailyReport)
	v1.GET("/report", statsController.GetReport)
	v1.GET("/sync", statsController.GetSyncStatus)

	v1.GET("/notifications", notificationController.GetNotifications)
	v1.DELETE("/notifications/:id", notificationController.Dismiss)
	v1.DELETE("/notifications", notificationController.DismissAll)

	if m != nil {
		router.GET("/ws", func(c *gin.Context) {
			if err := m.HandleRequest(c.Writer, c.Request); err != nil {
				log.Warn("websocket upgrade: %v", err)
			}
		})
	}

	router.GET("/metrics", metrics.Handler())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
}
