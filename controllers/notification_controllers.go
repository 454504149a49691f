package controllers

import (
	"github.com/gin-gonic/gin"

	"occupancy/middleware"
	"occupancy/response"
	"occupancy/services"
	"occupancy/services/logger"
)

type NotificationController struct {
	facade *services.OccupancyFacade
	logger logger.Logger
}

func NewNotificationController(facade *services.OccupancyFacade, log logger.Logger) *NotificationController {
	if log == nil {
		log = logger.Nop{}
	}
	return &NotificationController{facade: facade, logger: log}
}

func (nc *NotificationController) GetNotifications(c *gin.Context) {
	list := nc.facade.Notifications()
	response.SuccessWithTotal(c, list, len(list))
}

func (nc *NotificationController) Dismiss(c *gin.Context) {
	id := c.Param("id")
	if err := nc.facade.DismissNotification(id); err != nil {
		response.Error(c, err)
		return
	}
	nc.logger.Debug("[%s] dismissed notification %s", middleware.SessionID(c), id)
	response.Success(c, gin.H{"id": id})
}

func (nc *NotificationController) DismissAll(c *gin.Context) {
	n := nc.facade.DismissAllNotifications()
	nc.logger.Debug("[%s] dismissed %d notification(s)", middleware.SessionID(c), n)
	response.Success(c, gin.H{"dismissed": n})
}
