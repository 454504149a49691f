package controllers

import (
	"github.com/gin-gonic/gin"

	"occupancy/models"
	"occupancy/response"
	"occupancy/services"
	"occupancy/services/logger"
	"occupancy/validator"
)

type StatsController struct {
	facade *services.OccupancyFacade
	logger logger.Logger
}

func NewStatsController(facade *services.OccupancyFacade, log logger.Logger) *StatsController {
	if log == nil {
		log = logger.Nop{}
	}
	return &StatsController{facade: facade, logger: log}
}

func (sc *StatsController) GetDailyStats(c *gin.Context) {
	response.Success(c, sc.facade.DailyStats())
}

func (sc *StatsController) GetDailyReport(c *gin.Context) {
	response.Success(c, sc.facade.DailyReport())
}

// GetOccupancy returns one property's load, or every property's when no
// property is given.
func (sc *StatsController) GetOccupancy(c *gin.Context) {
	property, err := validator.ParseProperty(c.Query("property"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if property != "" {
		response.Success(c, sc.facade.Occupancy(property))
		return
	}
	all := make([]models.OccupancyStats, 0, len(models.Properties()))
	for _, p := range models.Properties() {
		all = append(all, sc.facade.Occupancy(p))
	}
	response.Success(c, all)
}

// GetReport returns the AI executive summary for a property.
func (sc *StatsController) GetReport(c *gin.Context) {
	property, err := validator.ParseProperty(c.DefaultQuery("property", string(models.PropertySweetheart)))
	if err != nil {
		response.Error(c, err)
		return
	}
	if property == "" {
		property = models.PropertySweetheart
	}
	response.Success(c, sc.facade.Report(c.Request.Context(), property))
}

func (sc *StatsController) GetSyncStatus(c *gin.Context) {
	response.Success(c, sc.facade.SyncStatus())
}
