package controllers

import (
	"github.com/gin-gonic/gin"

	"occupancy/dto"
	"occupancy/middleware"
	"occupancy/models"
	"occupancy/response"
	"occupancy/services"
	"occupancy/services/logger"
	"occupancy/validator"
)

type RoomController struct {
	facade *services.OccupancyFacade
	logger logger.Logger
}

func NewRoomController(facade *services.OccupancyFacade, log logger.Logger) *RoomController {
	if log == nil {
		log = logger.Nop{}
	}
	return &RoomController{facade: facade, logger: log}
}

// GetRooms lists rooms, narrowed by ?property= and ?type=.
func (rc *RoomController) GetRooms(c *gin.Context) {
	var q dto.RoomQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query")
		return
	}
	if err := validator.ValidateRoomQuery(&q); err != nil {
		response.Error(c, err)
		return
	}
	rooms := rc.facade.Rooms(models.PropertyID(q.Property), q.Type)
	response.SuccessWithTotal(c, rooms, len(rooms))
}

func (rc *RoomController) GetGroupedRooms(c *gin.Context) {
	property, err := validator.ParseProperty(c.DefaultQuery("property", string(models.PropertySweetheart)))
	if err != nil {
		response.Error(c, err)
		return
	}
	if property == "" {
		property = models.PropertySweetheart
	}
	response.Success(c, rc.facade.GroupedRooms(property))
}

func (rc *RoomController) GetRoom(c *gin.Context) {
	id, err := validator.ParseRoomID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	room, err := rc.facade.Room(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, room)
}

// CommitStay checks a guest in, or edits the stay of an occupied room.
func (rc *RoomController) CommitStay(c *gin.Context) {
	id, err := validator.ParseRoomID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CommitStayRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := validator.ValidateCommitStay(&req); err != nil {
		response.Error(c, err)
		return
	}
	current, err := rc.facade.Room(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	room, err := rc.facade.CommitStay(middleware.SessionID(c), id, req.GuestName, req.StaySpec(current.PropertyID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, room)
}

func (rc *RoomController) Reserve(c *gin.Context) {
	id, err := validator.ParseRoomID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ReserveRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := validator.ValidateReserve(&req); err != nil {
		response.Error(c, err)
		return
	}
	room, err := rc.facade.Reserve(middleware.SessionID(c), id, req.GuestName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, room)
}

func (rc *RoomController) CheckOut(c *gin.Context) {
	id, err := validator.ParseRoomID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	room, err := rc.facade.CheckOut(middleware.SessionID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, room)
}
