package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	roomdomain "github.com/pgdesk/pgdesk/internal/room/domain"
)

type createRoomRequest struct {
	RoomNumber string `json:"room_number"`
	RoomType   string `json:"room_type"`
	RentPaise  int64  `json:"rent_paise"`
	Capacity   int    `json:"capacity"`
	Floor      *int   `json:"floor"`
	Status     string `json:"status"`
}

type updateRoomRequest struct {
	RoomNumber *string `json:"room_number,omitempty"`
	RoomType   *string `json:"room_type,omitempty"`
	RentPaise  *int64  `json:"rent_paise,omitempty"`
	Capacity   *int    `json:"capacity,omitempty"`
	Floor      *int    `json:"floor,omitempty"`
	Status     *string `json:"status,omitempty"`
	EditedBy   string  `json:"edited_by"`
}

func (s *Server) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.roomSvc.Create(c.Request.Context(), roomdomain.CreateRequest{
		RoomNumber: strings.TrimSpace(req.RoomNumber),
		RoomType:   strings.TrimSpace(req.RoomType),
		RentPaise:  req.RentPaise,
		Capacity:   req.Capacity,
		Floor:      req.Floor,
		Status:     strings.TrimSpace(req.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListRooms(c *gin.Context) {
	resp, err := s.roomSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRoomByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.roomSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateRoom(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req updateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.roomSvc.Update(c.Request.Context(), roomdomain.UpdateRequest{
		ID:         id,
		RoomNumber: trimStringPtr(req.RoomNumber),
		RoomType:   trimStringPtr(req.RoomType),
		RentPaise:  req.RentPaise,
		Capacity:   req.Capacity,
		Floor:      req.Floor,
		Status:     trimStringPtr(req.Status),
		EditedBy:   strings.TrimSpace(req.EditedBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteRoom(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	if err := s.roomSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) GetRoomHistory(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.roomSvc.History(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isRoomValidationError(err error) bool {
	switch err {
	case roomdomain.ErrInvalidID,
		roomdomain.ErrInvalidRoomNumber,
		roomdomain.ErrInvalidRoomType,
		roomdomain.ErrInvalidRentAmount,
		roomdomain.ErrInvalidCapacity,
		roomdomain.ErrInvalidStatus:
		return true
	default:
		return false
	}
}

func trimStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
