package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	meterdomain "github.com/pgdesk/pgdesk/internal/meter/domain"
)

type createMeterRequest struct {
	RoomID          string  `json:"room_id"`
	MeterNumber     string  `json:"meter_number"`
	StartingReading float64 `json:"starting_reading"`
}

type addMeterReadingRequest struct {
	ReadingValue float64    `json:"reading_value"`
	ReadingDate  *time.Time `json:"reading_date"`
	RecordedBy   string     `json:"recorded_by"`
}

func (s *Server) CreateMeter(c *gin.Context) {
	var req createMeterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.meterSvc.CreateMeter(c.Request.Context(), meterdomain.CreateMeterRequest{
		RoomID:          strings.TrimSpace(req.RoomID),
		MeterNumber:     strings.TrimSpace(req.MeterNumber),
		StartingReading: req.StartingReading,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMeters(c *gin.Context) {
	resp, err := s.meterSvc.ListMeters(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetMeterByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.meterSvc.GetMeter(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AddMeterReading(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req addMeterReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.meterSvc.AddReading(c.Request.Context(), meterdomain.AddReadingRequest{
		MeterID:      id,
		ReadingValue: req.ReadingValue,
		ReadingDate:  req.ReadingDate,
		RecordedBy:   strings.TrimSpace(req.RecordedBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMeterReadings(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.meterSvc.Readings(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetMeterSummary(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.meterSvc.Summary(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isMeterValidationError(err error) bool {
	switch err {
	case meterdomain.ErrInvalidID,
		meterdomain.ErrInvalidMeterNumber,
		meterdomain.ErrInvalidRoom,
		meterdomain.ErrInvalidStarting,
		meterdomain.ErrInvalidValue,
		meterdomain.ErrNonMonotonicValue,
		meterdomain.ErrNonMonotonicDate:
		return true
	default:
		return false
	}
}
