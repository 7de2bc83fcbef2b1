package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	complaintdomain "github.com/pgdesk/pgdesk/internal/complaint/domain"
)

type createComplaintRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	TenantID    string `json:"tenant_id"`
	RoomID      string `json:"room_id"`
}

type updateComplaintStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) CreateComplaint(c *gin.Context) {
	var req createComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.complaintSvc.Create(c.Request.Context(), complaintdomain.CreateRequest{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Priority:    strings.TrimSpace(req.Priority),
		TenantID:    strings.TrimSpace(req.TenantID),
		RoomID:      strings.TrimSpace(req.RoomID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListComplaints(c *gin.Context) {
	var query struct {
		Status   string `form:"status"`
		Priority string `form:"priority"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.complaintSvc.List(c.Request.Context(), complaintdomain.ListRequest{
		Status:   strings.TrimSpace(query.Status),
		Priority: strings.TrimSpace(query.Priority),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetComplaintByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.complaintSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateComplaintStatus(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req updateComplaintStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.complaintSvc.UpdateStatus(c.Request.Context(), complaintdomain.UpdateStatusRequest{
		ID:     id,
		Status: strings.TrimSpace(req.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isComplaintValidationError(err error) bool {
	switch err {
	case complaintdomain.ErrInvalidID,
		complaintdomain.ErrInvalidTitle,
		complaintdomain.ErrInvalidPriority,
		complaintdomain.ErrInvalidStatus,
		complaintdomain.ErrInvalidTenant,
		complaintdomain.ErrInvalidRoom:
		return true
	default:
		return false
	}
}
