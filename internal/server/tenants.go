package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	tenantdomain "github.com/pgdesk/pgdesk/internal/tenant/domain"
)

type onboardTenantRequest struct {
	RoomID       string     `json:"room_id"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	JoinDate     *time.Time `json:"join_date"`
	DepositPaise int64      `json:"deposit_paise"`
	IDProofURL   *string    `json:"id_proof_url"`
	AgreementURL *string    `json:"agreement_url"`
}

type updateTenantRequest struct {
	FullName     *string `json:"full_name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	IDProofURL   *string `json:"id_proof_url,omitempty"`
	AgreementURL *string `json:"agreement_url,omitempty"`
}

type checkoutTenantRequest struct {
	CheckOutDate  *time.Time `json:"check_out_date"`
	RefundDeposit bool       `json:"refund_deposit"`
}

func (s *Server) OnboardTenant(c *gin.Context) {
	var req onboardTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tenantSvc.Onboard(c.Request.Context(), tenantdomain.OnboardRequest{
		RoomID:       strings.TrimSpace(req.RoomID),
		FullName:     strings.TrimSpace(req.FullName),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		JoinDate:     req.JoinDate,
		DepositPaise: req.DepositPaise,
		IDProofURL:   req.IDProofURL,
		AgreementURL: req.AgreementURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTenants(c *gin.Context) {
	var query struct {
		Status string `form:"status"`
		RoomID string `form:"room_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tenantSvc.List(c.Request.Context(), tenantdomain.ListRequest{
		Status: strings.TrimSpace(query.Status),
		RoomID: strings.TrimSpace(query.RoomID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTenantByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.tenantSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateTenant(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req updateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tenantSvc.Update(c.Request.Context(), tenantdomain.UpdateRequest{
		ID:           id,
		FullName:     trimStringPtr(req.FullName),
		Email:        trimStringPtr(req.Email),
		Phone:        trimStringPtr(req.Phone),
		IDProofURL:   req.IDProofURL,
		AgreementURL: req.AgreementURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) StartTenantNotice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.tenantSvc.StartNotice(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CheckoutTenant(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req checkoutTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tenantSvc.Checkout(c.Request.Context(), tenantdomain.CheckoutRequest{
		ID:            id,
		CheckOutDate:  req.CheckOutDate,
		RefundDeposit: req.RefundDeposit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isTenantValidationError(err error) bool {
	switch err {
	case tenantdomain.ErrInvalidID,
		tenantdomain.ErrInvalidName,
		tenantdomain.ErrInvalidPhone,
		tenantdomain.ErrInvalidEmail,
		tenantdomain.ErrInvalidDeposit,
		tenantdomain.ErrInvalidRoom,
		tenantdomain.ErrInvalidStatus:
		return true
	default:
		return false
	}
}
