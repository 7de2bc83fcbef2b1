package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	paymentdomain "github.com/pgdesk/pgdesk/internal/payment/domain"
)

type recordPaymentRequest struct {
	TenantID          string     `json:"tenant_id"`
	PaymentDate       *time.Time `json:"payment_date"`
	PaymentMonth      string     `json:"payment_month"`
	RentPaise         int64      `json:"rent_paise"`
	DepositPaise      int64      `json:"deposit_paise"`
	OtherChargesPaise int64      `json:"other_charges_paise"`
	Method            string     `json:"method"`
	Remarks           *string    `json:"remarks"`
}

func (s *Server) RecordPayment(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	month, err := parseMonth(req.PaymentMonth)
	if err != nil {
		AbortWithError(c, newValidationError("payment_month", "invalid_payment_month", "expected YYYY-MM"))
		return
	}

	resp, err := s.paymentSvc.Record(c.Request.Context(), paymentdomain.RecordRequest{
		TenantID:          strings.TrimSpace(req.TenantID),
		PaymentDate:       req.PaymentDate,
		PaymentMonth:      month,
		RentPaise:         req.RentPaise,
		DepositPaise:      req.DepositPaise,
		OtherChargesPaise: req.OtherChargesPaise,
		Method:            strings.TrimSpace(req.Method),
		Remarks:           req.Remarks,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPayments(c *gin.Context) {
	var query struct {
		Month     string `form:"month"`
		TenantID  string `form:"tenant_id"`
		PageToken string `form:"page_token"`
		PageSize  int    `form:"page_size"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.List(c.Request.Context(), paymentdomain.ListRequest{
		Month:     strings.TrimSpace(query.Month),
		TenantID:  strings.TrimSpace(query.TenantID),
		PageToken: strings.TrimSpace(query.PageToken),
		PageSize:  query.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPaymentByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.paymentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseMonth(value string) (time.Time, error) {
	return time.Parse("2006-01", strings.TrimSpace(value))
}

func isPaymentValidationError(err error) bool {
	switch err {
	case paymentdomain.ErrInvalidID,
		paymentdomain.ErrInvalidTenant,
		paymentdomain.ErrInvalidAmount,
		paymentdomain.ErrInvalidMethod,
		paymentdomain.ErrInvalidMonth:
		return true
	default:
		return false
	}
}
