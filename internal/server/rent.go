package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	rentdomain "github.com/pgdesk/pgdesk/internal/rent/domain"
)

func (s *Server) GetRentStatement(c *gin.Context) {
	var query struct {
		Month string `form:"month"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	month, err := parseMonth(query.Month)
	if err != nil {
		AbortWithError(c, newValidationError("month", "invalid_month", "expected YYYY-MM"))
		return
	}

	resp, err := s.rentSvc.Statement(c.Request.Context(), month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRentReceipt(c *gin.Context) {
	var query struct {
		TenantID string `form:"tenant_id"`
		Month    string `form:"month"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	month, err := parseMonth(query.Month)
	if err != nil {
		AbortWithError(c, newValidationError("month", "invalid_month", "expected YYYY-MM"))
		return
	}

	receipt, err := s.rentSvc.Receipt(c.Request.Context(), strings.TrimSpace(query.TenantID), month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="rent-receipt.pdf"`)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, receipt)
}

func isRentValidationError(err error) bool {
	switch err {
	case rentdomain.ErrInvalidMonth,
		rentdomain.ErrInvalidTenant:
		return true
	default:
		return false
	}
}
