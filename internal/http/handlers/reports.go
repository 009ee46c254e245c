package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/services"
)

type ReportHandler struct {
	Reports services.ReportService
}

// GET /api/reports/sales
func (h ReportHandler) Sales(c *gin.Context) {
	report, err := h.Reports.SalesReport(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GET /api/reports/tickets/export?format=csv|json
func (h ReportHandler) ExportTickets(c *gin.Context) {
	data, contentType, filename, err := h.Reports.ExportTickets(c.Request.Context(), c.Query("format"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
