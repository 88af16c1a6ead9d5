package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teadealer/teadealer-api/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// @Summary Monthly invoice summary
// @Description Export one row per invoice for a month (CSV or XLSX)
// @Tags Reports
// @Produce application/octet-stream
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/invoices/{year}/{month} [get]
func (h *ReportHandler) MonthlySummary(c *gin.Context) {
	year, _ := strconv.Atoi(c.Param("year"))
	month, _ := strconv.Atoi(c.Param("month"))

	var (
		data        []byte
		filename    string
		contentType string
		err         error
	)
	if c.DefaultQuery("format", "csv") == "xlsx" {
		data, filename, err = h.reportService.MonthlySummaryXLSX(c.Request.Context(), year, month)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	} else {
		data, filename, err = h.reportService.MonthlySummaryCSV(c.Request.Context(), year, month)
		contentType = "text/csv"
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// @Summary Daily collection sheet
// @Description Export the weighings recorded on one date as CSV
// @Tags Reports
// @Produce text/csv
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/collections/{date} [get]
func (h *ReportHandler) DailyCollections(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	data, filename, err := h.reportService.DailyCollectionCSV(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// @Summary Grower invoice history
// @Description Export one grower's invoices across periods as CSV
// @Tags Reports
// @Produce text/csv
// @Param customer_id path int true "Customer ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/customers/{customer_id}/invoices [get]
func (h *ReportHandler) CustomerHistory(c *gin.Context) {
	customerID, err := strconv.ParseUint(c.Param("customer_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	data, filename, err := h.reportService.CustomerInvoiceHistoryCSV(c.Request.Context(), uint(customerID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}
