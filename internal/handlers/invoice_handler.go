package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teadealer/teadealer-api/internal/repository"
	"github.com/teadealer/teadealer-api/internal/services"
	"github.com/teadealer/teadealer-api/pkg/logger"
)

type InvoiceHandler struct {
	invoiceService *services.InvoiceService
	pdfService     *services.InvoicePDFService
	jobService     *services.JobService
}

func NewInvoiceHandler(
	invoiceService *services.InvoiceService,
	pdfService *services.InvoicePDFService,
	jobService *services.JobService,
) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		pdfService:     pdfService,
		jobService:     jobService,
	}
}

type generateRequest struct {
	CustomerID uint `json:"customer_id" binding:"required"`
	Year       int  `json:"year" binding:"required"`
	Month      int  `json:"month" binding:"required"`
}

// @Summary Generate invoice
// @Description Generate (or regenerate) one grower's invoice for a month.
// @Description Regeneration re-reads collections, rates and deductions but
// @Description keeps the invoice's current status.
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body generateRequest true "Grower and period"
// @Success 200 {object} models.Invoice
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices/generate [post]
func (h *InvoiceHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoice, err := h.invoiceService.Generate(c.Request.Context(), req.CustomerID, req.Year, req.Month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// @Summary Generate all invoices
// @Description Run month-end generation across every grower. Individual
// @Description failures are reported per grower instead of aborting the run.
// @Description Pass async=true to run in the background worker.
// @Tags Invoices
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Param async query bool false "Run in the background"
// @Success 200 {object} services.BatchResult
// @Success 202 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices/generate-all/{year}/{month} [post]
func (h *InvoiceHandler) GenerateAll(c *gin.Context) {
	year, _ := strconv.Atoi(c.Param("year"))
	month, _ := strconv.Atoi(c.Param("month"))

	if c.Query("async") == "true" {
		h.jobService.EnqueueAsync(func(ctx context.Context) error {
			result, err := h.invoiceService.GenerateAllForPeriod(ctx, year, month)
			if err != nil {
				return err
			}
			if len(result.Failed) > 0 {
				logger.Warn(fmt.Sprintf("[Invoices] Async run %d-%02d finished with %d failures", year, month, len(result.Failed)))
			}
			return nil
		})
		c.JSON(http.StatusAccepted, gin.H{"message": fmt.Sprintf("generation for %d-%02d queued", year, month)})
		return
	}

	result, err := h.invoiceService.GenerateAllForPeriod(c.Request.Context(), year, month)
	if err != nil && result == nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary List invoices
// @Description Get a paginated list of invoices
// @Tags Invoices
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param year query int false "Filter by year"
// @Param month query int false "Filter by month"
// @Param status query string false "Filter by status"
// @Param book_number query string false "Filter by book number"
// @Param route query string false "Filter by route"
// @Param search query string false "Search invoice number or grower"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) Index(c *gin.Context) {
	query := &repository.InvoiceQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Year, _ = strconv.Atoi(c.Query("year"))
	query.Month, _ = strconv.Atoi(c.Query("month"))
	query.Status = c.Query("status")
	query.BookNumber = c.Query("book_number")
	query.Route = c.Query("route")
	query.Search = c.Query("search")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")

	invoices, total, err := h.invoiceService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices": invoices,
		"pagination": gin.H{
			"page":     query.Page,
			"per_page": query.PerPage,
			"total":    total,
		},
	})
}

// @Summary Get invoice
// @Description Get one invoice with its full snapshot
// @Tags Invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} models.Invoice
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary Update invoice status
// @Description Move an invoice between GENERATED, PAID and CANCELLED
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path int true "Invoice ID"
// @Param status body statusRequest true "Target status"
// @Success 200 {object} models.Invoice
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoice, err := h.invoiceService.UpdateStatus(c.Request.Context(), uint(id), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// @Summary Download invoice PDF
// @Description Render the invoice as a PDF statement
// @Tags Invoices
// @Produce application/pdf
// @Param id path int true "Invoice ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	pdfBytes, relPath, err := h.pdfService.Render(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", relPath))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// @Summary Period statistics
// @Description Aggregate one month's invoices (cancelled excluded)
// @Tags Invoices
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} repository.InvoicePeriodStats
// @Security BearerAuth
// @Router /invoices/stats/{year}/{month} [get]
func (h *InvoiceHandler) Stats(c *gin.Context) {
	year, _ := strconv.Atoi(c.Param("year"))
	month, _ := strconv.Atoi(c.Param("month"))

	stats, err := h.invoiceService.PeriodStats(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Delete invoice
// @Description Remove an invoice
// @Tags Invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Destroy(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
