package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/teadealer/teadealer-api/internal/models"
	"github.com/teadealer/teadealer-api/internal/services"
)

type DeductionHandler struct {
	deductionService *services.DeductionService
}

func NewDeductionHandler(deductionService *services.DeductionService) *DeductionHandler {
	return &DeductionHandler{deductionService: deductionService}
}

type deductionRequest struct {
	CustomerID          uint                `json:"customer_id" binding:"required"`
	Year                int                 `json:"year" binding:"required"`
	Month               int                 `json:"month" binding:"required"`
	ArrearsAmount       decimal.NullDecimal `json:"arrears_amount"`
	AdvanceAmount       decimal.NullDecimal `json:"advance_amount"`
	AdvanceDate         *string             `json:"advance_date"`
	LoanAmount          decimal.NullDecimal `json:"loan_amount"`
	LoanDate            *string             `json:"loan_date"`
	Fertilizer1Amount   decimal.NullDecimal `json:"fertilizer1_amount"`
	Fertilizer1Date     *string             `json:"fertilizer1_date"`
	Fertilizer2Amount   decimal.NullDecimal `json:"fertilizer2_amount"`
	Fertilizer2Date     *string             `json:"fertilizer2_date"`
	TeaPacketsCount     *int                `json:"tea_packets_count"`
	TeaPacketsTotal     decimal.NullDecimal `json:"tea_packets_total"`
	AgrochemicalsAmount decimal.NullDecimal `json:"agrochemicals_amount"`
	AgrochemicalsDate   *string             `json:"agrochemicals_date"`
	TransportCharge     decimal.NullDecimal `json:"transport_charge"`
	OtherDeductions     decimal.NullDecimal `json:"other_deductions"`
	OtherDeductionsNote *string             `json:"other_deductions_note"`
}

func (r deductionRequest) toModel() (*models.Deduction, error) {
	parseDate := func(s *string) (*time.Time, error) {
		if s == nil || *s == "" {
			return nil, nil
		}
		t, err := time.Parse("2006-01-02", *s)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}

	d := &models.Deduction{
		CustomerID:          r.CustomerID,
		Year:                r.Year,
		Month:               r.Month,
		ArrearsAmount:       r.ArrearsAmount,
		AdvanceAmount:       r.AdvanceAmount,
		LoanAmount:          r.LoanAmount,
		Fertilizer1Amount:   r.Fertilizer1Amount,
		Fertilizer2Amount:   r.Fertilizer2Amount,
		TeaPacketsCount:     r.TeaPacketsCount,
		TeaPacketsTotal:     r.TeaPacketsTotal,
		AgrochemicalsAmount: r.AgrochemicalsAmount,
		TransportCharge:     r.TransportCharge,
		OtherDeductions:     r.OtherDeductions,
		OtherDeductionsNote: r.OtherDeductionsNote,
	}

	var err error
	if d.AdvanceDate, err = parseDate(r.AdvanceDate); err != nil {
		return nil, err
	}
	if d.LoanDate, err = parseDate(r.LoanDate); err != nil {
		return nil, err
	}
	if d.Fertilizer1Date, err = parseDate(r.Fertilizer1Date); err != nil {
		return nil, err
	}
	if d.Fertilizer2Date, err = parseDate(r.Fertilizer2Date); err != nil {
		return nil, err
	}
	if d.AgrochemicalsDate, err = parseDate(r.AgrochemicalsDate); err != nil {
		return nil, err
	}
	return d, nil
}

// @Summary Upsert deduction record
// @Description Create or replace a grower's charge record for one month
// @Tags Deductions
// @Accept json
// @Produce json
// @Param deduction body deductionRequest true "Deduction"
// @Success 200 {object} models.Deduction
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /deductions [put]
func (h *DeductionHandler) Upsert(c *gin.Context) {
	var req deductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	deduction, err := h.deductionService.Upsert(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deduction)
}

// @Summary Get deduction record
// @Description Get one grower's charges for a month
// @Tags Deductions
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Param customer_id path int true "Customer ID"
// @Success 200 {object} models.Deduction
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /deductions/{year}/{month}/{customer_id} [get]
func (h *DeductionHandler) Show(c *gin.Context) {
	customerID, err := strconv.ParseUint(c.Param("customer_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}
	year, _ := strconv.Atoi(c.Param("year"))
	month, _ := strconv.Atoi(c.Param("month"))

	deduction, err := h.deductionService.GetForCustomerPeriod(c.Request.Context(), uint(customerID), year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deduction)
}

// @Summary List deduction records
// @Description List every charge record for a month
// @Tags Deductions
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /deductions/{year}/{month} [get]
func (h *DeductionHandler) Index(c *gin.Context) {
	year, _ := strconv.Atoi(c.Param("year"))
	month, _ := strconv.Atoi(c.Param("month"))

	deductions, err := h.deductionService.ListByPeriod(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deductions": deductions})
}

// @Summary Delete deduction record
// @Description Remove a grower's charge record
// @Tags Deductions
// @Produce json
// @Param id path int true "Deduction ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /deductions/{id} [delete]
func (h *DeductionHandler) Destroy(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.deductionService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
