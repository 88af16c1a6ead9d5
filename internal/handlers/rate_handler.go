package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/teadealer/teadealer-api/internal/models"
	"github.com/teadealer/teadealer-api/internal/services"
)

type RateHandler struct {
	rateService *services.MonthlyRateService
}

func NewRateHandler(rateService *services.MonthlyRateService) *RateHandler {
	return &RateHandler{rateService: rateService}
}

type rateRequest struct {
	Year                      int                 `json:"year" binding:"required"`
	Month                     int                 `json:"month" binding:"required"`
	Grade1Rate                decimal.NullDecimal `json:"grade1_rate"`
	Grade2Rate                decimal.NullDecimal `json:"grade2_rate"`
	SupplyDeductionPercentage decimal.NullDecimal `json:"supply_deduction_percentage"`
	TransportRatePerKg        decimal.NullDecimal `json:"transport_rate_per_kg"`
	StampFee                  decimal.NullDecimal `json:"stamp_fee"`
	TeaPacketPrice            decimal.NullDecimal `json:"tea_packet_price"`
}

// @Summary Upsert rate card
// @Description Create or replace the rate card for one month
// @Tags Rates
// @Accept json
// @Produce json
// @Param rate body rateRequest true "Rate card"
// @Success 200 {object} models.MonthlyRate
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /rates [put]
func (h *RateHandler) Upsert(c *gin.Context) {
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rate, err := h.rateService.Upsert(c.Request.Context(), &models.MonthlyRate{
		Year:                      req.Year,
		Month:                     req.Month,
		Grade1Rate:                req.Grade1Rate,
		Grade2Rate:                req.Grade2Rate,
		SupplyDeductionPercentage: req.SupplyDeductionPercentage,
		TransportRatePerKg:        req.TransportRatePerKg,
		StampFee:                  req.StampFee,
		TeaPacketPrice:            req.TeaPacketPrice,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

// @Summary Get rate card
// @Description Get the rate card for one month
// @Tags Rates
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} models.MonthlyRate
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /rates/{year}/{month} [get]
func (h *RateHandler) Show(c *gin.Context) {
	year, _ := strconv.Atoi(c.Param("year"))
	month, _ := strconv.Atoi(c.Param("month"))

	rate, err := h.rateService.GetByPeriod(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

// @Summary List rate cards
// @Description List rate cards, optionally for one year
// @Tags Rates
// @Produce json
// @Param year query int false "Year"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /rates [get]
func (h *RateHandler) Index(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))

	rates, err := h.rateService.List(c.Request.Context(), year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rates": rates})
}

// @Summary Delete rate card
// @Description Remove a rate card
// @Tags Rates
// @Produce json
// @Param id path int true "Rate ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /rates/{id} [delete]
func (h *RateHandler) Destroy(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.rateService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
