package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teadealer/teadealer-api/internal/services"
	"github.com/teadealer/teadealer-api/internal/storage"
)

// Handlers holds all handler instances
type Handlers struct {
	Health     *HealthHandler
	Auth       *AuthHandler
	Customer   *CustomerHandler
	Collection *CollectionHandler
	Rate       *RateHandler
	Deduction  *DeductionHandler
	Settings   *SettingsHandler
	Invoice    *InvoiceHandler
	Report     *ReportHandler
	Job        *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, storage *storage.LocalStorage) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(),
		Auth:       NewAuthHandler(svcs.Auth),
		Customer:   NewCustomerHandler(svcs.Customer),
		Collection: NewCollectionHandler(svcs.Collection),
		Rate:       NewRateHandler(svcs.MonthlyRate),
		Deduction:  NewDeductionHandler(svcs.Deduction),
		Settings:   NewSettingsHandler(svcs.Settings, storage),
		Invoice:    NewInvoiceHandler(svcs.Invoice, svcs.InvoicePDF, svcs.Job),
		Report:     NewReportHandler(svcs.Report),
		Job:        NewJobHandler(svcs.Job),
	}
}

// respondError maps service sentinel errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidPeriod),
		errors.Is(err, services.ErrInvalidGrade),
		errors.Is(err, services.ErrInvalidState):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrUnauthorized),
		errors.Is(err, services.ErrInvalidPassword):
		status = http.StatusUnauthorized
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
