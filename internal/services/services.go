package services

import (
	"github.com/teadealer/teadealer-api/internal/config"
	"github.com/teadealer/teadealer-api/internal/jobs"
	"github.com/teadealer/teadealer-api/internal/repository"
	"github.com/teadealer/teadealer-api/internal/storage"
)

// Services holds all service instances
type Services struct {
	Auth        *AuthService
	Customer    *CustomerService
	Collection  *CollectionService
	MonthlyRate *MonthlyRateService
	Deduction   *DeductionService
	Settings    *SettingsService
	Invoice     *InvoiceService
	InvoicePDF  *InvoicePDFService
	Report      *ReportService
	Job         *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, storage *storage.LocalStorage, cfg *config.Config) *Services {
	settingsSvc := NewSettingsService(repos.AppSetting)
	collectionSvc := NewCollectionService(repos.Collection, repos.Customer, repos.MonthlyRate)
	rateSvc := NewMonthlyRateService(repos.MonthlyRate)

	invoiceSvc := NewInvoiceService(
		repos.Invoice,
		repos.Customer,
		repos.Deduction,
		collectionSvc,
		rateSvc,
		settingsSvc,
		NewStandardCalculator(),
		cfg.WorkerCount,
	)

	return &Services{
		Auth:        NewAuthService(repos.User, cfg),
		Customer:    NewCustomerService(repos.Customer),
		Collection:  collectionSvc,
		MonthlyRate: rateSvc,
		Deduction:   NewDeductionService(repos.Deduction, repos.Customer),
		Settings:    settingsSvc,
		Invoice:     invoiceSvc,
		InvoicePDF:  NewInvoicePDFService(invoiceSvc, settingsSvc, storage),
		Report:      NewReportService(invoiceSvc, collectionSvc),
		Job:         NewJobService(worker),
	}
}
