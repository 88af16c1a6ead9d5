package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/teadealer/teadealer-api/internal/models"
	"github.com/teadealer/teadealer-api/internal/repository"
	"gorm.io/gorm"
)

// CustomerInput carries the fields accepted when registering or editing a grower.
type CustomerInput struct {
	BookNumber        string
	GrowerNameEnglish string
	GrowerNameSinhala string
	Address           *string
	NIC               *string
	LandName          *string
	ContactNumber     *string
	Route             *string
	TransportExempt   bool
}

// CustomerService manages grower registrations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// Create registers a new grower. Book numbers are unique.
func (s *CustomerService) Create(ctx context.Context, input CustomerInput) (*models.Customer, error) {
	if input.BookNumber == "" {
		return nil, fmt.Errorf("book number is required")
	}
	if input.GrowerNameEnglish == "" && input.GrowerNameSinhala == "" {
		return nil, fmt.Errorf("grower name is required")
	}

	if _, err := s.customerRepo.FindByBookNumber(ctx, input.BookNumber); err == nil {
		return nil, fmt.Errorf("book number %s: %w", input.BookNumber, ErrDuplicate)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer := &models.Customer{
		BookNumber:        input.BookNumber,
		GrowerNameEnglish: input.GrowerNameEnglish,
		GrowerNameSinhala: input.GrowerNameSinhala,
		Address:           input.Address,
		NIC:               input.NIC,
		LandName:          input.LandName,
		ContactNumber:     input.ContactNumber,
		Route:             input.Route,
		TransportExempt:   input.TransportExempt,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Update edits a grower. A changed book number must stay unique; history tied
// to the database id (collections, deductions, invoices) is unaffected.
func (s *CustomerService) Update(ctx context.Context, id uint, input CustomerInput) (*models.Customer, error) {
	customer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.BookNumber != "" && input.BookNumber != customer.BookNumber {
		if existing, err := s.customerRepo.FindByBookNumber(ctx, input.BookNumber); err == nil && existing.ID != id {
			return nil, fmt.Errorf("book number %s: %w", input.BookNumber, ErrDuplicate)
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		customer.BookNumber = input.BookNumber
	}

	customer.GrowerNameEnglish = input.GrowerNameEnglish
	customer.GrowerNameSinhala = input.GrowerNameSinhala
	customer.Address = input.Address
	customer.NIC = input.NIC
	customer.LandName = input.LandName
	customer.ContactNumber = input.ContactNumber
	customer.Route = input.Route
	customer.TransportExempt = input.TransportExempt

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Delete removes a grower registration.
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}

// GetByID fetches a grower by database id.
func (s *CustomerService) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return customer, nil
}

// GetByBookNumber fetches a grower by their collection book number.
func (s *CustomerService) GetByBookNumber(ctx context.Context, bookNumber string) (*models.Customer, error) {
	customer, err := s.customerRepo.FindByBookNumber(ctx, bookNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return customer, nil
}

// List returns growers matching the query with a total count.
func (s *CustomerService) List(ctx context.Context, query *repository.CustomerQuery) ([]models.Customer, int64, error) {
	return s.customerRepo.List(ctx, query)
}

// ListRoutes returns the distinct collection routes in use.
func (s *CustomerService) ListRoutes(ctx context.Context) ([]string, error) {
	return s.customerRepo.ListRoutes(ctx)
}
