package services

import (
	"context"
	"fmt"
	"strings"

	"todostock/internal/common"
	"todostock/internal/models"
	"todostock/internal/repositories"
	"todostock/pkg/retry"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	ListCustomers(ctx context.Context) ([]*models.Customer, error)
}

type customerService struct {
	customerRepo repositories.CustomerRepository
	readRetries  int
}

func NewCustomerService(customerRepo repositories.CustomerRepository, readRetries int) CustomerService {
	return &customerService{customerRepo: customerRepo, readRetries: readRetries}
}

func (s *customerService) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	customer.Nombre = strings.TrimSpace(customer.Nombre)
	customer.Rut = strings.TrimSpace(customer.Rut)
	customer.Direccion = strings.TrimSpace(customer.Direccion)
	customer.Telefono = strings.TrimSpace(customer.Telefono)

	if err := common.ValidateRequiredString(customer.Nombre, "nombre"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(customer.Rut, "rut"); err != nil {
		return err
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	var customers []*models.Customer
	err := retry.Do(ctx, s.readRetries, func(ctx context.Context) error {
		var err error
		customers, err = s.customerRepo.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}
