package service

import (
	"context"
	"fmt"

	"github.com/orda-service/internal/events"
	"github.com/orda-service/internal/ident"
	"github.com/orda-service/internal/model"
	"github.com/orda-service/internal/redact"
	"github.com/orda-service/internal/repo"
	"go.uber.org/zap"
)

// PasswordHasher turns a plaintext password into its stored form.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// CustomerService never returns a stored customer directly; every result
// passes through redact.Customer.
type CustomerService struct {
	customers repo.Collection
	hasher    PasswordHasher
	newID     ident.Generator
	publisher events.Publisher
}

func NewCustomerService(customers repo.Collection, hasher PasswordHasher, newID ident.Generator, publisher events.Publisher) *CustomerService {
	if newID == nil {
		newID = ident.New
	}
	return &CustomerService{customers: customers, hasher: hasher, newID: newID, publisher: publisher}
}

type CreateCustomerRequest struct {
	Name     *string `json:"name" validate:"required"`
	Email    *string `json:"email" validate:"required"`
	Password *string `json:"password" validate:"required"`
	Address  *string `json:"address" validate:"required"`
}

type UpdateCustomerRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Address  *string `json:"address"`
}

func (s *CustomerService) hash(plain string) (string, error) {
	hashed, err := s.hasher.Hash(plain)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hashed, nil
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*model.CustomerView, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	hashed, err := s.hash(*req.Password)
	if err != nil {
		return nil, err
	}

	customer := model.Customer{
		CustomerID: s.newID(),
		Name:       *req.Name,
		Email:      *req.Email,
		Address:    *req.Address,
		Password:   hashed,
	}

	if err := s.customers.Insert(ctx, customer.CustomerID, customer); err != nil {
		logStoreError(ctx, "store: failed to create customer", err, zap.String("customer_id", customer.CustomerID))
		return nil, err
	}

	view := redact.Customer(customer)
	publish(ctx, s.publisher, CustomerCreatedChannel, view.CustomerID, view)
	return &view, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*model.CustomerView, error) {
	var customer model.Customer
	if err := s.customers.FindOne(ctx, id, &customer); err != nil {
		return nil, err
	}
	view := redact.Customer(customer)
	return &view, nil
}

func (s *CustomerService) GetCustomers(ctx context.Context) ([]model.CustomerView, error) {
	var customers []model.Customer
	if err := s.customers.FindAll(ctx, &customers); err != nil {
		return nil, err
	}
	return redact.Customers(customers), nil
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id string, req UpdateCustomerRequest) (*model.CustomerView, error) {
	fields := make(map[string]any)
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Password != nil {
		hashed, err := s.hash(*req.Password)
		if err != nil {
			return nil, err
		}
		fields["password"] = hashed
	}
	if len(fields) == 0 {
		return nil, errNoData
	}

	var customer model.Customer
	if err := s.customers.Set(ctx, id, fields, &customer); err != nil {
		logStoreError(ctx, "store: failed to update customer", err, zap.String("customer_id", id))
		return nil, err
	}

	view := redact.Customer(customer)
	publish(ctx, s.publisher, CustomerUpdatedChannel, id, view)
	return &view, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		logStoreError(ctx, "store: failed to delete customer", err, zap.String("customer_id", id))
		return err
	}

	publish(ctx, s.publisher, CustomerDeletedChannel, id, map[string]string{"customer_id": id})
	return nil
}
