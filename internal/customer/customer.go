// Package customer manages the back-office customer book. Customers
// created by staff during checkout start in pending approval and stay
// out of selection lists until an administrator approves them.
package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nimra/cashandcarry/internal/models"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

type CreateRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ShippingAddress string `json:"shipping_address"`
	City            string `json:"city"`
	Eircode         string `json:"eircode"`
	VatNumber       string `json:"vat_number"`
	Notes           string `json:"notes"`
}

func (r CreateRequest) validate() error {
	switch {
	case r.Name == "":
		return fmt.Errorf("%w: name required", ErrValidation)
	case r.Phone == "":
		return fmt.Errorf("%w: phone required", ErrValidation)
	case r.ShippingAddress == "":
		return fmt.Errorf("%w: shipping address required", ErrValidation)
	case r.VatNumber == "":
		return fmt.Errorf("%w: vat number required", ErrValidation)
	}
	return nil
}

type Service struct {
	Repo *GormRepo
}

// Create stores a customer. Admin-created customers are approved
// immediately; staff-created ones wait for approval.
func (s *Service) Create(ctx context.Context, req CreateRequest, approved bool) (*models.Customer, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	status := models.ApprovalPending
	if approved {
		status = models.ApprovalApproved
	}

	c := &models.Customer{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		ShippingAddress: req.ShippingAddress,
		City:            req.City,
		Eircode:         req.Eircode,
		VatNumber:       req.VatNumber,
		Notes:           req.Notes,
		IsActive:        true,
		ApprovalStatus:  status,
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	c, err := s.Repo.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	return c, err
}

// ListApproved returns active, approved customers — the set available
// for selection in the staff-assisted checkout flow.
func (s *Service) ListApproved(ctx context.Context) ([]models.Customer, error) {
	return s.Repo.List(ctx, true)
}

// ListPending returns customers awaiting administrator approval.
func (s *Service) ListPending(ctx context.Context) ([]models.Customer, error) {
	return s.Repo.ListPending(ctx)
}

// Search matches approved customers by substring over name, phone and
// email.
func (s *Service) Search(ctx context.Context, query string) ([]models.Customer, error) {
	if query == "" {
		return s.ListApproved(ctx)
	}
	return s.Repo.Search(ctx, query)
}

func (s *Service) Approve(ctx context.Context, id uuid.UUID) error {
	err := s.Repo.SetApproval(ctx, id, models.ApprovalApproved)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	return err
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req CreateRequest) (*models.Customer, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	c, err := s.Repo.Update(ctx, id, req)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	return c, err
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	err := s.Repo.Deactivate(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	return err
}
