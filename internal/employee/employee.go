// Package employee manages staff accounts for the back office.
// Passwords are stored as bcrypt hashes; authentication itself is
// handled upstream, this package only owns the records.
package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nimra/cashandcarry/internal/hash"
	"github.com/nimra/cashandcarry/internal/models"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

type CreateRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r CreateRequest) validate() error {
	switch {
	case r.Code == "":
		return fmt.Errorf("%w: employee code is required", ErrValidation)
	case r.Name == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case r.Email == "":
		return fmt.Errorf("%w: email is required", ErrValidation)
	case len(r.Password) < 8:
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	return nil
}

type Service struct {
	DB *gorm.DB
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Employee, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	hashed, err := hash.Password(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	e := models.Employee{
		Code:         req.Code,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		IsActive:     true,
	}
	if err := s.DB.WithContext(ctx).Create(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var e models.Employee
	err := s.DB.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: employee %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Service) List(ctx context.Context) ([]models.Employee, error) {
	var out []models.Employee
	err := s.DB.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

// VerifyPassword checks a login attempt against the stored hash.
func (s *Service) VerifyPassword(ctx context.Context, email, password string) (*models.Employee, bool) {
	var e models.Employee
	err := s.DB.WithContext(ctx).First(&e, "email = ? AND is_active = ?", email, true).Error
	if err != nil {
		return nil, false
	}
	if !hash.Verify(e.PasswordHash, password) {
		return nil, false
	}
	return &e, true
}

// Deactivate disables the account without deleting it, so orders that
// reference the employee keep a valid link.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Model(&models.Employee{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: employee %s", ErrNotFound, id)
	}
	return nil
}
