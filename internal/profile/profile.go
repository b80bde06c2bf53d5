// Package profile stores the "save these details for next time"
// shipping profile, keyed by the authenticated user.
package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nimra/cashandcarry/internal/models"
)

type Details struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ShippingAddress string `json:"shipping_address"`
	City            string `json:"city"`
	Eircode         string `json:"eircode"`
	VatNumber       string `json:"vat_number"`
}

type GormRepo struct {
	DB *gorm.DB
}

// Get returns the stored profile, or nil when the user has none.
func (r *GormRepo) Get(ctx context.Context, userID uuid.UUID) (*models.UserDetails, error) {
	var d models.UserDetails
	err := r.DB.WithContext(ctx).First(&d, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Save upserts the user's profile.
func (r *GormRepo) Save(ctx context.Context, userID uuid.UUID, details Details) error {
	var existing models.UserDetails
	err := r.DB.WithContext(ctx).First(&existing, "user_id = ?", userID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	existing.UserID = userID
	existing.FullName = details.FullName
	existing.Email = details.Email
	existing.Phone = details.Phone
	existing.ShippingAddress = details.ShippingAddress
	existing.City = details.City
	existing.Eircode = details.Eircode
	existing.VatNumber = details.VatNumber

	return r.DB.WithContext(ctx).Save(&existing).Error
}
