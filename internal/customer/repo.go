package customer

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nimra/cashandcarry/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Create(ctx context.Context, c *models.Customer) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var c models.Customer
	if err := r.DB.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) List(ctx context.Context, approvedOnly bool) ([]models.Customer, error) {
	q := r.DB.WithContext(ctx).Where("is_active = ?", true)
	if approvedOnly {
		q = q.Where("approval_status = ?", models.ApprovalApproved)
	}
	var customers []models.Customer
	if err := q.Order("name ASC").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *GormRepo) ListPending(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.DB.WithContext(ctx).
		Where("is_active = ? AND approval_status = ?", true, models.ApprovalPending).
		Order("created_at ASC").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *GormRepo) Search(ctx context.Context, query string) ([]models.Customer, error) {
	like := "%" + query + "%"
	var customers []models.Customer
	err := r.DB.WithContext(ctx).
		Where("is_active = ? AND approval_status = ?", true, models.ApprovalApproved).
		Where("name LIKE ? OR phone LIKE ? OR email LIKE ?", like, like, like).
		Order("name ASC").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *GormRepo) SetApproval(ctx context.Context, id uuid.UUID, status string) error {
	res := r.DB.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Update("approval_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) Update(ctx context.Context, id uuid.UUID, req CreateRequest) (*models.Customer, error) {
	var c models.Customer
	if err := r.DB.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}

	c.Name = req.Name
	c.Email = req.Email
	c.Phone = req.Phone
	c.ShippingAddress = req.ShippingAddress
	c.City = req.City
	c.Eircode = req.Eircode
	c.VatNumber = req.VatNumber
	c.Notes = req.Notes

	if err := r.DB.WithContext(ctx).Save(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
