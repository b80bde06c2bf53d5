package order

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nimra/cashandcarry/internal/models"
)

func testService(t *testing.T) *Service {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// A second pooled connection would see its own empty :memory: DB.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(&models.Order{}, &models.OrderItem{}))
	return &Service{Repo: &GormRepo{DB: gdb}}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func validRequest() CreateRequest {
	return CreateRequest{
		CustomerName:    "Mary Byrne",
		CustomerPhone:   "0851234567",
		ShippingAddress: "12 Dock Road",
		VatNumber:       "IE1234567A",
		Items: []CreateItem{
			{ProductID: uuid.New(), ProductName: "Napkins 500pk", UnitPrice: dec("10"), VatPercentage: 0, Quantity: 2},
			{ProductID: uuid.New(), ProductName: "Pizza Box (Large)", UnitPrice: dec("15"), VatPercentage: 23, Quantity: 1},
		},
	}
}

func TestTotal_VatInclusivePerLine(t *testing.T) {
	t.Parallel()

	// 10×2 + 15×1×1.23 = 38.45
	total := Total(validRequest().Items)
	assert.Equal(t, "38.45", total.StringFixed(2))
}

func TestTotal_ExactArithmetic(t *testing.T) {
	t.Parallel()

	items := []CreateItem{
		{ProductID: uuid.New(), ProductName: "Cup", UnitPrice: dec("0.10"), VatPercentage: 23, Quantity: 3},
	}
	// 0.30 × 1.23 = 0.369, kept exact until final rounding.
	assert.Equal(t, "0.369", Total(items).String())
	assert.Equal(t, "0.37", Total(items).Round(2).StringFixed(2))
}

func TestCreate_PersistsPendingOrderWithItems(t *testing.T) {
	t.Parallel()
	svc := testService(t)

	placed, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, placed.Status)
	assert.Equal(t, models.PaymentCashOnDelivery, placed.PaymentMethod)
	assert.Equal(t, "38.45", placed.TotalAmount.StringFixed(2))

	got, err := svc.Get(context.Background(), placed.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, placed.ID, got.Items[0].OrderID)
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()
	svc := testService(t)

	cases := map[string]func(*CreateRequest){
		"no items":      func(r *CreateRequest) { r.Items = nil },
		"nil product":   func(r *CreateRequest) { r.Items[0].ProductID = uuid.Nil },
		"empty name":    func(r *CreateRequest) { r.Items[0].ProductName = "" },
		"zero price":    func(r *CreateRequest) { r.Items[0].UnitPrice = decimal.Zero },
		"zero quantity": func(r *CreateRequest) { r.Items[0].Quantity = 0 },
	}
	for name, mutate := range cases {
		req := validRequest()
		mutate(&req)
		_, err := svc.Create(context.Background(), req)
		require.ErrorIs(t, err, ErrValidation, name)
	}
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()
	svc := testService(t)

	placed, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(context.Background(), placed.ID, models.OrderStatusShipped))
	got, err := svc.Get(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, got.Status)

	err = svc.UpdateStatus(context.Background(), placed.ID, "misplaced")
	require.ErrorIs(t, err, ErrValidation)

	err = svc.UpdateStatus(context.Background(), uuid.New(), models.OrderStatusShipped)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestList_FiltersByStatusAndCustomer(t *testing.T) {
	t.Parallel()
	svc := testService(t)

	custID := uuid.New()
	first, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	reqWithCustomer := validRequest()
	reqWithCustomer.CustomerID = &custID
	second, err := svc.Create(context.Background(), reqWithCustomer)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(context.Background(), first.ID, models.OrderStatusDelivered))

	total, items, err := svc.List(context.Background(), Filter{Status: models.OrderStatusDelivered}, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, first.ID, items[0].ID)

	total, items, err = svc.List(context.Background(), Filter{CustomerID: &custID}, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, second.ID, items[0].ID)

	_, _, err = svc.List(context.Background(), Filter{Status: "bogus"}, 20, 0)
	require.ErrorIs(t, err, ErrValidation)
}
