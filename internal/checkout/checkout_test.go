package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimra/cashandcarry/internal/cart"
	"github.com/nimra/cashandcarry/internal/customer"
	"github.com/nimra/cashandcarry/internal/models"
	"github.com/nimra/cashandcarry/internal/notify"
	"github.com/nimra/cashandcarry/internal/order"
	"github.com/nimra/cashandcarry/internal/profile"
)

type fakeOrders struct {
	mu      sync.Mutex
	created []order.CreateRequest
	err     error
}

func (f *fakeOrders) Create(_ context.Context, req order.CreateRequest) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, models.OrderItem{
			ProductID:     it.ProductID,
			ProductName:   it.ProductName,
			ProductPrice:  it.UnitPrice,
			VatPercentage: it.VatPercentage,
			Quantity:      it.Quantity,
		})
	}
	return &models.Order{
		ID:           uuid.New(),
		CustomerName: req.CustomerName,
		Status:       models.OrderStatusPending,
		TotalAmount:  order.Total(req.Items).Round(2),
		CustomerID:   req.CustomerID,
		Items:        items,
	}, nil
}

type fakeCustomers struct {
	mu      sync.Mutex
	created []customer.CreateRequest
	err     error
}

func (f *fakeCustomers) Create(_ context.Context, req customer.CreateRequest, approved bool) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)
	status := models.ApprovalPending
	if approved {
		status = models.ApprovalApproved
	}
	return &models.Customer{ID: uuid.New(), Name: req.Name, ApprovalStatus: status}, nil
}

func (f *fakeCustomers) Get(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Customer{ID: id, ApprovalStatus: models.ApprovalApproved}, nil
}

type fakeProfiles struct {
	mu    sync.Mutex
	saved []profile.Details
	err   error
}

func (f *fakeProfiles) Save(_ context.Context, _ uuid.UUID, d profile.Details) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, d)
	return nil
}

func (f *fakeProfiles) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type fakeNotifier struct {
	mu            sync.Mutex
	confirmations []notify.OrderNotification
	alerts        []notify.OrderNotification
	err           error
}

func (f *fakeNotifier) SendOrderConfirmation(_ context.Context, n notify.OrderNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.confirmations = append(f.confirmations, n)
	return nil
}

func (f *fakeNotifier) SendOrderAlert(_ context.Context, n notify.OrderNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.alerts = append(f.alerts, n)
	return nil
}

func (f *fakeNotifier) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.confirmations), len(f.alerts)
}

func newService(orders *fakeOrders, customers *fakeCustomers, profiles *fakeProfiles, notifier *fakeNotifier) *Service {
	return &Service{
		Orders:    orders,
		Customers: customers,
		Profiles:  profiles,
		Notifier:  notifier,
		Log:       slog.Default(),
	}
}

func validForm() FormData {
	return FormData{
		CustomerName:    "Mary Byrne",
		CustomerEmail:   "mary@example.ie",
		CustomerPhone:   "0851234567",
		ShippingAddress: "12 Dock Road",
		City:            "Limerick",
		VatNumber:       "IE1234567A",
	}
}

func product(name string, price float64, vat float64) models.Product {
	return models.Product{
		ID:            uuid.New(),
		Name:          name,
		Slug:          name,
		Price:         decimal.NewFromFloat(price),
		VatPercentage: vat,
	}
}

func cartWith(t *testing.T, lines ...func(c *cart.Cart)) *cart.Cart {
	t.Helper()
	c := cart.New(&cart.MemoryStorage{})
	for _, add := range lines {
		add(c)
	}
	return c
}

func TestBuildOrder_EmptyCartRejected(t *testing.T) {
	t.Parallel()

	_, err := BuildOrder(nil, validForm())
	require.ErrorIs(t, err, ErrValidation)
}

func TestBuildOrder_MissingFormFieldsRejected(t *testing.T) {
	t.Parallel()

	lines := []cart.Line{{Product: product("boxes", 10, 23), Quantity: 1}}

	for name, mutate := range map[string]func(*FormData){
		"name":    func(f *FormData) { f.CustomerName = "" },
		"phone":   func(f *FormData) { f.CustomerPhone = "" },
		"address": func(f *FormData) { f.ShippingAddress = "" },
		"vat":     func(f *FormData) { f.VatNumber = "" },
	} {
		form := validForm()
		mutate(&form)
		_, err := BuildOrder(lines, form)
		require.ErrorIs(t, err, ErrValidation, "missing %s must be rejected", name)
	}
}

func TestBuildOrder_CorruptLineRejected(t *testing.T) {
	t.Parallel()

	good := product("boxes", 10, 23)

	noID := good
	noID.ID = uuid.Nil

	noName := product("x", 10, 23)
	noName.Name = ""

	freePrice := product("free", 0, 23)

	cases := map[string]cart.Line{
		"missing product id":    {Product: noID, Quantity: 1},
		"missing product name":  {Product: noName, Quantity: 1},
		"non-positive price":    {Product: freePrice, Quantity: 1},
		"non-positive quantity": {Product: good, Quantity: 0},
	}
	for name, line := range cases {
		_, err := BuildOrder([]cart.Line{line}, validForm())
		require.ErrorIs(t, err, ErrValidation, name)
	}
}

func TestBuildOrder_SnapshotsVariationPriceAndName(t *testing.T) {
	t.Parallel()

	p := product("pizza box", 9.50, 23)
	large := models.ProductVariation{
		ID: uuid.New(), ProductID: p.ID, AttributeType: "Size", Name: "Large",
		Price: decimal.NewFromFloat(15.00),
	}

	req, err := BuildOrder([]cart.Line{{Product: p, Variation: &large, Quantity: 2}}, validForm())
	require.NoError(t, err)
	require.Len(t, req.Items, 1)
	assert.Equal(t, "pizza box (Large)", req.Items[0].ProductName)
	assert.True(t, req.Items[0].UnitPrice.Equal(decimal.NewFromFloat(15.00)))
	assert.Equal(t, float64(23), req.Items[0].VatPercentage)
}

func TestPlaceOrder_RecomputedTotalIgnoresClientFigures(t *testing.T) {
	t.Parallel()

	orders := &fakeOrders{}
	svc := newService(orders, &fakeCustomers{}, &fakeProfiles{}, &fakeNotifier{})

	c := cartWith(t,
		func(c *cart.Cart) { c.Add(product("a", 10, 0), 2, nil) },
		func(c *cart.Cart) {
			b := product("b", 12, 23)
			large := models.ProductVariation{ID: uuid.New(), ProductID: b.ID, Name: "Large", Price: decimal.NewFromFloat(15)}
			c.Add(b, 1, &large)
		},
	)

	placed, err := svc.PlaceOrder(context.Background(), c, Request{Form: validForm()})
	require.NoError(t, err)

	// 10×2 + 15×1.23 = 38.45, derived from the snapshots alone.
	assert.Equal(t, "38.45", placed.TotalAmount.StringFixed(2))
	assert.Equal(t, models.OrderStatusPending, placed.Status)
}

func TestPlaceOrder_ClearsCartOnlyOnSuccess(t *testing.T) {
	t.Parallel()

	orders := &fakeOrders{err: errors.New("store rejected the write")}
	svc := newService(orders, &fakeCustomers{}, &fakeProfiles{}, &fakeNotifier{})

	c := cartWith(t, func(c *cart.Cart) { c.Add(product("a", 10, 0), 2, nil) })

	_, err := svc.PlaceOrder(context.Background(), c, Request{Form: validForm()})
	require.Error(t, err)
	assert.Equal(t, 1, c.UniqueLineCount(), "cart must survive a failed order write")

	orders.err = nil
	_, err = svc.PlaceOrder(context.Background(), c, Request{Form: validForm()})
	require.NoError(t, err)
	assert.Equal(t, 0, c.UniqueLineCount(), "cart is emptied after a placed order")
}

func TestPlaceOrder_NewCustomerCreatedPendingAndLinked(t *testing.T) {
	t.Parallel()

	orders := &fakeOrders{}
	customers := &fakeCustomers{}
	svc := newService(orders, customers, &fakeProfiles{}, &fakeNotifier{})

	c := cartWith(t, func(c *cart.Cart) { c.Add(product("a", 10, 0), 1, nil) })

	ref := NewCustomer{Fields: customer.CreateRequest{
		Name: "New Café Ltd", Phone: "016789", ShippingAddress: "1 Quay St", VatNumber: "IE999",
	}}
	placed, err := svc.PlaceOrder(context.Background(), c, Request{Form: validForm(), Customer: ref})
	require.NoError(t, err)

	require.Len(t, customers.created, 1)
	require.NotNil(t, placed.CustomerID)
	require.Len(t, orders.created, 1)
	assert.Equal(t, placed.CustomerID, orders.created[0].CustomerID)
}

func TestPlaceOrder_NotificationsFireAndTheirFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	svc := newService(&fakeOrders{}, &fakeCustomers{}, &fakeProfiles{}, notifier)

	c := cartWith(t, func(c *cart.Cart) { c.Add(product("a", 10, 0), 1, nil) })
	_, err := svc.PlaceOrder(context.Background(), c, Request{Form: validForm()})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		confirmations, alerts := notifier.counts()
		return confirmations == 1 && alerts == 1
	}, time.Second, 10*time.Millisecond)

	// A failing notifier must not fail checkout.
	svc = newService(&fakeOrders{}, &fakeCustomers{}, &fakeProfiles{}, &fakeNotifier{err: errors.New("broker down")})
	c = cartWith(t, func(c *cart.Cart) { c.Add(product("a", 10, 0), 1, nil) })
	_, err = svc.PlaceOrder(context.Background(), c, Request{Form: validForm()})
	require.NoError(t, err)
}

func TestPlaceOrder_ProfileSaveIsBestEffort(t *testing.T) {
	t.Parallel()

	profiles := &fakeProfiles{}
	svc := newService(&fakeOrders{}, &fakeCustomers{}, profiles, &fakeNotifier{})

	userID := uuid.New()
	c := cartWith(t, func(c *cart.Cart) { c.Add(product("a", 10, 0), 1, nil) })
	_, err := svc.PlaceOrder(context.Background(), c, Request{Form: validForm(), UserID: &userID, SaveDetails: true})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return profiles.count() == 1 }, time.Second, 10*time.Millisecond)

	// Failure path: checkout still succeeds.
	svc = newService(&fakeOrders{}, &fakeCustomers{}, &fakeProfiles{err: errors.New("db down")}, &fakeNotifier{})
	c = cartWith(t, func(c *cart.Cart) { c.Add(product("a", 10, 0), 1, nil) })
	_, err = svc.PlaceOrder(context.Background(), c, Request{Form: validForm(), UserID: &userID, SaveDetails: true})
	require.NoError(t, err)
}
