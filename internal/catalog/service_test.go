package catalog

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nimra/cashandcarry/internal/models"
)

type recordingIndexer struct {
	indexed []uuid.UUID
	deleted []string
	err     error
}

func (r *recordingIndexer) IndexProduct(_ context.Context, p models.Product) error {
	if r.err != nil {
		return r.err
	}
	r.indexed = append(r.indexed, p.ID)
	return nil
}

func (r *recordingIndexer) DeleteProduct(_ context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	r.deleted = append(r.deleted, id)
	return nil
}

func testService(t *testing.T, idx Indexer) *Service {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// A second pooled connection would see its own empty :memory: DB.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(&models.Category{}, &models.Product{}, &models.ProductVariation{}))
	return &Service{Repo: &GormRepo{DB: gdb}, Index: idx, Log: slog.Default()}
}

func input(name string) ProductInput {
	return ProductInput{
		Name:          name,
		Price:         decimal.NewFromInt(10),
		VatPercentage: 23,
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pizza-box-12-inch", Slugify("Pizza Box 12 Inch"))
	assert.Equal(t, "napkins-500pk", Slugify("  Napkins / 500pk!  "))
	assert.Equal(t, "", Slugify("///"))
}

func TestCreateProduct_SlugAndVariations(t *testing.T) {
	t.Parallel()
	svc := testService(t, nil)

	in := input("Pizza Box")
	in.Variations = []VariationInput{
		{AttributeType: "Size", Name: "Regular", Price: decimal.NewFromInt(8), IsDefault: true},
		{AttributeType: "Size", Name: "Large", Price: decimal.NewFromInt(12)},
	}
	created, err := svc.CreateProduct(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "pizza-box", created.Slug)

	got, err := svc.ProductBySlug(context.Background(), "pizza-box")
	require.NoError(t, err)
	require.Len(t, got.Variations, 2)
	for _, v := range got.Variations {
		assert.Equal(t, created.ID, v.ProductID)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	t.Parallel()
	svc := testService(t, nil)

	cases := map[string]func(*ProductInput){
		"empty name":     func(in *ProductInput) { in.Name = "" },
		"zero price":     func(in *ProductInput) { in.Price = decimal.Zero },
		"negative vat":   func(in *ProductInput) { in.VatPercentage = -1 },
		"unnamed option": func(in *ProductInput) { in.Variations = []VariationInput{{Price: decimal.NewFromInt(1)}} },
		"two defaults": func(in *ProductInput) {
			in.Variations = []VariationInput{
				{Name: "A", Price: decimal.NewFromInt(1), IsDefault: true},
				{Name: "B", Price: decimal.NewFromInt(2), IsDefault: true},
			}
		},
	}
	for name, mutate := range cases {
		in := input("Pizza Box")
		mutate(&in)
		_, err := svc.CreateProduct(context.Background(), in)
		require.ErrorIs(t, err, ErrValidation, name)
	}
}

func TestUpdateProduct_ReplacesVariationSet(t *testing.T) {
	t.Parallel()
	svc := testService(t, nil)

	in := input("Cups")
	in.Variations = []VariationInput{
		{Name: "Small", Price: decimal.NewFromInt(4)},
		{Name: "Medium", Price: decimal.NewFromInt(5)},
	}
	created, err := svc.CreateProduct(context.Background(), in)
	require.NoError(t, err)

	in.Variations = []VariationInput{{Name: "Large", Price: decimal.NewFromInt(6), IsDefault: true}}
	updated, err := svc.UpdateProduct(context.Background(), created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	got, err := svc.Product(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, got.Variations, 1)
	assert.Equal(t, "Large", got.Variations[0].Name)
	assert.True(t, got.Variations[0].IsDefault)
}

func TestListProducts_Filters(t *testing.T) {
	t.Parallel()
	svc := testService(t, nil)

	cat, err := svc.CreateCategory(context.Background(), "Packaging", "")
	require.NoError(t, err)

	boxed := input("Pizza Box")
	boxed.CategoryID = &cat.ID
	boxed.IsFeatured = true
	_, err = svc.CreateProduct(context.Background(), boxed)
	require.NoError(t, err)

	_, err = svc.CreateProduct(context.Background(), input("Napkins"))
	require.NoError(t, err)

	items, total, err := svc.ListProducts(context.Background(), Filter{Query: "Pizza"}, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Pizza Box", items[0].Name)

	items, total, err = svc.ListProducts(context.Background(), Filter{CategorySlug: "packaging"}, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)

	items, total, err = svc.ListProducts(context.Background(), Filter{FeaturedOnly: true}, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = svc.ListProducts(context.Background(), Filter{}, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestDeleteProduct_RemovesVariations(t *testing.T) {
	t.Parallel()

	idx := &recordingIndexer{}
	svc := testService(t, idx)

	in := input("Cups")
	in.Variations = []VariationInput{{Name: "Small", Price: decimal.NewFromInt(4)}}
	created, err := svc.CreateProduct(context.Background(), in)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(context.Background(), created.ID))
	assert.Equal(t, []string{created.ID.String()}, idx.deleted)

	_, err = svc.Product(context.Background(), created.ID)
	require.ErrorIs(t, err, ErrNotFound)

	var orphans int64
	require.NoError(t, svc.Repo.DB.Model(&models.ProductVariation{}).
		Where("product_id = ?", created.ID).Count(&orphans).Error)
	assert.EqualValues(t, 0, orphans)

	err = svc.DeleteProduct(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCategory_DetachesProducts(t *testing.T) {
	t.Parallel()
	svc := testService(t, nil)

	cat, err := svc.CreateCategory(context.Background(), "Cleaning", "")
	require.NoError(t, err)

	in := input("Bleach 5L")
	in.CategoryID = &cat.ID
	created, err := svc.CreateProduct(context.Background(), in)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(context.Background(), cat.ID))

	got, err := svc.Product(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
}

func TestIndexingIsBestEffort(t *testing.T) {
	t.Parallel()

	idx := &recordingIndexer{}
	svc := testService(t, idx)

	created, err := svc.CreateProduct(context.Background(), input("Foil Rolls"))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{created.ID}, idx.indexed)

	// A broken index never fails the catalog write.
	svc.Index = &recordingIndexer{err: errors.New("cluster red")}
	_, err = svc.CreateProduct(context.Background(), input("Cling Film"))
	require.NoError(t, err)
}
