package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"shopzeo-backend/models"
	"shopzeo-backend/repository"
	"shopzeo-backend/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ---- in-memory product repository ----

type fakeProductRepo struct {
	byCode     map[string]*models.Product
	slugs      map[string]bool
	createErrs map[string]error // keyed by product code
	created    int
	updated    int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		byCode:     make(map[string]*models.Product),
		slugs:      make(map[string]bool),
		createErrs: make(map[string]error),
	}
}

func (f *fakeProductRepo) Create(_ context.Context, p *models.Product) error {
	if err := f.createErrs[p.Code]; err != nil {
		return err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.byCode[p.Code] = p
	f.slugs[p.Slug] = true
	f.created++
	return nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *models.Product) error {
	f.byCode[p.Code] = p
	f.updated++
	return nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	for _, p := range f.byCode {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) FindByCode(_ context.Context, code string) (*models.Product, error) {
	if p, ok := f.byCode[code]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	return f.slugs[slug], nil
}

func (f *fakeProductRepo) FindAll(_ context.Context, _ repository.ProductListParams) ([]models.Product, int64, error) {
	return nil, 0, nil
}

func (f *fakeProductRepo) SoftDelete(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeProductRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	p, err := f.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p.Quantity < qty {
		return repository.ErrInsufficientStock
	}
	p.Quantity -= qty
	return nil
}

func (f *fakeProductRepo) IncrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	p, err := f.FindByID(ctx, id)
	if err != nil {
		return err
	}
	p.Quantity += qty
	return nil
}

func (f *fakeProductRepo) CountByStore(_ context.Context, _ uuid.UUID) (int64, error) { return 0, nil }

// ---- in-memory category / store repositories ----

type fakeCategoryRepo struct {
	ids map[uuid.UUID]bool
}

func (f *fakeCategoryRepo) Create(_ context.Context, _ *models.Category) error { return nil }
func (f *fakeCategoryRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.Category, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeCategoryRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	return f.ids[id], nil
}
func (f *fakeCategoryRepo) FindAll(_ context.Context) ([]models.Category, error) { return nil, nil }
func (f *fakeCategoryRepo) SoftDelete(_ context.Context, _ uuid.UUID) error      { return nil }

type fakeStoreRepo struct {
	stores    map[uuid.UUID]*models.Store
	slugs     map[string]bool
	createErr error
}

func (f *fakeStoreRepo) Create(_ context.Context, s *models.Store) error {
	if f.createErr != nil {
		return f.createErr
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	f.stores[s.ID] = s
	return nil
}
func (f *fakeStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Store, error) {
	if s, ok := f.stores[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeStoreRepo) FindByOwner(_ context.Context, _ uuid.UUID) (*models.Store, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeStoreRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	return f.slugs[slug], nil
}
func (f *fakeStoreRepo) FindAll(_ context.Context, _, _ int) ([]models.Store, int64, error) {
	return nil, 0, nil
}
func (f *fakeStoreRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.StoreStatus) error {
	s, ok := f.stores[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	return nil
}

func (f *fakeStoreRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.stores, id)
	return nil
}

// ---- fixtures ----

type importFixture struct {
	svc        *services.ImportService
	products   *fakeProductRepo
	categoryID uuid.UUID
	storeID    uuid.UUID
}

func newImportFixture(t *testing.T) *importFixture {
	t.Helper()

	categoryID := uuid.New()
	storeID := uuid.New()

	products := newFakeProductRepo()
	categories := &fakeCategoryRepo{ids: map[uuid.UUID]bool{categoryID: true}}
	stores := &fakeStoreRepo{stores: map[uuid.UUID]*models.Store{
		storeID: {ID: storeID, Status: models.StoreStatusApproved},
	}}

	return &importFixture{
		svc:        services.NewImportService(products, categories, stores, zap.NewNop()),
		products:   products,
		categoryID: categoryID,
		storeID:    storeID,
	}
}

func (fx *importFixture) row(code, name, sku, price string) string {
	return fmt.Sprintf("%s,%s,%s,%s,%s,%s", code, name, sku, price, fx.categoryID, fx.storeID)
}

const csvHeader = "product code,name,sku id,selling price,category id,store id"

// ---- tests ----

func TestImportProducts_InsertHappyPath(t *testing.T) {
	fx := newImportFixture(t)

	csv := strings.Join([]string{
		csvHeader,
		fx.row("P-1", "Blue Shirt", "SKU-1", "19.99"),
		fx.row("P-2", "Red Shirt", "SKU-2", "24.50"),
	}, "\n")

	result, err := fx.svc.ImportProducts(context.Background(), strings.NewReader(csv), models.ImportModeInsert)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Results.Total)
	assert.Equal(t, 2, result.Results.Success)
	assert.Equal(t, 0, result.Results.Failed)
	assert.Empty(t, result.FailedRows)

	p, perr := fx.products.FindByCode(context.Background(), "P-1")
	require.NoError(t, perr)
	assert.Equal(t, "blue-shirt", p.Slug)
	assert.True(t, p.IsActive)
	assert.Equal(t, 19.99, p.SellingPrice)
}

func TestImportProducts_MissingNameFailsOnlyThatRow(t *testing.T) {
	fx := newImportFixture(t)

	csv := strings.Join([]string{
		csvHeader,
		fx.row("P-1", "Blue Shirt", "SKU-1", "10"),
		fx.row("P-2", "", "SKU-2", "12"),
		fx.row("P-3", "Green Shirt", "SKU-3", "14"),
	}, "\n")

	result, err := fx.svc.ImportProducts(context.Background(), strings.NewReader(csv), models.ImportModeInsert)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Results.Total)
	assert.Equal(t, 2, result.Results.Success)
	assert.Equal(t, 1, result.Results.Failed)

	require.Len(t, result.FailedRows, 1)
	assert.Equal(t, 2, result.FailedRows[0].Row)
	assert.Equal(t, "MissingField(name)", result.FailedRows[0].Reason)
}

func TestImportProducts_NegativePriceRejected(t *testing.T) {
	fx := newImportFixture(t)

	csv := strings.Join([]string{
		csvHeader,
		fx.row("P-1", "Shirt", "SKU-1", "-5"),
	}, "\n")

	result, err := fx.svc.ImportProducts(context.Background(), strings.NewReader(csv), models.ImportModeInsert)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Results.Failed)
	require.Len(t, result.FailedRows, 1)
	assert.Equal(t, "ValidationError(selling_price, must be non-negative)", result.FailedRows[0].Reason)
	assert.Equal(t, 0, fx.products.created)
}

func TestImportProducts_DuplicateCodeInInsertBatch(t *testing.T) {
	fx := newImportFixture(t)

	csv := strings.Join([]string{
		csvHeader,
		fx.row("P-1", "First", "SKU-1", "10"),
		fx.row("P-1", "Second", "SKU-2", "20"),
	}, "\n")

	result, err := fx.svc.ImportProducts(context.Background(), strings.NewReader(csv), models.ImportModeInsert)
	require.NoError(t, err)

	// First occurrence wins, second fails.
	assert.Equal(t, 1, result.Results.Success)
	assert.Equal(t, 1, result.Results.Failed)
	require.Len(t, result.FailedRows, 1)
	assert.Equal(t, 2, result.FailedRows[0].Row)
	assert.Equal(t, models.ReasonDuplicateProductCode, result.FailedRows[0].Reason)

	p, perr := fx.products.FindByCode(context.Background(), "P-1")
	require.NoError(t, perr)
	assert.Equal(t, "First", p.Name)
}

func TestImportProducts_UpsertUpdatesExistingAndKeepsSlug(t *testing.T) {
	fx := newImportFixture(t)

	existing := &models.Product{
		ID:           uuid.New(),
		Code:         "P-1",
		Name:         "Old Name",
		Slug:         "old-name",
		SKU:          "SKU-OLD",
		SellingPrice: 5,
		CategoryID:   fx.categoryID,
		StoreID:      fx.storeID,
	}
	require.NoError(t, fx.products.Create(context.Background(), existing))
	fx.products.created = 0

	csv := strings.Join([]string{
		csvHeader,
		fx.row("P-1", "New Name", "SKU-NEW", "9.99"),
	}, "\n")

	result, err := fx.svc.ImportProducts(context.Background(), strings.NewReader(csv), models.ImportModeUpsert)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Results.Success)
	assert.Equal(t, 0, fx.products.created)
	assert.Equal(t, 1, fx.products.updated)

	p, perr := fx.products.FindByCode(context.Background(), "P-1")
	require.NoError(t, perr)
	assert.Equal(t, "New Name", p.Name)
	assert.Equal(t, "SKU-NEW", p.SKU)
	assert.Equal(t, 9.99, p.SellingPrice)
	assert.Equal(t, "old-name", p.Slug)
}

func TestImportProducts_HeaderNormalization(t *testing.T) {
	fx := newImportFixture(t)

	header := " Product_Code , NAME ,Sku ID, SELLING_PRICE ,Category Id,STORE_ID"
	csv := strings.Join([]string{
		header,
		fx.row("P-1", "Shirt", "SKU-1", "10"),
	}, "\n")

	result, err := fx.svc.ImportProducts(context.Background(), strings.NewReader(csv), models.ImportModeInsert)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Results.Success)
}

func TestImportProducts_EmptyInputIsFatal(t *testing.T) {
	fx := newImportFixture(t)

	_, err := fx.svc.ImportProducts(context.Background(), strings.NewReader(""), models.ImportModeInsert)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrFatalParse))
}

func TestImportProducts_UnknownCategoryRejected(t *testing.T) {
	fx := newImportFixture(t)

	csv := strings.Join([]string{
		csvHeader,
		fmt.Sprintf("P-1,Shirt,SKU-1,10,%s,%s", uuid.New(), fx.storeID),
	}, "\n")

	result, err := fx.svc.ImportProducts(context.Background(), strings.NewReader(csv), models.ImportModeInsert)
	require.NoError(t, err)

	require.Len(t, result.FailedRows, 1)
	assert.Equal(t, "ValidationError(category_id, not found)", result.FailedRows[0].Reason)
}

func TestImportProducts_PersistenceErrorIsolatedToRow(t *testing.T) {
	fx := newImportFixture(t)
	fx.products.createErrs["P-2"] = errors.New("disk full")

	csv := strings.Join([]string{
		csvHeader,
		fx.row("P-1", "First", "SKU-1", "10"),
		fx.row("P-2", "Second", "SKU-2", "20"),
		fx.row("P-3", "Third", "SKU-3", "30"),
	}, "\n")

	result, err := fx.svc.ImportProducts(context.Background(), strings.NewReader(csv), models.ImportModeInsert)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Results.Success)
	assert.Equal(t, 1, result.Results.Failed)
	require.Len(t, result.FailedRows, 1)
	assert.Equal(t, 2, result.FailedRows[0].Row)
	assert.Equal(t, "PersistenceError(disk full)", result.FailedRows[0].Reason)
}

func TestValidateImport_ReportsWithoutPersisting(t *testing.T) {
	fx := newImportFixture(t)

	csv := strings.Join([]string{
		csvHeader,
		fx.row("P-1", "First", "SKU-1", "10"),
		fx.row("P-1", "Again", "SKU-2", "20"),
		fx.row("P-2", "", "SKU-3", "30"),
	}, "\n")

	validation, err := fx.svc.ValidateImport(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 3, validation.TotalRows)
	assert.Equal(t, 2, validation.ValidRows)
	assert.Equal(t, 1, validation.InvalidRows)
	assert.Equal(t, []string{"P-1"}, validation.DuplicateCodes)
	assert.Equal(t, 0, fx.products.created)
}
