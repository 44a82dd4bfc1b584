package services_test

import (
	"context"
	"net/http"
	"testing"

	"shopzeo-backend/models"
	"shopzeo-backend/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ---- in-memory user repository ----

type fakeUserRepo struct {
	byEmail map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	for email, u := range f.byEmail {
		if u.ID == id {
			delete(f.byEmail, email)
			return nil
		}
	}
	return nil
}

func registerRequest() *models.RegisterStoreRequest {
	return &models.RegisterStoreRequest{
		StoreName: "Luna Living",
		Email:     "owner@luna.example",
		Password:  "s3cretpass",
		OwnerName: "Priya",
	}
}

func TestRegisterStore_CreatesAccountStoreAndWallet(t *testing.T) {
	users := newFakeUserRepo()
	stores := &fakeStoreRepo{stores: make(map[uuid.UUID]*models.Store)}
	wallets := newFakeWalletRepo()
	svc := services.NewStoreService(stores, users, wallets, zap.NewNop())

	store, svcErr := svc.RegisterStore(context.Background(), registerRequest())
	require.Nil(t, svcErr)

	assert.Equal(t, "luna-living", store.Slug)
	assert.Equal(t, models.StoreStatusPending, store.Status)
	assert.Equal(t, 0.10, store.CommissionRate)

	owner := users.byEmail["owner@luna.example"]
	require.NotNil(t, owner)
	assert.Equal(t, models.RoleVendor, owner.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte("s3cretpass")))
	assert.NotEqual(t, "s3cretpass", owner.PasswordHash)

	wallet, err := wallets.FindByStoreID(context.Background(), store.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, wallet.Balance)
}

func TestRegisterStore_DuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	_ = users.Create(context.Background(), &models.User{Email: "owner@luna.example"})
	stores := &fakeStoreRepo{stores: make(map[uuid.UUID]*models.Store)}
	svc := services.NewStoreService(stores, users, newFakeWalletRepo(), zap.NewNop())

	store, svcErr := svc.RegisterStore(context.Background(), registerRequest())
	require.NotNil(t, svcErr)
	assert.Nil(t, store)
	assert.Equal(t, http.StatusConflict, svcErr.StatusCode)
}

func TestRegisterStore_SlugTaken(t *testing.T) {
	stores := &fakeStoreRepo{
		stores: make(map[uuid.UUID]*models.Store),
		slugs:  map[string]bool{"luna-living": true},
	}
	svc := services.NewStoreService(stores, newFakeUserRepo(), newFakeWalletRepo(), zap.NewNop())

	_, svcErr := svc.RegisterStore(context.Background(), registerRequest())
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusConflict, svcErr.StatusCode)
}

func TestRegisterStore_StoreCreateFailureFreesEmail(t *testing.T) {
	users := newFakeUserRepo()
	stores := &fakeStoreRepo{
		stores:    make(map[uuid.UUID]*models.Store),
		createErr: gorm.ErrInvalidDB,
	}
	svc := services.NewStoreService(stores, users, newFakeWalletRepo(), zap.NewNop())

	_, svcErr := svc.RegisterStore(context.Background(), registerRequest())
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusInternalServerError, svcErr.StatusCode)

	// The vendor account was rolled back, so the same email registers fine
	// once the store insert works again.
	assert.NotContains(t, users.byEmail, "owner@luna.example")

	stores.createErr = nil
	store, svcErr := svc.RegisterStore(context.Background(), registerRequest())
	require.Nil(t, svcErr)
	assert.Equal(t, "luna-living", store.Slug)
}

func TestUpdateStoreStatus_RejectsUnknownStatus(t *testing.T) {
	stores := &fakeStoreRepo{stores: make(map[uuid.UUID]*models.Store)}
	svc := services.NewStoreService(stores, newFakeUserRepo(), newFakeWalletRepo(), zap.NewNop())

	_, svcErr := svc.UpdateStatus(context.Background(), uuid.New(), models.StoreStatus("archived"))
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
}

func TestUpdateStoreStatus_ApprovesStore(t *testing.T) {
	stores := &fakeStoreRepo{stores: make(map[uuid.UUID]*models.Store)}
	existing := &models.Store{Name: "Luna Living", Status: models.StoreStatusPending}
	_ = stores.Create(context.Background(), existing)
	svc := services.NewStoreService(stores, newFakeUserRepo(), newFakeWalletRepo(), zap.NewNop())

	store, svcErr := svc.UpdateStatus(context.Background(), existing.ID, models.StoreStatusApproved)
	require.Nil(t, svcErr)
	assert.Equal(t, models.StoreStatusApproved, store.Status)
}
