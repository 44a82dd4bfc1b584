package services_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"shopzeo-backend/models"
	"shopzeo-backend/services"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "unit-test-secret"

func seedUser(t *testing.T, users *fakeUserRepo, email, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.User{Email: email, PasswordHash: string(hash), Role: role}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestLogin_Success(t *testing.T) {
	users := newFakeUserRepo()
	seeded := seedUser(t, users, "vendor@shopzeo.example", "hunter22", models.RoleVendor)
	svc := services.NewAuthService(users, testSecret, time.Hour, zap.NewNop())

	resp, svcErr := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "vendor@shopzeo.example",
		Password: "hunter22",
	})
	require.Nil(t, svcErr)
	require.NotEmpty(t, resp.Token)

	claims := &services.Claims{}
	token, err := jwt.ParseWithClaims(resp.Token, claims, func(_ *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, seeded.ID.String(), claims.UserID)
	assert.Equal(t, models.RoleVendor, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "vendor@shopzeo.example", "hunter22", models.RoleVendor)
	svc := services.NewAuthService(users, testSecret, time.Hour, zap.NewNop())

	resp, svcErr := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "vendor@shopzeo.example",
		Password: "wrong",
	})
	require.NotNil(t, svcErr)
	assert.Nil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, svcErr.StatusCode)
	assert.Equal(t, "Invalid credentials", svcErr.Message)
}

func TestLogin_UnknownEmail_SameResponse(t *testing.T) {
	svc := services.NewAuthService(newFakeUserRepo(), testSecret, time.Hour, zap.NewNop())

	_, svcErr := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "nobody@shopzeo.example",
		Password: "whatever",
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusUnauthorized, svcErr.StatusCode)
	assert.Equal(t, "Invalid credentials", svcErr.Message)
}

func TestLogin_TokenRejectedWithWrongSecret(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "admin@shopzeo.example", "hunter22", models.RoleAdmin)
	svc := services.NewAuthService(users, testSecret, time.Hour, zap.NewNop())

	resp, svcErr := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "admin@shopzeo.example",
		Password: "hunter22",
	})
	require.Nil(t, svcErr)

	_, err := jwt.ParseWithClaims(resp.Token, &services.Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}

func TestLogin_TokenCarriesUserID(t *testing.T) {
	users := newFakeUserRepo()
	u := seedUser(t, users, "buyer@shopzeo.example", "hunter22", models.RoleCustomer)
	svc := services.NewAuthService(users, testSecret, 0, zap.NewNop())

	resp, svcErr := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "buyer@shopzeo.example",
		Password: "hunter22",
	})
	require.Nil(t, svcErr)

	claims := &services.Claims{}
	_, err := jwt.ParseWithClaims(resp.Token, claims, func(_ *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	parsed, err := uuid.Parse(claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, parsed)
}
