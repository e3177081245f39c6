package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"pharmacy-service/internal/domain"
	"pharmacy-service/internal/infra/redisstore"
	"pharmacy-service/internal/mocks"
	mysqlrepo "pharmacy-service/internal/repository/mysql"
	"pharmacy-service/internal/repository/mysql/sqlitetest"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := mysqlrepo.NewStore(sqlitetest.Open(t))
	return NewAuthService(store, testSecret, time.Hour, redisstore.NewTokenRevocations(rdb))
}

func TestAuthService_Register(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name          string
		input         RegisterInput
		expectedError error
	}{
		{
			name:  "customer with shipping profile",
			input: RegisterInput{Role: "customer", UserID: "alice", Password: "s3cret", Age: 31, City: "Pune", State: "Maharashtra", Pincode: "411001"},
		},
		{
			name:  "admin",
			input: RegisterInput{Role: "ADMIN", UserID: "root", Password: "s3cret"},
		},
		{
			name:          "duplicate user id",
			input:         RegisterInput{Role: "Customer", UserID: "alice", Password: "other"},
			expectedError: domain.ErrUserExists,
		},
		{
			name:          "unknown role",
			input:         RegisterInput{Role: "pharmacist", UserID: "carol", Password: "x"},
			expectedError: domain.ErrInvalidInput,
		},
		{
			name:          "missing password",
			input:         RegisterInput{Role: "Customer", UserID: "dave"},
			expectedError: domain.ErrInvalidInput,
		},
		{
			name:          "negative age",
			input:         RegisterInput{Role: "Customer", UserID: "erin", Password: "x", Age: -1},
			expectedError: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := auth.Register(ctx, tt.input)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, u.ID)
			assert.NotEqual(t, tt.input.Password, u.PasswordHash)
		})
	}
}

func TestAuthService_LoginAndLogout(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, RegisterInput{Role: "Customer", UserID: "alice", Password: "s3cret"})
	require.NoError(t, err)

	token, u, err := auth.Login(ctx, "customer", "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, u.Role)

	claims, err := auth.ParseToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, domain.RoleCustomer, claims.Role)
	assert.NotEmpty(t, claims.ID)

	require.NoError(t, auth.Logout(ctx, claims))
	_, err = auth.ParseToken(ctx, token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// a fresh login still works
	token, _, err = auth.Login(ctx, "Customer", "alice", "s3cret")
	require.NoError(t, err)
	_, err = auth.ParseToken(ctx, token)
	assert.NoError(t, err)
}

func TestAuthService_LoginFailures(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()
	_, err := auth.Register(ctx, RegisterInput{Role: "Customer", UserID: "alice", Password: "s3cret"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		role     string
		userID   string
		password string
	}{
		{name: "wrong password", role: "Customer", userID: "alice", password: "guess"},
		{name: "wrong role", role: "Admin", userID: "alice", password: "s3cret"},
		{name: "unknown user", role: "Customer", userID: "mallory", password: "s3cret"},
		{name: "bogus role", role: "", userID: "alice", password: "s3cret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, u, err := auth.Login(ctx, tt.role, tt.userID, tt.password)
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
			assert.Empty(t, token)
			assert.Nil(t, u)
		})
	}
}

func TestAuthService_ParseTokenRejects(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()
	admin := &domain.User{UserID: "root", Role: domain.RoleAdmin}

	auth.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := auth.issueToken(admin)
	require.NoError(t, err)
	auth.now = time.Now

	_, err = auth.ParseToken(ctx, expired)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	other := NewAuthService(nil, "another-secret", time.Hour, nil)
	forged, err := other.issueToken(admin)
	require.NoError(t, err)
	_, err = auth.ParseToken(ctx, forged)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = auth.ParseToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_RevocationStoreDown(t *testing.T) {
	revoker := new(mocks.MockRevoker)
	auth := NewAuthService(mocks.NewMockStore(), testSecret, time.Hour, revoker)
	ctx := context.Background()

	token, err := auth.issueToken(&domain.User{UserID: "alice", Role: domain.RoleCustomer})
	require.NoError(t, err)

	revoker.On("IsRevoked", mock.Anything, mock.AnythingOfType("string")).Return(false, errors.New("redis: connection refused"))
	claims, err := auth.ParseToken(ctx, token)
	require.NoError(t, err, "a revocation lookup failure does not lock users out")

	revoker.On("Revoke", mock.Anything, claims.ID, mock.AnythingOfType("time.Duration")).Return(errors.New("redis: connection refused"))
	assert.Error(t, auth.Logout(ctx, claims))
	revoker.AssertExpectations(t)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	require.NoError(t, auth.EnsureAdmin(ctx, "root", "changeme"))
	require.NoError(t, auth.EnsureAdmin(ctx, "root", "ignored"))

	_, u, err := auth.Login(ctx, "admin", "root", "changeme")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
}
