package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/ywpark/brickpay-api/internal/config"
	"github.com/ywpark/brickpay-api/internal/models"
	"github.com/ywpark/brickpay-api/internal/repository"
	"gorm.io/gorm"
)

type mockUserRepo struct {
	repository.UserRepository
	mockFindByEmail func(ctx context.Context, email string) (*models.User, error)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.mockFindByEmail(ctx, email)
}

func testAuthConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 24}
}

func staffUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := HashPassword(password)
	assert.NoError(t, err)
	return &models.User{
		ID:                1,
		Email:             "staff@example.com",
		EncryptedPassword: hash,
		Name:              "Staff",
		Role:              models.RoleStaff,
		Status:            models.UserStatusActive,
	}
}

func TestLoginIssuesTokenWithRoleClaims(t *testing.T) {
	user := staffUser(t, "secret-pw")
	repo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			assert.Equal(t, "staff@example.com", email)
			return user, nil
		},
	}
	svc := NewAuthService(repo, testAuthConfig())

	result, err := svc.Login(context.Background(), "staff@example.com", "secret-pw")
	assert.NoError(t, err)
	assert.Equal(t, user.ToResponse(), result.User)

	parsed, err := jwt.Parse(result.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(1), claims["user_id"])
	assert.Equal(t, models.RoleStaff, claims["role"])
	assert.Equal(t, "staff@example.com", claims["email"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	user := staffUser(t, "secret-pw")
	repo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}
	svc := NewAuthService(repo, testAuthConfig())

	result, err := svc.Login(context.Background(), "staff@example.com", "wrong")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	repo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewAuthService(repo, testAuthConfig())

	result, err := svc.Login(context.Background(), "nobody@example.com", "secret-pw")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	user := staffUser(t, "secret-pw")
	user.Status = models.UserStatusInactive
	repo := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}
	svc := NewAuthService(repo, testAuthConfig())

	result, err := svc.Login(context.Background(), "staff@example.com", "secret-pw")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInactiveAccount)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret-pw")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret-pw", hash)
	assert.True(t, VerifyPassword("secret-pw", hash))
	assert.False(t, VerifyPassword("wrong", hash))
}
