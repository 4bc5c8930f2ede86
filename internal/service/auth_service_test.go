package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/home-wellness/spa-booking-api/internal/models"
	appErrors "github.com/home-wellness/spa-booking-api/pkg/errors"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(AuthConfig{
		Username:      "admin",
		PasswordHash:  string(hash),
		JWTSecret:     "test-secret",
		JWTExpiration: time.Hour,
	}, zap.NewNop())
}

func TestAuthLoginAndValidate(t *testing.T) {
	svc := newAuthService(t)

	resp, err := svc.Login(models.LoginRequest{Username: "admin", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t)

	scenarios := []struct {
		name string
		req  models.LoginRequest
	}{
		{name: "wrong password", req: models.LoginRequest{Username: "admin", Password: "wrong"}},
		{name: "wrong username", req: models.LoginRequest{Username: "root", Password: "correct horse"}},
	}
	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			_, err := svc.Login(sc.req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
		})
	}

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(models.LoginRequest{Username: "admin"})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	})
}

func TestAuthLoginNotConfigured(t *testing.T) {
	svc := NewAuthService(AuthConfig{}, zap.NewNop())
	assert.False(t, svc.Enabled())

	_, err := svc.Login(models.LoginRequest{Username: "admin", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotConfigured.Code, appErrors.FromError(err).Code)
}

func TestAuthValidateTokenExpired(t *testing.T) {
	svc := newAuthService(t)
	svc.now = func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	}

	resp, err := svc.Login(models.LoginRequest{Username: "admin", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthValidateTokenGarbage(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
