package service

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/home-wellness/spa-booking-api/internal/models"
	appErrors "github.com/home-wellness/spa-booking-api/pkg/errors"
)

// AuthConfig defines the single admin account guarding the diagnostics
// endpoints. The password is only ever configured as a bcrypt hash.
type AuthConfig struct {
	Username      string
	PasswordHash  string
	JWTSecret     string
	JWTExpiration time.Duration
	Issuer        string
}

// AuthService issues and validates admin access tokens. The public catalog
// and availability endpoints are unauthenticated; only the diagnostics
// surface sits behind this.
type AuthService struct {
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(config AuthConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.JWTExpiration <= 0 {
		config.JWTExpiration = time.Hour
	}
	if config.Issuer == "" {
		config.Issuer = "spa-booking-api"
	}
	return &AuthService{
		validator: validator.New(),
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
}

// Enabled reports whether an admin account is configured at all.
func (s *AuthService) Enabled() bool {
	return s.config.Username != "" && s.config.PasswordHash != "" && s.config.JWTSecret != ""
}

// Login authenticates the admin account and returns an access token.
func (s *AuthService) Login(req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	if !s.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrNotConfigured, "admin access is not configured")
	}
	if req.Username != s.config.Username {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.config.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.JWTExpiration)
	claims := &models.JWTClaims{
		Username: req.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   req.Username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.logger.Info("admin login", zap.String("username", req.Username))
	return &models.LoginResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.config.JWTExpiration.Seconds()),
		IssuedAt:    issuedAt,
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}
