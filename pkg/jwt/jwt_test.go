package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "test-access-secret-key-for-testing-purposes"
	testRefreshSecret = "test-refresh-secret-key-for-testing-purposes"
	testUsername      = "frontdesk"
)

func newTestService() *Service {
	return NewService(testAccessSecret, testRefreshSecret, time.Hour, 24*time.Hour)
}

func TestNewService(t *testing.T) {
	service := newTestService()

	assert.NotNil(t, service)
	assert.Equal(t, testAccessSecret, service.accessSecret)
	assert.Equal(t, testRefreshSecret, service.refreshSecret)
	assert.Equal(t, time.Hour, service.AccessTokenExpiry())
	assert.Equal(t, 24*time.Hour, service.RefreshTokenExpiry())
}

func TestGenerateAccessToken(t *testing.T) {
	service := newTestService()
	adminID := uuid.New()
	roles := []string{"admin"}

	token, err := service.GenerateAccessToken(adminID, testUsername, roles)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, adminID, claims.AdminID)
	assert.Equal(t, testUsername, claims.Username)
	assert.Equal(t, roles, claims.Roles)
	assert.Equal(t, AccessToken, claims.TokenType)
}

func TestGenerateRefreshToken(t *testing.T) {
	service := newTestService()
	adminID := uuid.New()

	token, err := service.GenerateRefreshToken(adminID, testUsername)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, adminID, claims.AdminID)
	assert.Equal(t, testUsername, claims.Username)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestRefreshTokensAreUnique(t *testing.T) {
	service := newTestService()
	adminID := uuid.New()

	first, err := service.GenerateRefreshToken(adminID, testUsername)
	require.NoError(t, err)
	second, err := service.GenerateRefreshToken(adminID, testUsername)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestValidateAccessToken(t *testing.T) {
	service := newTestService()
	token, err := service.GenerateAccessToken(uuid.New(), testUsername, []string{"admin"})
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(token)
	require.NoError(t, err)

	_, err = service.ValidateAccessToken("invalid.token.here")
	assert.Error(t, err)

	wrongService := NewService("wrong-secret", testRefreshSecret, time.Hour, 24*time.Hour)
	_, err = wrongService.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateRefreshToken(t *testing.T) {
	service := newTestService()
	token, err := service.GenerateRefreshToken(uuid.New(), testUsername)
	require.NoError(t, err)

	_, err = service.ValidateRefreshToken(token)
	require.NoError(t, err)

	_, err = service.ValidateRefreshToken("invalid.token.here")
	assert.Error(t, err)

	wrongService := NewService(testAccessSecret, "wrong-secret", time.Hour, 24*time.Hour)
	_, err = wrongService.ValidateRefreshToken(token)
	assert.Error(t, err)
}

func TestTokenTypeMismatch(t *testing.T) {
	// Same secret for both so only the type check can reject
	service := NewService(testAccessSecret, testAccessSecret, time.Hour, 24*time.Hour)
	adminID := uuid.New()

	accessToken, err := service.GenerateAccessToken(adminID, testUsername, nil)
	require.NoError(t, err)
	_, err = service.ValidateRefreshToken(accessToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token type")

	refreshToken, err := service.GenerateRefreshToken(adminID, testUsername)
	require.NoError(t, err)
	_, err = service.ValidateAccessToken(refreshToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token type")
}

func TestExpiredToken(t *testing.T) {
	service := NewService(testAccessSecret, testRefreshSecret, -time.Minute, -time.Minute)

	token, err := service.GenerateAccessToken(uuid.New(), testUsername, nil)
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestForeignIssuerRejected(t *testing.T) {
	claims := Claims{
		AdminID:   uuid.New(),
		Username:  testUsername,
		TokenType: AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "someone-else",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAccessSecret))
	require.NoError(t, err)

	_, err = newTestService().ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestGetTokenExpiry(t *testing.T) {
	service := newTestService()

	token, err := service.GenerateAccessToken(uuid.New(), testUsername, nil)
	require.NoError(t, err)

	expiry, err := service.GetTokenExpiry(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, 5*time.Second)

	_, err = service.GetTokenExpiry("invalid.token.here")
	assert.Error(t, err)
}

func TestTokenIssuerAndSubject(t *testing.T) {
	service := newTestService()
	adminID := uuid.New()

	token, err := service.GenerateAccessToken(adminID, testUsername, nil)
	require.NoError(t, err)

	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "hotel-admin-backend", claims.Issuer)
	assert.Equal(t, adminID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestConcurrentTokenGeneration(t *testing.T) {
	service := newTestService()

	done := make(chan bool)
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		go func() {
			token, err := service.GenerateAccessToken(uuid.New(), testUsername, []string{"admin"})
			if err != nil {
				errs <- err
				done <- true
				return
			}

			if _, err := service.ValidateAccessToken(token); err != nil {
				errs <- err
			}
			done <- true
		}()
	}

	for i := 0; i < 100; i++ {
		<-done
	}

	close(errs)
	assert.Empty(t, errs)
}

func TestExpiredTokenIsDetectable(t *testing.T) {
	service := NewService(testAccessSecret, testRefreshSecret, -time.Minute, time.Hour)

	token, err := service.GenerateAccessToken(uuid.New(), testUsername, nil)
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
