package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/crewforge/backoffice/internal/common/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(config.JWTConfig{SecretKey: "", Duration: time.Hour})
	assert.ErrorIs(t, err, ErrEmptySecretKey)

	_, err = NewService(config.JWTConfig{SecretKey: "short", Duration: time.Hour})
	assert.ErrorIs(t, err, ErrWeakSecretKey)

	_, err = NewService(config.JWTConfig{SecretKey: testSecret, Duration: 0})
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc, err := NewService(config.JWTConfig{SecretKey: testSecret, Duration: time.Hour})
	assert.NoError(t, err)

	token, err := svc.GenerateToken(42, "jane@x.com", "user")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "jane@x.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestValidateToken_Expired(t *testing.T) {
	svc, err := NewService(config.JWTConfig{SecretKey: testSecret, Duration: time.Nanosecond})
	assert.NoError(t, err)

	token, err := svc.GenerateToken(1, "a@b.c", "user")
	assert.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc, err := NewService(config.JWTConfig{SecretKey: testSecret, Duration: time.Hour})
	assert.NoError(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
