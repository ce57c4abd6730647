package jwtutil

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	j := NewJWTUtil("secret", time.Hour)

	token, err := j.GenerateToken(42, "ram@example.com", "admin")
	require.NoError(t, err)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ram@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	token, err := NewJWTUtil("secret", time.Hour).GenerateToken(1, "a@b.c", "user")
	require.NoError(t, err)

	_, err = NewJWTUtil("other", time.Hour).ValidateToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestValidateRejectsExpired(t *testing.T) {
	j := NewJWTUtil("secret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	j.now = func() time.Time { return issued }

	token, err := j.GenerateToken(1, "a@b.c", "user")
	require.NoError(t, err)

	j.now = time.Now
	_, err = j.ValidateToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestValidateRejectsTamperedRole(t *testing.T) {
	j := NewJWTUtil("secret", time.Hour)
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		UserID: 1,
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := forged.SignedString([]byte("attacker-key"))
	require.NoError(t, err)

	_, err = j.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsNoneAlgorithm(t *testing.T) {
	j := NewJWTUtil("secret", time.Hour)
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = j.ValidateToken(token)
	assert.Error(t, err)
}

func TestGenerateWithoutKey(t *testing.T) {
	_, err := NewJWTUtil("", time.Hour).GenerateToken(1, "a@b.c", "user")
	assert.Error(t, err)
}
