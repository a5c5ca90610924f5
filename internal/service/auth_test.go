package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	return NewAuthService(newTestDB(t), "test-secret")
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	input := RegisterInput{
		Email:     "alice@example.com",
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Baker",
		Password:  "s3cret-pass",
	}
	token, err := svc.Register(ctx, input)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.NotEqual(t, "", claims.UserID.String())

	loginToken, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	loginClaims, err := svc.ValidateToken(loginToken)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, loginClaims.UserID)
}

func TestRegisterDuplicates(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	first := RegisterInput{
		Email:     "alice@example.com",
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Baker",
		Password:  "s3cret-pass",
	}
	_, err := svc.Register(ctx, first)
	require.NoError(t, err)

	sameEmail := first
	sameEmail.Username = "alice2"
	_, err = svc.Register(ctx, sameEmail)
	assert.True(t, IsValidation(err), "expected validation error, got %v", err)

	sameUsername := first
	sameUsername.Email = "alice2@example.com"
	_, err = svc.Register(ctx, sameUsername)
	assert.True(t, IsValidation(err), "expected validation error, got %v", err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Email:     "alice@example.com",
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Baker",
		Password:  "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	svc := newAuthService(t)
	other := NewAuthService(newTestDB(t), "another-secret")

	token, err := other.Register(context.Background(), RegisterInput{
		Email:     "alice@example.com",
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Baker",
		Password:  "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
