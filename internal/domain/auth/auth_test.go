package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing-purposes-only"

type memUsers map[string]*User

func (m memUsers) FindByUsername(_ context.Context, username string) (*User, error) {
	u, ok := m[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (m memUsers) UpsertUser(_ context.Context, u *User) error {
	m[u.Username] = u
	return nil
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("admin1234")
	require.NoError(t, err)
	assert.True(t, CheckPassword("admin1234", hash))
	assert.False(t, CheckPassword("admin12345", hash))

	_, err = HashPassword("short")
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService(testSecret, 24*time.Hour)

	token, expiresAt, err := svc.Issue(&User{ID: "u1", Username: "admin", Role: RoleAdmin})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestTokenService_Rejects(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	token, _, err := svc.Issue(&User{ID: "u1", Username: "admin", Role: RoleAdmin})
	require.NoError(t, err)

	other := NewTokenService("another-secret-key-for-testing-purposes", time.Hour)
	_, err = other.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Validate("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Validate(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestService_Login(t *testing.T) {
	hash, err := HashPassword("admin1234")
	require.NoError(t, err)
	users := memUsers{"admin": {ID: "u1", Username: "admin", PasswordHash: hash, Role: RoleAdmin}}
	svc := NewService(users, NewTokenService(testSecret, time.Hour))
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "admin", "admin1234")
	require.NoError(t, err)
	claims, err := svc.Tokens().Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)

	_, _, err = svc.Login(ctx, "admin", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "ghost", "admin1234")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
