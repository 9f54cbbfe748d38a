package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_AccessToken(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)
	id := uuid.New()

	token, err := m.GenerateAccessToken(id, "a@b.c", []string{"cashier"}, []string{"create-orders"})
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, []string{"cashier"}, claims.Roles)
	assert.Equal(t, []string{"create-orders"}, claims.Permissions)
}

func TestJWTManager_RefreshToken(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)
	id := uuid.New()

	refresh, err := m.GenerateRefreshToken(id)
	require.NoError(t, err)

	got, err := m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	access, err := m.GenerateAccessToken(id, "a@b.c", nil, nil)
	require.NoError(t, err)
	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err, "access token must not refresh")
}

func TestJWTManager_WrongSecret(t *testing.T) {
	token, err := NewJWTManager("one", time.Minute, time.Hour).GenerateAccessToken(uuid.New(), "", nil, nil)
	require.NoError(t, err)

	_, err = NewJWTManager("two", time.Minute, time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute, time.Hour)
	token, err := m.GenerateAccessToken(uuid.New(), "", nil, nil)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret!", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestGenerateOrderNo(t *testing.T) {
	no := GenerateOrderNo("LND")
	assert.True(t, strings.HasPrefix(no, "LND-"))
	assert.Len(t, no, len("LND-")+8)
	assert.NotEqual(t, no, GenerateOrderNo("LND"))
	assert.True(t, strings.HasPrefix(GenerateOrderNo(""), "LND-"))
	assert.True(t, strings.HasPrefix(GenerateProductCode(), "SRV-"))
}

func TestJWTManager_RefreshRejectedAsAccess(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)
	refresh, err := m.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)
}
