package util

import (
	"testing"
	"time"

	"FitSocial/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("u1", "d1")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserUUID)
	assert.Equal(t, "d1", claims.DeviceID)
}

func TestParseTokenRejects(t *testing.T) {
	t.Cleanup(func() { InitJWT(config.DefaultJWTConfig()) })

	token, err := GenerateToken("u1", "d1")
	require.NoError(t, err)

	cfg := config.DefaultJWTConfig()
	cfg.Secret = "another-secret"
	InitJWT(cfg)
	_, err = ParseToken(token)
	assert.Error(t, err, "wrong secret")

	cfg.TTL = -time.Minute
	InitJWT(cfg)
	expired, err := GenerateToken("u1", "d1")
	require.NoError(t, err)
	_, err = ParseToken(expired)
	assert.Error(t, err, "expired")

	_, err = ParseToken("not-a-token")
	assert.Error(t, err)
}
