package rediskey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "social:friends:list:u1", FriendListKey("u1"))
	assert.Equal(t, "social:friends:ver:u1", FriendListVersionKey("u1"))
	assert.Equal(t, "social:rate:limit:user:u1", UserRateLimitKey("u1"))
	assert.Equal(t, "social:rate:limit:ip:1.2.3.4", IPRateLimitKey("1.2.3.4"))
	assert.Equal(t, "social:devices:active:u1", DeviceActiveKey("u1"))
	assert.Greater(t, FriendListVersionTTL, FriendListTTL)
}
