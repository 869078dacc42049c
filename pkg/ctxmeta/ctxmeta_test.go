package ctxmeta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestWithAndGet(t *testing.T) {
	ctx := WithTraceID(context.Background(), "t1")
	ctx = WithUserUUID(ctx, "u1")
	ctx = WithDeviceID(ctx, "")

	assert.Equal(t, "t1", TraceID(ctx))
	assert.Equal(t, "u1", UserUUID(ctx))
	assert.Equal(t, "", DeviceID(ctx))
	assert.Equal(t, "", TraceID(nil))
}

func TestFromGin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(KeyTraceID, "trace-x")
	c.Set(KeyUserUUID, "u9")

	ctx := FromGin(c)
	assert.Equal(t, "trace-x", TraceID(ctx))
	assert.Equal(t, "u9", UserUUID(ctx))
	assert.Equal(t, "trace-x", TraceIDFromGin(c))
}

func TestDetachDropsCancellation(t *testing.T) {
	parent, cancel := context.WithTimeout(WithTraceID(context.Background(), "t2"), time.Millisecond)
	cancel()

	detached := Detach(parent)
	assert.NoError(t, detached.Err())
	assert.Equal(t, "t2", TraceID(detached))
}
