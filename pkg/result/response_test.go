package result

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"FitSocial/consts"
	"FitSocial/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(util.TraceLogger())
	r.GET("/ok", func(c *gin.Context) { Success(c, gin.H{"n": 1}) })
	r.GET("/fail", func(c *gin.Context) { Fail(c, nil, consts.CodeAlreadyFriend) })
	r.GET("/401", func(c *gin.Context) { Unauthorized(c, consts.CodeInvalidToken) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(util.HeaderXRequestID, "trace-1")
	r.ServeHTTP(w, req)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int32(consts.CodeSuccess), resp.Code)
	assert.Equal(t, "trace-1", resp.TraceId)
	assert.Equal(t, "trace-1", w.Header().Get(util.HeaderXRequestID))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(consts.CodeAlreadyFriend), resp.Code)
	assert.Equal(t, consts.GetMessage(consts.CodeAlreadyFriend), resp.Message)
	assert.NotEmpty(t, resp.TraceId)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/401", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
