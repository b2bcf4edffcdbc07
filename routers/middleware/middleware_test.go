package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/paycrest/bridge-wallet/utils/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware("https://app.example.com"))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	t.Run("app origin is allowed", func(t *testing.T) {
		res, err := test.PerformRequest(t, "GET", "/ping", nil, map[string]string{"Origin": "https://app.example.com"}, router)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, "https://app.example.com", res.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", res.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("other origins get no allow header", func(t *testing.T) {
		res, err := test.PerformRequest(t, "GET", "/ping", nil, map[string]string{"Origin": "https://evil.example.org"}, router)
		require.NoError(t, err)

		assert.Empty(t, res.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short circuits", func(t *testing.T) {
		res, err := test.PerformRequest(t, "OPTIONS", "/ping", nil, map[string]string{"Origin": "https://app.example.com"}, router)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, res.Code)
		assert.Empty(t, res.Body.String())
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(2))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		res, err := test.PerformRequest(t, "GET", "/ping", nil, nil, router)
		require.NoError(t, err)
		codes = append(codes, res.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Contains(t, codes, http.StatusTooManyRequests)
}
