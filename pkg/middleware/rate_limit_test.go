package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/gogotex/gogotex/backend/go-workflow/pkg/metrics"
)

func hit(r *gin.Engine, path string) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w.Code
}

func TestRateLimitMiddleware_AllowsUnderLimit(t *testing.T) {
	before := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))
	r := gin.New()
	r.Use(RateLimitMiddleware(10, 2))
	r.GET("/ok", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	require.Equal(t, http.StatusOK, hit(r, "/ok"))
	require.Equal(t, http.StatusOK, hit(r, "/ok"))
	require.Equal(t, before+2, testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory")))
}

func TestRateLimitMiddleware_BlocksWhenExceeded(t *testing.T) {
	rejected := testutil.ToFloat64(metrics.RateLimitRejected.WithLabelValues("memory"))
	r := gin.New()
	r.Use(RateLimitMiddleware(2, 1))
	r.GET("/limited", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	require.Equal(t, http.StatusOK, hit(r, "/limited"))
	require.Equal(t, http.StatusTooManyRequests, hit(r, "/limited"))
	require.Equal(t, rejected+1, testutil.ToFloat64(metrics.RateLimitRejected.WithLabelValues("memory")))

	// one token comes back after 1/rps seconds
	time.Sleep(600 * time.Millisecond)
	require.Equal(t, http.StatusOK, hit(r, "/limited"))
}

func TestRateLimitMiddleware_KeysByActor(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ActorKey, c.Query("as"))
		c.Next()
	})
	r.Use(RateLimitMiddleware(0.5, 1))
	r.GET("/u", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	require.Equal(t, http.StatusOK, hit(r, "/u?as=alice"))
	require.Equal(t, http.StatusTooManyRequests, hit(r, "/u?as=alice"))
	require.Equal(t, http.StatusOK, hit(r, "/u?as=bob"), "buckets are per actor")
}
