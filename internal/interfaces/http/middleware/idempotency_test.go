package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redispkg "agro-market.backend/pkg/redis"
)

func useMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	cli := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	redispkg.SetClient(cli)
	t.Cleanup(func() {
		_ = cli.Close()
		redispkg.SetClient(nil)
	})
	return mr
}

func idempotentRouter(userID uuid.UUID, calls *int32, status int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(UserIDKey, userID)
		c.Next()
	})
	r.POST("/orders", IdempotencyMiddleware(), func(c *gin.Context) {
		n := atomic.AddInt32(calls, 1)
		c.JSON(status, gin.H{"call": n})
	})
	return r
}

func postWithKey(r http.Handler, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyMiddleware_ReplaysSuccess(t *testing.T) {
	useMiniRedis(t)
	var calls int32
	r := idempotentRouter(uuid.New(), &calls, http.StatusCreated)

	first := postWithKey(r, "k-1")
	require.Equal(t, http.StatusCreated, first.Code)

	second := postWithKey(r, "k-1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(IdempotencyHitHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	third := postWithKey(r, "k-2")
	assert.Equal(t, http.StatusCreated, third.Code)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestIdempotencyMiddleware_KeysArePerUser(t *testing.T) {
	useMiniRedis(t)
	var calls int32
	postWithKey(idempotentRouter(uuid.New(), &calls, http.StatusCreated), "same")
	postWithKey(idempotentRouter(uuid.New(), &calls, http.StatusCreated), "same")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestIdempotencyMiddleware_FailureReleasesKey(t *testing.T) {
	mr := useMiniRedis(t)
	var calls int32
	r := idempotentRouter(uuid.New(), &calls, http.StatusConflict)

	assert.Equal(t, http.StatusConflict, postWithKey(r, "k").Code)
	assert.Empty(t, mr.Keys())
	assert.Equal(t, http.StatusConflict, postWithKey(r, "k").Code)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestIdempotencyMiddleware_InProgress(t *testing.T) {
	mr := useMiniRedis(t)
	userID := uuid.New()
	var calls int32
	r := idempotentRouter(userID, &calls, http.StatusCreated)

	require.NoError(t, mr.Set("idempotency:"+userID.String()+":POST:/orders:busy", processingMarker))
	w := postWithKey(r, "busy")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestIdempotencyMiddleware_Passthrough(t *testing.T) {
	var calls int32
	r := idempotentRouter(uuid.New(), &calls, http.StatusCreated)

	// no header: redis is never consulted
	assert.Equal(t, http.StatusCreated, postWithKey(r, "").Code)

	// store unavailable: request still served
	redispkg.SetClient(nil)
	assert.Equal(t, http.StatusCreated, postWithKey(r, "k").Code)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
