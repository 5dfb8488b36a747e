package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/farmerp/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type memoryStore struct {
	mu       sync.Mutex
	keys     map[string]bool
	released []string
	err      error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{keys: make(map[string]bool)}
}

func (s *memoryStore) Reserve(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *memoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	s.released = append(s.released, key)
	return nil
}

func (s *memoryStore) Close() error { return nil }

func idempotentRouter(store *memoryStore, status *int) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(Idempotency(store, time.Hour, nil))
	handler := func(c *gin.Context) {
		c.JSON(*status, gin.H{"success": *status < 400})
	}
	router.POST("/api/v1/harvests", handler)
	router.POST("/api/v1/sales", handler)
	router.GET("/api/v1/harvests", handler)
	return router
}

func send(router http.Handler, method, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(`{}`))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency_RejectsReplay(t *testing.T) {
	status := http.StatusCreated
	router := idempotentRouter(newMemoryStore(), &status)

	assert.Equal(t, http.StatusCreated, send(router, http.MethodPost, "/api/v1/harvests", "k-1").Code)

	replay := send(router, http.MethodPost, "/api/v1/harvests", "k-1")
	assert.Equal(t, http.StatusConflict, replay.Code)
	assert.Contains(t, replay.Body.String(), dto.ErrCodeDuplicateRequest)

	// keys are scoped to the route
	assert.Equal(t, http.StatusCreated, send(router, http.MethodPost, "/api/v1/sales", "k-1").Code)
}

func TestIdempotency_PassThrough(t *testing.T) {
	status := http.StatusOK
	store := newMemoryStore()
	router := idempotentRouter(store, &status)

	assert.Equal(t, http.StatusOK, send(router, http.MethodPost, "/api/v1/harvests", "").Code)
	assert.Equal(t, http.StatusOK, send(router, http.MethodPost, "/api/v1/harvests", "").Code)
	assert.Equal(t, http.StatusOK, send(router, http.MethodGet, "/api/v1/harvests", "k-2").Code)
	assert.Equal(t, http.StatusOK, send(router, http.MethodGet, "/api/v1/harvests", "k-2").Code)
	assert.Empty(t, store.keys)
}

func TestIdempotency_ReleasesKeyOnFailure(t *testing.T) {
	status := http.StatusUnprocessableEntity
	store := newMemoryStore()
	router := idempotentRouter(store, &status)

	assert.Equal(t, http.StatusUnprocessableEntity, send(router, http.MethodPost, "/api/v1/sales", "k-3").Code)
	assert.Equal(t, []string{"POST /api/v1/sales k-3"}, store.released)

	status = http.StatusCreated
	assert.Equal(t, http.StatusCreated, send(router, http.MethodPost, "/api/v1/sales", "k-3").Code)
}

func TestIdempotency_StoreUnavailable(t *testing.T) {
	status := http.StatusCreated
	store := newMemoryStore()
	store.err = errors.New("dial tcp: connection refused")
	router := idempotentRouter(store, &status)

	w := send(router, http.MethodPost, "/api/v1/harvests", "k-4")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeUnavailable)
}

func TestIdempotency_KeyTooLong(t *testing.T) {
	status := http.StatusCreated
	router := idempotentRouter(newMemoryStore(), &status)

	w := send(router, http.MethodPost, "/api/v1/harvests", strings.Repeat("k", 200))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
