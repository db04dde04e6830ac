package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bettersale/bettersale-backend/pkg/logger"
	redisclient "github.com/bettersale/bettersale-backend/pkg/redis"
)

type memKV struct {
	entries map[string][]byte
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := m.entries[key]
	if !ok {
		return nil, redisclient.ErrMiss
	}
	return data, nil
}

func (m *memKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.entries[key] = value.([]byte)
	return nil
}

func newIdempotentHandler(t *testing.T) (http.Handler, *int) {
	t.Helper()
	calls := 0
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{"order_id":"ORD-AB12CD34"}}`))
	})
	logg := logger.New(logger.Options{
		ServiceName: "idempotency-test",
		Level:       zerolog.ErrorLevel,
		Output:      &bytes.Buffer{},
	})
	return Idempotency(&memKV{entries: map[string][]byte{}}, logg)(inner), &calls
}

func post(handler http.Handler, path, body, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIdempotentReplay(t *testing.T) {
	handler, calls := newIdempotentHandler(t)

	first := post(handler, "/v1/tools/place_order", `{"customer_id":"123"}`, "key-1")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get("X-Idempotent-Replay"))

	second := post(handler, "/v1/tools/place_order", `{"customer_id":"123"}`, "key-1")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotent-Replay"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, *calls, "handler must run once per key")
}

func TestIdempotencyKeyReuseWithDifferentBody(t *testing.T) {
	handler, _ := newIdempotentHandler(t)

	post(handler, "/v1/tools/place_order", `{"customer_id":"123"}`, "key-1")
	rec := post(handler, "/v1/tools/place_order", `{"customer_id":"456"}`, "key-1")

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "CONFLICT")
}

func TestIdempotencyPassThrough(t *testing.T) {
	handler, calls := newIdempotentHandler(t)

	t.Run("no key runs every time", func(t *testing.T) {
		post(handler, "/v1/tools/place_order", `{"customer_id":"123"}`, "")
		post(handler, "/v1/tools/place_order", `{"customer_id":"123"}`, "")
		assert.Equal(t, 2, *calls)
	})

	t.Run("read-only tools are not intercepted", func(t *testing.T) {
		before := *calls
		post(handler, "/v1/tools/access_cart_information", `{"customer_id":"123"}`, "key-2")
		post(handler, "/v1/tools/access_cart_information", `{"customer_id":"123"}`, "key-2")
		assert.Equal(t, before+2, *calls)
	})
}
