package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bettersale/bettersale-backend/api/responses"
	pkgerrors "github.com/bettersale/bettersale-backend/pkg/errors"
	"github.com/bettersale/bettersale-backend/pkg/logger"
	redisclient "github.com/bettersale/bettersale-backend/pkg/redis"
)

// Idempotency protects the state-changing tools against agent retries. The
// agent loop re-issues a tool call whenever it is unsure the first attempt
// landed; replaying a stored response keeps a retried place_order from
// producing two orders.
const idempotencyTTL = 24 * time.Hour

var idempotentTools = map[string]bool{
	"place_order":      true,
	"modify_cart":      true,
	"schedule_service": true,
}

type idempotencyRecord struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	RequestHash string `json:"request_hash"`
}

// IdempotencyStore is the persistence surface; satisfied by the Redis client.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Idempotency replays the stored response when a state-changing tool call
// arrives again with the same Idempotency-Key. A reused key with a different
// body is rejected. Without a store or a key, requests pass through.
func Idempotency(store IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil || r.Method != http.MethodPost || !idempotentTools[toolFromPath(r.URL.Path)] {
				next.ServeHTTP(w, r)
				return
			}
			key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), w, logg,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			hash := requestHash(r.Method, r.URL.Path, body)
			cacheKey := redisclient.Key("idempotency", toolFromPath(r.URL.Path), key)

			if data, err := store.Get(r.Context(), cacheKey); err == nil {
				var record idempotencyRecord
				if json.Unmarshal(data, &record) == nil {
					if record.RequestHash != hash {
						responses.WriteError(r.Context(), w, logg, pkgerrors.New(pkgerrors.CodeConflict,
							"idempotency key reused with a different request"))
						return
					}
					w.Header().Set("Content-Type", "application/json")
					w.Header().Set("X-Idempotent-Replay", "true")
					w.WriteHeader(record.Status)
					_, _ = w.Write([]byte(record.Body))
					return
				}
			} else if !errors.Is(err, redisclient.ErrMiss) {
				// A broken idempotency store must not block the call.
				logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "idempotency store read failed")
			}

			recorder := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			// Only successful outcomes are worth replaying.
			if recorder.status < http.StatusInternalServerError {
				record := idempotencyRecord{
					Status:      recorder.status,
					Body:        recorder.body.String(),
					RequestHash: hash,
				}
				if data, merr := json.Marshal(record); merr == nil {
					if err := store.Set(r.Context(), cacheKey, data, idempotencyTTL); err != nil {
						logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "idempotency store write failed")
					}
				}
			}
		})
	}
}

func toolFromPath(path string) string {
	const prefix = "/v1/tools/"
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	return strings.Trim(strings.TrimPrefix(path, prefix), "/")
}

func requestHash(method, path string, body []byte) string {
	sum := sha256.Sum256(append([]byte(method+" "+path+"\n"), body...))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}
