package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/bettersale/bettersale-backend/pkg/db/models"
	pkgerrors "github.com/bettersale/bettersale-backend/pkg/errors"
	"github.com/bettersale/bettersale-backend/pkg/logger"
	redisclient "github.com/bettersale/bettersale-backend/pkg/redis"
)

// negativeEntry marks a cached not-found so repeated lookups for a missing
// product do not hammer the store.
var negativeEntry = []byte("!")

const negativeTTLDivisor = 5

// KV is the cache surface the reader needs; satisfied by the Redis client.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CachedReader is a read-through decorator over another Reader. Cache
// failures are logged and treated as misses; the inner reader always
// remains the source of truth.
type CachedReader struct {
	inner Reader
	kv    KV
	ttl   time.Duration
	logg  *logger.Logger
}

var _ Reader = (*CachedReader)(nil)

// NewCachedReader wraps inner with a Redis-backed read-through layer.
func NewCachedReader(inner Reader, kv KV, ttl time.Duration, logg *logger.Logger) *CachedReader {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedReader{inner: inner, kv: kv, ttl: ttl, logg: logg}
}

func (r *CachedReader) Product(ctx context.Context, productID string) (*models.Product, error) {
	key := redisclient.Key("catalog", "product", productID)

	if data, err := r.kv.Get(ctx, key); err == nil {
		if bytes.Equal(data, negativeEntry) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product "+productID+" not found")
		}
		var product models.Product
		if err := json.Unmarshal(data, &product); err == nil {
			return &product, nil
		}
	} else if !errors.Is(err, redisclient.ErrMiss) {
		r.warn(ctx, "catalog cache read failed", err)
	}

	product, err := r.inner.Product(ctx, productID)
	if err != nil {
		if pkgerrors.CodeOf(err) == pkgerrors.CodeNotFound {
			r.store(ctx, key, negativeEntry, r.ttl/negativeTTLDivisor)
		}
		return nil, err
	}

	if data, merr := json.Marshal(product); merr == nil {
		r.store(ctx, key, data, r.ttl)
	}
	return product, nil
}

func (r *CachedReader) BySport(ctx context.Context, sport string) ([]models.Product, error) {
	key := redisclient.Key("catalog", "sport", strings.ToLower(sport))

	if data, err := r.kv.Get(ctx, key); err == nil {
		var products []models.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
	} else if !errors.Is(err, redisclient.ErrMiss) {
		r.warn(ctx, "catalog cache read failed", err)
	}

	products, err := r.inner.BySport(ctx, sport)
	if err != nil {
		return nil, err
	}

	if data, merr := json.Marshal(products); merr == nil {
		r.store(ctx, key, data, r.ttl)
	}
	return products, nil
}

func (r *CachedReader) store(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.kv.Set(ctx, key, value, ttl); err != nil {
		r.warn(ctx, "catalog cache write failed", err)
	}
}

func (r *CachedReader) warn(ctx context.Context, msg string, err error) {
	if r.logg == nil {
		return
	}
	r.logg.Warn(r.logg.WithField(ctx, "error", err.Error()), msg)
}
