package backend

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/bettersale/bettersale-backend/pkg/errors"
	"github.com/bettersale/bettersale-backend/pkg/logger"
	"github.com/bettersale/bettersale-backend/pkg/metrics"
)

// Selector implements the backend selection policy: every logical operation
// first runs against the persistent store and is retried in full against the
// fallback provider when the store reports a connectivity or integrity
// failure. The caller never sees the distinction; it only learns, via the
// degraded flag, that the fallback served the result.
//
// Writes recovered by the fallback are not reconciled back into the
// persistent store once it returns. That is an accepted limitation of the
// degradation design, not an oversight.
type Selector struct {
	primary  Store
	fallback Store
	logg     *logger.Logger
	metrics  *metrics.BackendMetrics
}

// NewSelector wires the two backends behind the fallback policy.
func NewSelector(primary, fallback Store, logg *logger.Logger, m *metrics.BackendMetrics) (*Selector, error) {
	if primary == nil {
		return nil, fmt.Errorf("primary store required")
	}
	if fallback == nil {
		return nil, fmt.Errorf("fallback store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Selector{
		primary:  primary,
		fallback: fallback,
		logg:     logg,
		metrics:  m,
	}, nil
}

// Run executes the logical operation fn against the primary store, retrying
// the whole of it against the fallback when the primary is unavailable or
// does not know the customer. The returned degraded flag reports whether the
// fallback produced the result.
func (s *Selector) Run(ctx context.Context, operation string, fn func(Store) error) (bool, error) {
	err := fn(s.primary)
	if err == nil || !s.recoverable(err) {
		return false, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"operation": operation,
		"backend":   s.primary.Name(),
		"error":     err.Error(),
	})
	s.logg.Warn(logCtx, "store degraded, retrying on fallback")
	s.metrics.IncFallback(operation)

	ferr := fn(s.fallback)
	if pkgerrors.IsDependency(ferr) {
		s.metrics.IncOutage(operation)
		s.logg.Error(logCtx, "fallback also unavailable", ferr)
	}
	return true, ferr
}

// recoverable reports whether the primary's failure should trigger a retry
// against the fallback: backend unavailability always, and an unknown
// customer because the fallback carries seeded demo identities.
func (s *Selector) recoverable(err error) bool {
	return pkgerrors.IsDependency(err) || errors.Is(err, ErrUnknownCustomer)
}

// Primary exposes the persistent store for wiring that bypasses the policy
// (health checks).
func (s *Selector) Primary() Store {
	return s.primary
}
