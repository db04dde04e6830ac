// Package handlers holds the operational endpoints.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bettersale/bettersale-backend/api/responses"
)

// Pinger is the connectivity probe surface of a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Healthz reports process liveness plus the state of each probed
// dependency. A degraded dependency does not fail the check; the fallback
// path keeps the service usable.
func Healthz(db, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		deps := map[string]string{}
		probe := func(name string, p Pinger) {
			if p == nil {
				deps[name] = "disabled"
				return
			}
			if err := p.Ping(ctx); err != nil {
				deps[name] = "unavailable"
				return
			}
			deps[name] = "ok"
		}
		probe("database", db)
		probe("cache", cache)

		responses.WriteJSON(w, http.StatusOK, map[string]any{
			"status":       "ok",
			"dependencies": deps,
		})
	}
}
