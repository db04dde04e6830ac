package middleware

import (
	"fmt"
	"net/http"

	"github.com/bettersale/bettersale-backend/api/responses"
	pkgerrors "github.com/bettersale/bettersale-backend/pkg/errors"
	"github.com/bettersale/bettersale-backend/pkg/logger"
)

// Recoverer converts handler panics into INTERNAL_ERROR responses.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := pkgerrors.Wrap(pkgerrors.CodeInternal,
						fmt.Errorf("panic: %v", rec), "unexpected failure")
					responses.WriteError(r.Context(), w, logg, err)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
