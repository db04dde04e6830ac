// Package responses renders the JSON envelopes every handler uses.
package responses

import (
	"context"
	"encoding/json"
	"net/http"

	pkgerrors "github.com/bettersale/bettersale-backend/pkg/errors"
	"github.com/bettersale/bettersale-backend/pkg/logger"
	"github.com/bettersale/bettersale-backend/pkg/types"
)

// WriteJSON renders data inside the success envelope.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.SuccessEnvelope{Data: data})
}

// WriteError maps an error to its taxonomy metadata and renders the error
// envelope. Internal detail stays in the logs; the wire only carries what
// the code's metadata allows.
func WriteError(ctx context.Context, w http.ResponseWriter, logg *logger.Logger, err error) {
	typed := pkgerrors.As(err)
	code := pkgerrors.CodeOf(err)
	meta := pkgerrors.MetadataFor(code)

	message := meta.PublicMessage
	var details any
	if typed != nil && meta.DetailsAllowed {
		if typed.Message() != "" {
			message = typed.Message()
		}
		details = typed.Details()
	}

	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"error_code": string(code),
			"dump":       pkgerrors.Dump(err),
		})
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(logCtx, "request failed", err)
		} else {
			logg.Warn(logCtx, "request rejected")
		}
	}

	if meta.Retryable {
		w.Header().Set("Retry-After", "5")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(meta.HTTPStatus)
	_ = json.NewEncoder(w).Encode(types.ErrorEnvelope{Error: types.APIError{
		Code:    string(code),
		Message: message,
		Details: details,
	}})
}
