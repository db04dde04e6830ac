// Package validators decodes and validates request payloads.
package validators

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/bettersale/bettersale-backend/pkg/errors"
)

const maxBodyBytes = 1 << 20 // 1 MiB

var validate = validator.New()

// DecodeJSONBody reads, parses, and struct-validates a JSON request body.
func DecodeJSONBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading request body")
	}
	if len(body) == 0 {
		body = []byte("{}")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed JSON body")
	}
	if err := validate.Struct(dst); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request validation failed")
	}
	return nil
}

// ReadRawBody returns the raw JSON payload without binding it to a struct,
// for endpoints that forward arguments verbatim.
func ReadRawBody(r *http.Request) (json.RawMessage, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading request body")
	}
	if len(body) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(body) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "malformed JSON body")
	}
	return body, nil
}
