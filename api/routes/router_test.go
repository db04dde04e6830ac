package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bettersale/bettersale-backend/internal/backend"
	"github.com/bettersale/bettersale-backend/internal/backend/memstore"
	"github.com/bettersale/bettersale-backend/internal/catalog"
	"github.com/bettersale/bettersale-backend/internal/customers"
	"github.com/bettersale/bettersale-backend/internal/engine"
	"github.com/bettersale/bettersale-backend/internal/products"
	"github.com/bettersale/bettersale-backend/internal/scheduling"
	"github.com/bettersale/bettersale-backend/internal/tools"
	"github.com/bettersale/bettersale-backend/pkg/config"
	"github.com/bettersale/bettersale-backend/pkg/logger"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{
		ServiceName: "routes-test",
		Level:       zerolog.ErrorLevel,
		Output:      &bytes.Buffer{},
	})
	sel, err := backend.NewSelector(memstore.New(), memstore.NewEmpty(), logg, nil)
	require.NoError(t, err)

	reader := catalog.NewStoreReader(sel)
	registry := tools.NewCatalog(tools.Services{
		Engine: engine.New(sel, reader, logg),
		Scheduling: scheduling.New(sel, config.SchedulingConfig{
			WindowOpen:         "09:00",
			WindowClose:        "18:00",
			LessonSlotMinutes:  60,
			TuneUpSlotMinutes:  120,
			DefaultSlotMinutes: 60,
		}, logg),
		Products:  products.New(reader, sel, logg),
		Customers: customers.New(sel, logg),
	}, logg)

	return New(Deps{Registry: registry, Logger: logg})
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Data struct {
			Status       string            `json:"status"`
			Dependencies map[string]string `json:"dependencies"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "ok", payload.Data.Status)
	assert.Equal(t, "disabled", payload.Data.Dependencies["database"])
}

func TestListTools(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tools/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "access_cart_information")
	assert.Contains(t, rec.Body.String(), "place_order")
}

func TestInvokeTool(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/tools/access_cart_information",
		strings.NewReader(`{"customer_id":"123"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Data struct {
			Items    []map[string]any `json:"items"`
			Subtotal string           `json:"subtotal"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Len(t, payload.Data.Items, 2)
	assert.Equal(t, "155.75", payload.Data.Subtotal)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestInvokeUnknownToolIs404(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/tools/not_a_tool",
		strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestInvokeEmptyCartIs422(t *testing.T) {
	router := newTestRouter(t)

	place := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/tools/place_order",
			strings.NewReader(`{"customer_id":"123"}`)))
		return rec
	}

	require.Equal(t, http.StatusOK, place().Code)

	rec := place()
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMPTY_CART")
}

func TestInvokeMalformedBodyIs400(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/tools/modify_cart",
		strings.NewReader(`{"customer_id":`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}
