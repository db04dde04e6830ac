// Package controllers binds HTTP routes to the service layer.
package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bettersale/bettersale-backend/api/responses"
	"github.com/bettersale/bettersale-backend/api/validators"
	"github.com/bettersale/bettersale-backend/internal/tools"
	"github.com/bettersale/bettersale-backend/pkg/logger"
)

// ToolsController exposes the tool registry over HTTP. The conversational
// agent loop is its only caller.
type ToolsController struct {
	registry *tools.Registry
	logg     *logger.Logger
}

// NewToolsController wires the controller.
func NewToolsController(registry *tools.Registry, logg *logger.Logger) *ToolsController {
	return &ToolsController{registry: registry, logg: logg}
}

// List responds with the registered tool names.
func (c *ToolsController) List(w http.ResponseWriter, r *http.Request) {
	responses.WriteJSON(w, http.StatusOK, map[string]any{"tools": c.registry.Names()})
}

// Invoke runs one tool with the JSON body as its arguments.
func (c *ToolsController) Invoke(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "tool")

	args, err := validators.ReadRawBody(r)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	result, err := c.registry.Invoke(r.Context(), name, args)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteJSON(w, http.StatusOK, result)
}
