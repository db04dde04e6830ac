// Package tools is the invocation surface the conversational agent calls.
// Each tool takes raw JSON arguments and returns a structured result; the
// registry is the only place tool names are bound to behavior.
package tools

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	pkgerrors "github.com/bettersale/bettersale-backend/pkg/errors"
	"github.com/bettersale/bettersale-backend/pkg/logger"
)

// Handler executes one tool invocation.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Registry maps tool names to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logg     *logger.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(logg *logger.Logger) *Registry {
	return &Registry{
		handlers: map[string]Handler{},
		logg:     logg,
	}
}

// Register binds a tool name to its handler. Re-registering a name replaces
// the previous handler.
func (r *Registry) Register(name string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = handler
}

// Names lists the registered tools, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named tool. An unregistered name is NOT_FOUND.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	r.mu.RLock()
	handler, ok := r.handlers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unknown tool "+name)
	}

	logCtx := r.logg.WithTool(ctx, name)
	result, err := handler(logCtx, args)
	if err != nil {
		return nil, err
	}
	r.logg.Info(logCtx, "tool invocation completed")
	return result, nil
}
