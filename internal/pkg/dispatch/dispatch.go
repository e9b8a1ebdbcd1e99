package dispatch

import (
	"context"
	"errors"
)

// ErrUnknownProduct is returned when no handler is registered for a
// product id.
var ErrUnknownProduct = errors.New("dispatch: unknown product")

// Params carries the caller-supplied execution parameters. Contents are
// handler-specific and never inspected by the engine.
type Params map[string]interface{}

// Handler executes one product. Results are opaque to the caller.
type Handler func(ctx context.Context, params Params) (interface{}, error)

var registry = map[string]Handler{}

// Register binds a handler to a product id. Called from init; later
// registrations for the same id overwrite earlier ones.
func Register(productID string, handler Handler) {
	registry[productID] = handler
}

// Execute runs the handler registered for productID.
func Execute(ctx context.Context, productID string, params Params) (interface{}, error) {
	handler, ok := registry[productID]
	if !ok {
		return nil, ErrUnknownProduct
	}
	return handler(ctx, params)
}

// Registered reports whether a handler exists for productID.
func Registered(productID string) bool {
	_, ok := registry[productID]
	return ok
}

func stringParam(params Params, key, def string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return def
}

func intParam(params Params, key string, def int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

// placeholder registers a stub handler that only acknowledges execution.
func placeholder(productID, message string) {
	Register(productID, func(ctx context.Context, params Params) (interface{}, error) {
		return map[string]interface{}{
			"message": message,
			"data":    []interface{}{},
		}, nil
	})
}
