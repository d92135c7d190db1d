package anchain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned when neither the context nor the client carry a key.
	ErrMissingAPIKey = errors.New("no anchain apikey provided")
	// ErrMalformedBody is returned when a successful response is not valid JSON.
	ErrMalformedBody = errors.New("anchain api returned a malformed body")
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("anchain api status %d", e.StatusCode)
	}
	return fmt.Sprintf("anchain api status %d: %s", e.StatusCode, e.Body)
}

type apiKeyCtxKey struct{}

// WithAPIKey returns a context whose calls use key instead of the client default.
// An empty key leaves ctx unchanged.
func WithAPIKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, apiKeyCtxKey{}, key)
}

// APIKeyFromContext returns the key stored by WithAPIKey, if any.
func APIKeyFromContext(ctx context.Context) string {
	k, _ := ctx.Value(apiKeyCtxKey{}).(string)
	return k
}
