package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"anchain-mcp/internal/anchain"
)

// ErrUnknownTool is returned when an invocation names no registered tool.
var ErrUnknownTool = errors.New("unknown tool")

// Doer sends one API request. *anchain.Client implements it.
type Doer interface {
	Do(ctx context.Context, r anchain.Request) (json.RawMessage, error)
}

// Registry maps tool names to their specs and dispatches invocations.
// It is immutable after construction and safe for concurrent use.
type Registry struct {
	client  Doer
	timeout time.Duration
	specs   []Spec
	byName  map[string]*Spec
}

// NewRegistry builds a registry over specs. timeout applies to tools that do not
// declare their own; zero means no deadline beyond the caller's context.
func NewRegistry(client Doer, timeout time.Duration, specs []Spec) (*Registry, error) {
	r := &Registry{
		client:  client,
		timeout: timeout,
		specs:   make([]Spec, len(specs)),
		byName:  make(map[string]*Spec, len(specs)),
	}
	copy(r.specs, specs)
	for i := range r.specs {
		s := &r.specs[i]
		if s.Name == "" || s.Path == "" {
			return nil, fmt.Errorf("tool %d: name and path are required", i)
		}
		if _, dup := r.byName[s.Name]; dup {
			return nil, fmt.Errorf("tool %q registered twice", s.Name)
		}
		r.byName[s.Name] = s
	}
	return r, nil
}

// Specs returns the registered tools in registration order.
func (r *Registry) Specs() []Spec {
	out := make([]Spec, len(r.specs))
	copy(out, r.specs)
	return out
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (*Spec, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// Invoke validates args for the named tool and sends exactly one API request.
// Invalid arguments return a *ValidationError without contacting the API.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (json.RawMessage, error) {
	spec, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	valid, err := spec.Validate(args)
	if err != nil {
		return nil, err
	}

	timeout := spec.Timeout
	if timeout == 0 {
		timeout = r.timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return r.client.Do(ctx, spec.Request(valid))
}
