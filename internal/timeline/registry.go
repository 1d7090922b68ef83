package timeline

import (
	"context"
	"errors"
	"fmt"
)

type registration struct {
	name   string
	source Source
}

// Registry combines the event sources a host shows in one timeline.
//
// Sources registered with RegisterNative stand for the host's own
// changeset provider. When the registry is built with suppressNative they
// are left out entirely, so the git source is the only provider of
// changesets; nothing else about the native source is altered.
type Registry struct {
	sources        []registration
	suppressNative bool
}

// NewRegistry returns an empty Registry.
func NewRegistry(suppressNative bool) *Registry {
	return &Registry{suppressNative: suppressNative}
}

// Register adds a source.
func (r *Registry) Register(name string, source Source) {
	r.sources = append(r.sources, registration{name: name, source: source})
}

// RegisterNative adds the host's native changeset source. It is skipped
// when native changesets are suppressed.
func (r *Registry) RegisterNative(name string, source Source) {
	if r.suppressNative {
		return
	}
	r.sources = append(r.sources, registration{name: name, source: source})
}

// Names lists the active sources in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for _, reg := range r.sources {
		names = append(names, reg.name)
	}
	return names
}

// Events queries every source in order and chains their streams. A source
// that fails is left out; the failures are joined into the returned error,
// which callers log while still rendering the stream.
func (r *Registry) Events(ctx context.Context, q Query) (*Stream, error) {
	streams := make([]*Stream, 0, len(r.sources))
	var errs []error
	for _, reg := range r.sources {
		stream, err := reg.source.Events(ctx, q)
		if err != nil {
			errs = append(errs, fmt.Errorf("source %s: %w", reg.name, err))
			continue
		}
		streams = append(streams, stream)
	}
	return concat(streams), errors.Join(errs...)
}
