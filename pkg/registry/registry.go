package registry

// Registry maps validator names to functions of type F.
// Lookups of unregistered names report absence rather than an error: type
// maps may reference validators that are optional at runtime.
//
// A Registry is immutable once built, so it is safe for concurrent lookups.
type Registry[F any] struct {
	entries map[string]F
}

// New creates an empty registry.
func New[F any]() *Registry[F] {
	return &Registry[F]{}
}

// From creates a registry holding a copy of m.
func From[F any](m map[string]F) *Registry[F] {
	entries := make(map[string]F, len(m))
	for name, fn := range m {
		entries[name] = fn
	}
	return &Registry[F]{entries: entries}
}

// Lookup returns the function registered under name.
func (r *Registry[F]) Lookup(name string) (F, bool) {
	if r == nil {
		var zero F
		return zero, false
	}
	fn, ok := r.entries[name]
	return fn, ok
}
