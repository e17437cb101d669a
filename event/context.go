package event

import "context"

type registryContextKey struct{}

// WithRegistry adds a Registry to the context.
func WithRegistry(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, registryContextKey{}, r)
}

// RegistryFromContext extracts the Registry from context.
// Returns nil if none is set.
func RegistryFromContext(ctx context.Context) *Registry {
	if r, ok := ctx.Value(registryContextKey{}).(*Registry); ok {
		return r
	}
	return nil
}

// MustRegistryFromContext extracts the Registry or panics.
func MustRegistryFromContext(ctx context.Context) *Registry {
	r := RegistryFromContext(ctx)
	if r == nil {
		panic("event: Registry not found in context")
	}
	return r
}
