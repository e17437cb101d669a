package gems

import "context"

// MockSource is a mock implementation of Source for testing.
type MockSource struct {
	VersionsFunc func(ctx context.Context, name string) ([]string, error)
}

// Versions implements Source.
func (m *MockSource) Versions(ctx context.Context, name string) ([]string, error) {
	if m.VersionsFunc != nil {
		return m.VersionsFunc(ctx, name)
	}
	return nil, ErrNotFound
}

// StaticSource serves fixed version lists; unknown names are ErrNotFound.
type StaticSource map[string][]string

// Versions implements Source.
func (s StaticSource) Versions(_ context.Context, name string) ([]string, error) {
	versions, ok := s[name]
	if !ok {
		return nil, ErrNotFound
	}
	return versions, nil
}
