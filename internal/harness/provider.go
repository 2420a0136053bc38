package harness

import (
	"context"

	"modelcheck/internal/model"
)

// Handle is a loaded model as seen by the harness.
type Handle interface {
	// Size returns the provider-defined size metric.
	Size() int
	// Save persists the model to path, overwriting any existing file.
	Save(path string) error
}

// Provider resolves a registry key to a model. Each call must return a fresh
// handle; the runner never caches one across steps.
type Provider interface {
	Load(ctx context.Context, key string) (Handle, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, key string) (Handle, error)

func (f ProviderFunc) Load(ctx context.Context, key string) (Handle, error) { return f(ctx, key) }

// FromLibrary adapts a model.Library to Provider.
func FromLibrary(lib *model.Library) Provider {
	return ProviderFunc(func(ctx context.Context, key string) (Handle, error) {
		m, err := lib.Load(ctx, key)
		if err != nil {
			return nil, err
		}
		return m, nil
	})
}
