package model

import (
	"context"
	"path/filepath"
)

// Library resolves keys to models. Bracketed keys name built-in samples;
// any other key is a path to a saved model file, relative to BaseDir.
type Library struct {
	BaseDir string
}

// NewLibrary returns a Library resolving relative file keys against baseDir.
func NewLibrary(baseDir string) *Library { return &Library{BaseDir: baseDir} }

// Load builds a fresh model for key. Nothing is cached between calls.
func (l *Library) Load(ctx context.Context, key string) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, ErrNotFound(key)
	}
	if IsSampleKey(key) {
		return Sample(key)
	}
	path := key
	if !filepath.IsAbs(path) && l.BaseDir != "" {
		path = filepath.Join(l.BaseDir, path)
	}
	return ReadFile(path)
}
