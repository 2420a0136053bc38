package harness

import (
	"context"
	"os"
	"sync"

	"modelcheck/internal/model"
)

type fakeHandle struct {
	size    int
	saveErr error
	panics  bool
}

func (h fakeHandle) Size() int {
	if h.panics {
		panic("size exploded")
	}
	return h.size
}

func (h fakeHandle) Save(path string) error {
	if h.saveErr != nil {
		return h.saveErr
	}
	if err := os.WriteFile(path, []byte("saved"), 0o644); err != nil {
		return model.ErrIO(path, err)
	}
	return nil
}

// fakeProvider serves fixed handles and records every load.
type fakeProvider struct {
	mu      sync.Mutex
	handles map[string]fakeHandle
	loads   []string
}

func newFakeProvider(handles map[string]fakeHandle) *fakeProvider {
	return &fakeProvider{handles: handles}
}

func (p *fakeProvider) Load(ctx context.Context, key string) (Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loads = append(p.loads, key)
	h, ok := p.handles[key]
	if !ok {
		return nil, model.ErrNotFound(key)
	}
	return h, nil
}

func (p *fakeProvider) Loads() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.loads...)
}
