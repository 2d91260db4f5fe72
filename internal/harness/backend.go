package harness

import (
	"context"
	"errors"
	"sync"

	"github.com/roach88/atelier/internal/content"
)

// errQuota is what failing writes report, modelled on a full browser
// storage quota.
var errQuota = errors.New("storage quota exceeded")

// faultBackend wraps a backend and can refuse writes on demand.
type faultBackend struct {
	content.Backend

	mu   sync.Mutex
	fail bool
}

func (b *faultBackend) setFailing(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail = fail
}

func (b *faultBackend) failing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fail
}

func (b *faultBackend) SetItem(ctx context.Context, key, value string) error {
	if b.failing() {
		return errQuota
	}
	return b.Backend.SetItem(ctx, key, value)
}

func (b *faultBackend) RemoveItem(ctx context.Context, key string) error {
	if b.failing() {
		return errQuota
	}
	return b.Backend.RemoveItem(ctx, key)
}
