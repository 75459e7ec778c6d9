package services

import (
	"context"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type draftEntry struct {
	draft    *ProductDraft
	lastUsed time.Time
}

// DraftRegistry keeps open drafts server-side between edit requests. A draft
// that is not touched for the idle TTL is dropped as if the editor were closed.
type DraftRegistry struct {
	logger *gecho.Logger
	ttl    time.Duration
	now    func() time.Time

	mu     sync.Mutex
	drafts map[uuid.UUID]*draftEntry
}

func NewDraftRegistry(logger *gecho.Logger, ttl time.Duration) *DraftRegistry {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &DraftRegistry{
		logger: logger,
		ttl:    ttl,
		now:    time.Now,
		drafts: make(map[uuid.UUID]*draftEntry),
	}
}

// Open registers draft and returns its handle
func (r *DraftRegistry) Open(draft *ProductDraft) uuid.UUID {
	id := uuid.New()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[id] = &draftEntry{draft: draft, lastUsed: r.now()}
	OpenDrafts.Set(float64(len(r.drafts)))
	return id
}

// Get returns the draft and refreshes its idle timer
func (r *DraftRegistry) Get(id uuid.UUID) (*ProductDraft, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.drafts[id]
	if !ok {
		return nil, false
	}
	if r.now().Sub(entry.lastUsed) > r.ttl {
		delete(r.drafts, id)
		OpenDrafts.Set(float64(len(r.drafts)))
		return nil, false
	}
	entry.lastUsed = r.now()
	return entry.draft, true
}

// Discard drops the draft. Persisted state is untouched.
func (r *DraftRegistry) Discard(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.drafts[id]
	delete(r.drafts, id)
	OpenDrafts.Set(float64(len(r.drafts)))
	return ok
}

func (r *DraftRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drafts)
}

// Sweep drops every expired draft and returns how many were removed
func (r *DraftRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	now := r.now()
	for id, entry := range r.drafts {
		if now.Sub(entry.lastUsed) > r.ttl {
			delete(r.drafts, id)
			removed++
		}
	}
	OpenDrafts.Set(float64(len(r.drafts)))
	return removed
}

// Run sweeps periodically until ctx is cancelled
func (r *DraftRegistry) Run(ctx context.Context) {
	ticker := time.NewTicker(max(r.ttl/4, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug("Expired product drafts discarded", gecho.Field("count", n))
			}
		}
	}
}
