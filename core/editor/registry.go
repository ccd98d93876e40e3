package editor

import (
	"context"
	"sync"

	"github.com/trezcool/shule/core"
)

// Registry holds the open editing sessions, at most one per page.
type Registry struct {
	store PageStore
	cat   Catalog
	log   core.Logger

	mu       sync.RWMutex
	sessions map[string]*Session // by session id
	byPage   map[string]string   // page id -> session id
}

func NewRegistry(store PageStore, cat Catalog, logger core.Logger) *Registry {
	if logger == nil {
		logger = core.NewDiscardLogger()
	}
	return &Registry{
		store:    store,
		cat:      cat,
		log:      logger,
		sessions: make(map[string]*Session),
		byPage:   make(map[string]string),
	}
}

// Open starts a session on pageID. A session already open on the page is discarded,
// but only once the new one has loaded.
func (r *Registry) Open(ctx context.Context, pageID string) (*Session, error) {
	sess := NewSession(pageID, r.store, r.cat, r.log)
	if err := sess.Open(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.byPage[pageID]; ok {
		delete(r.sessions, prev)
		r.log.Info("editor session replaced", map[string]interface{}{"page": pageID, "session": prev})
	}
	r.sessions[sess.ID()] = sess
	r.byPage[pageID] = sess.ID()
	return sess, nil
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Close discards session id.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	if r.byPage[sess.PageID()] == id {
		delete(r.byPage, sess.PageID())
	}
	return nil
}

// ClosePage discards the session open on pageID, if any.
func (r *Registry) ClosePage(pageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byPage[pageID]; ok {
		delete(r.sessions, id)
		delete(r.byPage, pageID)
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
