package content

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"sync"
)

// Store is one persisted namespace.
//
// All methods are safe for concurrent use. Two Stores over the same
// backend and namespace do not coordinate; the last write wins.
type Store struct {
	mu       sync.Mutex
	backend  Backend
	ns       Namespace
	entries  map[string]string
	dirty    bool
	// replaced marks dirty state from Save or Reset: the persisted
	// mapping is stale as a whole and must not be merged back.
	replaced bool
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for fail-soft load diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a Store for ns over backend. The store starts empty;
// call Load to read the persisted mapping.
func NewStore(backend Backend, ns Namespace, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		ns:      ns,
		entries: make(map[string]string),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Namespace returns the namespace this store persists under.
func (s *Store) Namespace() Namespace {
	return s.ns
}

// Load reads the persisted mapping and returns a copy of it.
//
// Load never fails. A missing value, a read error, or a payload that does
// not decode all produce an empty mapping. If the store holds changes that
// could not be persisted yet, they are kept on top of what was read and a
// write is attempted again. After a failed Save or Reset the persisted
// mapping is ignored and the in-memory one is written instead.
func (s *Store) Load(ctx context.Context) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded := s.read(ctx)
	if s.dirty {
		if !s.replaced {
			maps.Copy(loaded, s.entries)
			s.entries = loaded
		}
		if err := s.persistLocked(ctx, "load"); err != nil {
			s.logger.Warn("pending changes still not persisted", "namespace", s.ns, "error", err)
		}
	} else {
		s.entries = loaded
	}
	return maps.Clone(s.entries)
}

func (s *Store) read(ctx context.Context) map[string]string {
	raw, ok, err := s.backend.GetItem(ctx, string(s.ns))
	if err != nil {
		s.logger.Warn("content load failed, using defaults", "namespace", s.ns, "error", err)
		return map[string]string{}
	}
	if !ok {
		return map[string]string{}
	}
	env, err := UnmarshalEnvelope([]byte(raw))
	if err != nil {
		s.logger.Warn("discarding unreadable content payload", "namespace", s.ns, "error", err)
		return map[string]string{}
	}
	if env.Version < FormatVersion {
		s.logger.Debug("legacy content payload, will migrate on next save", "namespace", s.ns, "entries", len(env.Entries))
	}
	return env.Entries
}

// Save replaces the whole mapping and persists it.
//
// On a backend failure the in-memory mapping is still replaced and a
// *PersistError is returned.
func (s *Store) Save(ctx context.Context, mapping map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]string, len(mapping))
	for k, v := range mapping {
		if k == "" {
			return ErrEmptyID
		}
		next[Normalize(k)] = Normalize(v)
	}
	s.entries = next
	s.replaced = true
	return s.persistLocked(ctx, "save")
}

// Set writes a single entry and persists the whole mapping.
// Setting an existing id overwrites it.
func (s *Store) Set(ctx context.Context, id, text string) error {
	if id == "" {
		return ErrEmptyID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[Normalize(id)] = Normalize(text)
	return s.persistLocked(ctx, "set")
}

// Get returns the text stored for id.
func (s *Store) Get(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[Normalize(id)]
	return v, ok
}

// All returns a copy of the in-memory mapping.
func (s *Store) All() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.entries)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Dirty reports whether the in-memory mapping has changes the backend
// has not accepted yet.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Flush persists pending changes. It is a no-op when the store is clean.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	return s.persistLocked(ctx, "flush")
}

// Reset clears the namespace both in memory and in the backend.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]string)
	if err := s.backend.RemoveItem(ctx, string(s.ns)); err != nil {
		s.dirty = true
		s.replaced = true
		return &PersistError{Namespace: s.ns, Op: "reset", Err: err}
	}
	s.dirty = false
	s.replaced = false
	return nil
}

func (s *Store) persistLocked(ctx context.Context, op string) error {
	payload := MarshalEnvelope(s.entries)
	if err := s.backend.SetItem(ctx, string(s.ns), string(payload)); err != nil {
		s.dirty = true
		return &PersistError{Namespace: s.ns, Op: op, Err: err}
	}
	s.dirty = false
	s.replaced = false
	return nil
}
