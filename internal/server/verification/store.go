package verification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
)

// Table is the logical table name used by DocStore.
const Table = "verification-codes"

// saveAttempts bounds the read-then-write retries of DocStore.Save.
const saveAttempts = 5

// Entry is the live verification state of one identity.
type Entry struct {
	Identity  string
	AccountID string
	Code      string
	ExpiresAt time.Time
	Verified  bool
}

// issuedAs reports whether e is the entry created by the Issue that produced
// code with the given expiry.
func (e Entry) issuedAs(code string, expiresAt time.Time) bool {
	return e.Code == code && e.ExpiresAt.Equal(expiresAt)
}

// Store keeps at most one entry per identity.
//
// MarkVerified and Claim are compare-and-set: they only act on the entry
// still carrying code and expiresAt, so a concurrent Issue wins over them.
type Store interface {
	Load(ctx context.Context, identity string) (Entry, bool, error)
	// Save overwrites whatever is stored for entry.Identity.
	Save(ctx context.Context, entry Entry) error
	// MarkVerified flags the entry as verified; false means it was replaced or removed.
	MarkVerified(ctx context.Context, identity, code string, expiresAt time.Time) (bool, error)
	// Claim removes a verified entry; false means there was none to take.
	Claim(ctx context.Context, identity, code string, expiresAt time.Time) (bool, error)
	Remove(ctx context.Context, identity string) error
}

// MemoryStore keeps entries in process memory; they do not survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Load(_ context.Context, identity string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[identity]
	return e, ok, nil
}

func (s *MemoryStore) Save(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Identity] = entry
	return nil
}

func (s *MemoryStore) MarkVerified(_ context.Context, identity, code string, expiresAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[identity]
	if !ok || !e.issuedAs(code, expiresAt) {
		return false, nil
	}
	e.Verified = true
	s.entries[identity] = e
	return true, nil
}

func (s *MemoryStore) Claim(_ context.Context, identity, code string, expiresAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[identity]
	if !ok || !e.Verified || !e.issuedAs(code, expiresAt) {
		return false, nil
	}
	delete(s.entries, identity)
	return true, nil
}

func (s *MemoryStore) Remove(_ context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, identity)
	return nil
}

// DocStore persists entries in a document-store table keyed by identity.
// Every write is a versioned Put, so a stale read never overwrites a newer
// entry. A claimed entry is first replaced by a consumed marker and then
// deleted; Load treats the marker as absent.
type DocStore struct {
	store docstore.Store
	table string
}

func NewDocStore(store docstore.Store, table string) *DocStore {
	return &DocStore{store: store, table: table}
}

type entryRecord struct {
	ID        string `json:"id"`
	AccountID string `json:"accountId"`
	Code      string `json:"code"`
	ExpiresAt string `json:"expiresAt"`
	Verified  bool   `json:"verified"`
	Consumed  bool   `json:"consumed,omitempty"`
	Version   int64  `json:"version"`
}

// load returns the stored entry and its version. A consumed marker is
// reported as absent but keeps its version for the next write.
func (s *DocStore) load(ctx context.Context, identity string) (Entry, int64, bool, error) {
	rec, ok, err := s.store.Get(ctx, s.table, identity)
	if err != nil || !ok {
		return Entry{}, 0, false, err
	}

	var r entryRecord
	if err := docstore.Decode(rec, &r); err != nil {
		return Entry{}, 0, false, fmt.Errorf("verification entry %q: %w", identity, err)
	}
	if r.Consumed {
		return Entry{}, r.Version, false, nil
	}
	expires, err := docstore.ParseTime(r.ExpiresAt)
	if err != nil {
		return Entry{}, 0, false, fmt.Errorf("verification entry %q: expiresAt: %w", identity, err)
	}
	return Entry{
		Identity:  r.ID,
		AccountID: r.AccountID,
		Code:      r.Code,
		ExpiresAt: expires,
		Verified:  r.Verified,
	}, r.Version, true, nil
}

// put writes entry if the stored version still equals version.
func (s *DocStore) put(ctx context.Context, entry Entry, version int64, consumed bool) error {
	rec, err := docstore.Encode(entryRecord{
		ID:        entry.Identity,
		AccountID: entry.AccountID,
		Code:      entry.Code,
		ExpiresAt: docstore.FormatTime(entry.ExpiresAt),
		Verified:  entry.Verified,
		Consumed:  consumed,
		Version:   version,
	})
	if err != nil {
		return err
	}
	_, err = s.store.Put(ctx, s.table, rec)
	return err
}

func (s *DocStore) Load(ctx context.Context, identity string) (Entry, bool, error) {
	e, _, ok, err := s.load(ctx, identity)
	return e, ok, err
}

func (s *DocStore) Save(ctx context.Context, entry Entry) error {
	return docstore.RetryOnConflict(ctx, saveAttempts, func(ctx context.Context) error {
		_, version, _, err := s.load(ctx, entry.Identity)
		if err != nil {
			return err
		}
		return s.put(ctx, entry, version, false)
	})
}

func (s *DocStore) MarkVerified(ctx context.Context, identity, code string, expiresAt time.Time) (bool, error) {
	e, version, ok, err := s.load(ctx, identity)
	if err != nil || !ok || !e.issuedAs(code, expiresAt) {
		return false, err
	}
	e.Verified = true
	return s.swap(ctx, e, version, false)
}

func (s *DocStore) Claim(ctx context.Context, identity, code string, expiresAt time.Time) (bool, error) {
	e, version, ok, err := s.load(ctx, identity)
	if err != nil || !ok || !e.Verified || !e.issuedAs(code, expiresAt) {
		return false, err
	}
	claimed, err := s.swap(ctx, e, version, true)
	if err != nil || !claimed {
		return claimed, err
	}
	// The marker already hides the entry from Load.
	_ = s.Remove(ctx, identity)
	return true, nil
}

func (s *DocStore) swap(ctx context.Context, e Entry, version int64, consumed bool) (bool, error) {
	err := s.put(ctx, e, version, consumed)
	if errors.Is(err, docstore.ErrConflict) {
		return false, nil
	}
	return err == nil, err
}

func (s *DocStore) Remove(ctx context.Context, identity string) error {
	err := s.store.Delete(ctx, s.table, identity)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil
	}
	return err
}
