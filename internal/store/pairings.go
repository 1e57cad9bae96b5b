package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/tonicwater/backend/internal/logger"
	"github.com/tonicwater/backend/internal/types"
)

// PairingStore is the single owner of the gin collection and the tonic link
// table. All operations run under one lock, so collection mutations are
// serialized and the in-memory mirror always matches the persisted snapshot.
type PairingStore struct {
	log       *logger.Logger
	snapshots SnapshotRepo

	mu         sync.Mutex
	loaded     bool
	records    []types.Pairing
	tonicLinks map[string]string
}

func NewPairingStore(snapshots SnapshotRepo, baseLog *logger.Logger) *PairingStore {
	return &PairingStore{
		log:       baseLog.With("store", "PairingStore"),
		snapshots: snapshots,
	}
}

// ensureLoaded hydrates the mirror from storage on first use, seeding the
// defaults when storage is empty. Callers must hold s.mu.
func (s *PairingStore) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	raw, err := s.snapshots.Load(ctx, KeyGins)
	if err != nil {
		return fmt.Errorf("load gins snapshot: %w", err)
	}
	if raw == nil {
		s.records = defaultPairings()
		if err := s.persistLocked(ctx); err != nil {
			return err
		}
		s.log.Info("Seeded default pairings", "count", len(s.records))
	} else {
		var records []types.Pairing
		if err := json.Unmarshal(raw, &records); err != nil {
			return fmt.Errorf("decode gins snapshot: %w", err)
		}
		s.records = records
	}

	rawLinks, err := s.snapshots.Load(ctx, KeyTonicLinks)
	if err != nil {
		return fmt.Errorf("load tonicLinks snapshot: %w", err)
	}
	links := defaultTonicLinks()
	if rawLinks == nil {
		b, err := json.Marshal(links)
		if err != nil {
			return err
		}
		if err := s.snapshots.Save(ctx, KeyTonicLinks, b); err != nil {
			return fmt.Errorf("persist tonicLinks snapshot: %w", err)
		}
	} else {
		if err := json.Unmarshal(rawLinks, &links); err != nil {
			return fmt.Errorf("decode tonicLinks snapshot: %w", err)
		}
	}
	s.tonicLinks = make(map[string]string, len(links))
	for _, l := range links {
		s.tonicLinks[strings.ToLower(l.Tonic)] = l.URL
	}

	s.loaded = true
	return nil
}

// persistLocked rewrites the whole collection snapshot. Callers must hold
// s.mu. Derived fields are never present in s.records, so the snapshot stays
// canonical.
func (s *PairingStore) persistLocked(ctx context.Context) error {
	b, err := json.Marshal(s.records)
	if err != nil {
		return err
	}
	if err := s.snapshots.Save(ctx, KeyGins, b); err != nil {
		return fmt.Errorf("persist gins snapshot: %w", err)
	}
	return nil
}

// amazonLinkFor resolves a tonic to its shop link, falling back to an Amazon
// search URL for tonics missing from the lookup table.
func (s *PairingStore) amazonLinkFor(tonic string) string {
	if link, ok := s.tonicLinks[strings.ToLower(strings.TrimSpace(tonic))]; ok {
		return link
	}
	q := url.QueryEscape(strings.ToLower(strings.TrimSpace(tonic)) + " tonic water")
	return "https://www.amazon.com/s?k=" + q
}

func (s *PairingStore) withLink(p types.Pairing) types.Pairing {
	p.AmazonLink = s.amazonLinkFor(p.Tonic)
	return p
}

// List returns all pairings in insertion order, or only those whose name or
// profile contains the search substring (case-insensitive).
func (s *PairingStore) List(ctx context.Context, search string) ([]types.Pairing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]types.Pairing, 0, len(s.records))
	for _, p := range s.records {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Profile), needle) {
			continue
		}
		out = append(out, s.withLink(p))
	}
	return out, nil
}

// Get returns the pairing with the given name (case-insensitive).
func (s *PairingStore) Get(ctx context.Context, name string) (*types.Pairing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	idx := s.indexOfLocked(name)
	if idx < 0 {
		return nil, ErrNotFound
	}
	p := s.withLink(s.records[idx])
	return &p, nil
}

// Create appends a new pairing and persists the collection. Returns
// ErrConflict when the name collides case-insensitively.
func (s *PairingStore) Create(ctx context.Context, p types.Pairing) (*types.Pairing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if s.indexOfLocked(p.Name) >= 0 {
		return nil, ErrConflict
	}
	p.AmazonLink = ""
	s.records = append(s.records, p)
	if err := s.persistLocked(ctx); err != nil {
		s.records = s.records[:len(s.records)-1]
		return nil, err
	}
	out := s.withLink(p)
	return &out, nil
}

// Update shallow-merges the provided fields into an existing pairing and
// persists the whole collection.
func (s *PairingStore) Update(ctx context.Context, name string, upd types.PairingUpdate) (*types.Pairing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	idx := s.indexOfLocked(name)
	if idx < 0 {
		return nil, ErrNotFound
	}

	prev := s.records[idx]
	next := prev
	if upd.Profile != nil {
		next.Profile = *upd.Profile
	}
	if upd.Tonic != nil {
		next.Tonic = *upd.Tonic
	}
	if upd.Garnish != nil {
		next.Garnish = *upd.Garnish
	}
	if upd.Why != nil {
		next.Why = *upd.Why
	}
	s.records[idx] = next
	if err := s.persistLocked(ctx); err != nil {
		s.records[idx] = prev
		return nil, err
	}
	out := s.withLink(next)
	return &out, nil
}

// Delete removes a pairing by name and persists the collection.
func (s *PairingStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	idx := s.indexOfLocked(name)
	if idx < 0 {
		return ErrNotFound
	}
	prev := s.records
	s.records = append(append([]types.Pairing{}, s.records[:idx]...), s.records[idx+1:]...)
	if err := s.persistLocked(ctx); err != nil {
		s.records = prev
		return err
	}
	return nil
}

func (s *PairingStore) indexOfLocked(name string) int {
	needle := strings.ToLower(strings.TrimSpace(name))
	for i, p := range s.records {
		if strings.ToLower(p.Name) == needle {
			return i
		}
	}
	return -1
}
