package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tonicwater/backend/internal/logger"
	"github.com/tonicwater/backend/internal/types"
)

// ArticleStore owns the article collection. Articles are only created by the
// generation pipeline; the admin surface toggles status or deletes.
type ArticleStore struct {
	log       *logger.Logger
	snapshots SnapshotRepo

	mu       sync.Mutex
	loaded   bool
	articles []types.Article
}

func NewArticleStore(snapshots SnapshotRepo, baseLog *logger.Logger) *ArticleStore {
	return &ArticleStore{
		log:       baseLog.With("store", "ArticleStore"),
		snapshots: snapshots,
	}
}

func (s *ArticleStore) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	raw, err := s.snapshots.Load(ctx, KeyArticles)
	if err != nil {
		return fmt.Errorf("load articles snapshot: %w", err)
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &s.articles); err != nil {
			return fmt.Errorf("decode articles snapshot: %w", err)
		}
	}
	s.loaded = true
	return nil
}

func (s *ArticleStore) persistLocked(ctx context.Context) error {
	b, err := json.Marshal(s.articles)
	if err != nil {
		return err
	}
	if string(b) == "null" {
		b = []byte("[]")
	}
	if err := s.snapshots.Save(ctx, KeyArticles, b); err != nil {
		return fmt.Errorf("persist articles snapshot: %w", err)
	}
	return nil
}

// List returns articles newest-created-first, optionally filtered by status.
// An empty status returns everything.
func (s *ArticleStore) List(ctx context.Context, status string) ([]types.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	out := make([]types.Article, 0, len(s.articles))
	for _, a := range s.articles {
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Get looks up an article by id first, then by slug. Slugs are not unique;
// the newest match wins.
func (s *ArticleStore) Get(ctx context.Context, idOrSlug string) (*types.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	for i := range s.articles {
		if s.articles[i].ID == idOrSlug {
			a := s.articles[i]
			return &a, nil
		}
	}
	var found *types.Article
	for i := range s.articles {
		a := s.articles[i]
		if !strings.EqualFold(a.Slug, idOrSlug) {
			continue
		}
		if found == nil || a.CreatedAt.After(found.CreatedAt) {
			found = &a
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	out := *found
	return &out, nil
}

// Insert adds a new article and persists the collection.
func (s *ArticleStore) Insert(ctx context.Context, a types.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	prev := s.articles
	s.articles = append(s.articles, a)
	if err := s.persistLocked(ctx); err != nil {
		s.articles = prev
		return err
	}
	return nil
}

// SetStatus toggles an article between draft and published, stamping
// publishedAt on its first publish.
func (s *ArticleStore) SetStatus(ctx context.Context, id string, status string) (*types.Article, error) {
	if status != types.ArticleStatusDraft && status != types.ArticleStatusPublished {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	idx := s.indexOfLocked(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	prev := s.articles[idx]
	next := prev
	next.Status = status
	if status == types.ArticleStatusPublished && next.PublishedAt == nil {
		now := time.Now()
		next.PublishedAt = &now
	}
	s.articles[idx] = next
	if err := s.persistLocked(ctx); err != nil {
		s.articles[idx] = prev
		return nil, err
	}
	out := next
	return &out, nil
}

// Delete removes an article by id and persists the collection.
func (s *ArticleStore) Delete(ctx context.Context, id string) (*types.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	idx := s.indexOfLocked(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	removed := s.articles[idx]
	prev := s.articles
	s.articles = append(append([]types.Article{}, s.articles[:idx]...), s.articles[idx+1:]...)
	if err := s.persistLocked(ctx); err != nil {
		s.articles = prev
		return nil, err
	}
	return &removed, nil
}

func (s *ArticleStore) indexOfLocked(id string) int {
	for i := range s.articles {
		if s.articles[i].ID == id {
			return i
		}
	}
	return -1
}
