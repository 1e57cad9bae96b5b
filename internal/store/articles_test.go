package store

import (
	"context"
	"testing"
	"time"

	"github.com/tonicwater/backend/internal/types"
)

func seedArticles(t *testing.T, s *ArticleStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, a := range []types.Article{
		{ID: "old-guide-1", Slug: "gin-guide", Title: "Gin Guide", Status: types.ArticleStatusPublished},
		{ID: "draft-1", Slug: "tonic-review", Title: "Tonic Review", Status: types.ArticleStatusDraft},
		{ID: "new-guide-2", Slug: "gin-guide", Title: "Gin Guide Revisited", Status: types.ArticleStatusPublished},
	} {
		a.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := s.Insert(ctx, a); err != nil {
			t.Fatalf("insert %s: %v", a.ID, err)
		}
	}
}

func TestArticleStore_ListNewestFirstWithStatusFilter(t *testing.T) {
	repo, log := testRepo(t)
	s := NewArticleStore(repo, log)
	seedArticles(t, s)
	ctx := context.Background()

	all, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(all))
	}
	if all[0].ID != "new-guide-2" {
		t.Fatalf("expected newest first, got %s", all[0].ID)
	}

	published, err := s.List(ctx, types.ArticleStatusPublished)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(published) != 2 {
		t.Fatalf("expected 2 published, got %d", len(published))
	}
}

func TestArticleStore_GetByIDThenSlug(t *testing.T) {
	repo, log := testRepo(t)
	s := NewArticleStore(repo, log)
	seedArticles(t, s)
	ctx := context.Background()

	byID, err := s.Get(ctx, "old-guide-1")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Title != "Gin Guide" {
		t.Fatalf("unexpected article: %+v", byID)
	}

	// Two articles share the slug; the newest wins.
	bySlug, err := s.Get(ctx, "gin-guide")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if bySlug.ID != "new-guide-2" {
		t.Fatalf("expected newest slug match, got %s", bySlug.ID)
	}

	if _, err := s.Get(ctx, "no-such-article"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestArticleStore_SetStatusStampsPublishedAt(t *testing.T) {
	repo, log := testRepo(t)
	s := NewArticleStore(repo, log)
	seedArticles(t, s)
	ctx := context.Background()

	published, err := s.SetStatus(ctx, "draft-1", types.ArticleStatusPublished)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.PublishedAt == nil {
		t.Fatal("expected publishedAt stamp on first publish")
	}
	first := *published.PublishedAt

	demoted, err := s.SetStatus(ctx, "draft-1", types.ArticleStatusDraft)
	if err != nil {
		t.Fatalf("demote: %v", err)
	}
	if demoted.Status != types.ArticleStatusDraft {
		t.Fatalf("expected draft, got %s", demoted.Status)
	}

	republished, err := s.SetStatus(ctx, "draft-1", types.ArticleStatusPublished)
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	if !republished.PublishedAt.Equal(first) {
		t.Fatal("publishedAt must not move on republish")
	}

	if _, err := s.SetStatus(ctx, "draft-1", "archived"); err == nil {
		t.Fatal("expected error for invalid status")
	}
	if _, err := s.SetStatus(ctx, "missing", types.ArticleStatusDraft); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestArticleStore_Delete(t *testing.T) {
	repo, log := testRepo(t)
	s := NewArticleStore(repo, log)
	seedArticles(t, s)
	ctx := context.Background()

	removed, err := s.Delete(ctx, "draft-1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed.Slug != "tonic-review" {
		t.Fatalf("unexpected removed article: %+v", removed)
	}
	if _, err := s.Get(ctx, "draft-1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := s.Delete(ctx, "draft-1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestArticleStore_RehydratesAcrossInstances(t *testing.T) {
	repo, log := testRepo(t)
	ctx := context.Background()

	s1 := NewArticleStore(repo, log)
	seedArticles(t, s1)

	s2 := NewArticleStore(repo, log)
	got, err := s2.Get(ctx, "old-guide-1")
	if err != nil {
		t.Fatalf("get from fresh instance: %v", err)
	}
	if got.Title != "Gin Guide" {
		t.Fatalf("unexpected article: %+v", got)
	}
}
