package store

import (
	"context"
	"testing"
	"time"

	"github.com/tonicwater/backend/internal/types"
)

func newTask(id string) types.GenerationTask {
	return types.GenerationTask{
		ID:        id,
		Status:    types.TaskStatusPending,
		Topic:     "best gin",
		StartedAt: time.Now(),
	}
}

func TestTaskStore_Lifecycle(t *testing.T) {
	repo, log := testRepo(t)
	s := NewTaskStore(repo, log)
	ctx := context.Background()

	if err := s.Create(ctx, newTask("t1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.SetGenerating(ctx, "t1"); err != nil {
		t.Fatalf("set generating: %v", err)
	}
	if err := s.SetComplete(ctx, "t1", "article-1"); err != nil {
		t.Fatalf("set complete: %v", err)
	}

	got, err := s.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != types.TaskStatusComplete || got.ArticleID != "article-1" {
		t.Fatalf("unexpected task: %+v", got)
	}
	if got.CompletedAt == nil {
		t.Fatal("expected completedAt on terminal task")
	}
}

func TestTaskStore_TerminalStatesAbsorb(t *testing.T) {
	repo, log := testRepo(t)
	s := NewTaskStore(repo, log)
	ctx := context.Background()

	if err := s.Create(ctx, newTask("t1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.SetComplete(ctx, "t1", "article-1"); err != nil {
		t.Fatalf("set complete: %v", err)
	}
	// Late failure report must not move the task.
	if err := s.SetFailed(ctx, "t1", "too late"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := s.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != types.TaskStatusComplete || got.Error != "" {
		t.Fatalf("terminal state moved: %+v", got)
	}
}

func TestTaskStore_TransitionMissingIsNotFound(t *testing.T) {
	repo, log := testRepo(t)
	s := NewTaskStore(repo, log)
	if err := s.SetGenerating(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskStore_ListNewestFirst(t *testing.T) {
	repo, log := testRepo(t)
	s := NewTaskStore(repo, log)
	ctx := context.Background()

	for _, id := range []string{"t1", "t2", "t3"} {
		if err := s.Create(ctx, newTask(id)); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	tasks, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 3 || tasks[0].ID != "t3" || tasks[2].ID != "t1" {
		t.Fatalf("unexpected order: %+v", tasks)
	}
}

func TestTaskStore_ClaimPendingIsOneShot(t *testing.T) {
	repo, log := testRepo(t)
	s := NewTaskStore(repo, log)
	ctx := context.Background()

	desc, err := s.ClaimPending(ctx)
	if err != nil {
		t.Fatalf("claim empty: %v", err)
	}
	if desc != nil {
		t.Fatalf("expected no descriptor, got %+v", desc)
	}

	if err := s.ArmPending(ctx, types.PendingGeneration{TaskID: "t1", Topic: "best gin"}); err != nil {
		t.Fatalf("arm: %v", err)
	}
	desc, err = s.ClaimPending(ctx)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if desc == nil || desc.TaskID != "t1" {
		t.Fatalf("unexpected descriptor: %+v", desc)
	}

	desc, err = s.ClaimPending(ctx)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if desc != nil {
		t.Fatalf("descriptor not cleared: %+v", desc)
	}
}

func TestTaskStore_ArmPendingOverwrites(t *testing.T) {
	repo, log := testRepo(t)
	s := NewTaskStore(repo, log)
	ctx := context.Background()

	if err := s.ArmPending(ctx, types.PendingGeneration{TaskID: "t1", Topic: "a"}); err != nil {
		t.Fatalf("arm t1: %v", err)
	}
	if err := s.ArmPending(ctx, types.PendingGeneration{TaskID: "t2", Topic: "b"}); err != nil {
		t.Fatalf("arm t2: %v", err)
	}
	desc, err := s.ClaimPending(ctx)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if desc == nil || desc.TaskID != "t2" {
		t.Fatalf("expected last writer to win, got %+v", desc)
	}
}
