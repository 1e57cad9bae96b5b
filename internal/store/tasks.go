package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/tonicwater/backend/internal/logger"
	"github.com/tonicwater/backend/internal/types"
)

// TaskStore owns the generation task collection and the pending-generation
// descriptor. Terminal task states are absorbing: once a task is complete or
// failed no setter moves it again.
type TaskStore struct {
	log       *logger.Logger
	snapshots SnapshotRepo

	mu     sync.Mutex
	loaded bool
	tasks  []types.GenerationTask
}

func NewTaskStore(snapshots SnapshotRepo, baseLog *logger.Logger) *TaskStore {
	return &TaskStore{
		log:       baseLog.With("store", "TaskStore"),
		snapshots: snapshots,
	}
}

func (s *TaskStore) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	raw, err := s.snapshots.Load(ctx, KeyTasks)
	if err != nil {
		return fmt.Errorf("load tasks snapshot: %w", err)
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &s.tasks); err != nil {
			return fmt.Errorf("decode tasks snapshot: %w", err)
		}
	}
	s.loaded = true
	return nil
}

func (s *TaskStore) persistLocked(ctx context.Context) error {
	b, err := json.Marshal(s.tasks)
	if err != nil {
		return err
	}
	if string(b) == "null" {
		b = []byte("[]")
	}
	if err := s.snapshots.Save(ctx, KeyTasks, b); err != nil {
		return fmt.Errorf("persist tasks snapshot: %w", err)
	}
	return nil
}

// Create registers a new pending task.
func (s *TaskStore) Create(ctx context.Context, task types.GenerationTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	prev := s.tasks
	s.tasks = append(s.tasks, task)
	if err := s.persistLocked(ctx); err != nil {
		s.tasks = prev
		return err
	}
	return nil
}

func (s *TaskStore) Get(ctx context.Context, id string) (*types.GenerationTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			t := s.tasks[i]
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

// List returns all tasks, newest-started-first.
func (s *TaskStore) List(ctx context.Context) ([]types.GenerationTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := make([]types.GenerationTask, len(s.tasks))
	copy(out, s.tasks)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// SetGenerating moves a pending task to generating.
func (s *TaskStore) SetGenerating(ctx context.Context, id string) error {
	return s.transition(ctx, id, func(t *types.GenerationTask) {
		t.Status = types.TaskStatusGenerating
	})
}

// SetComplete marks a task complete with the produced article id.
func (s *TaskStore) SetComplete(ctx context.Context, id string, articleID string) error {
	return s.transition(ctx, id, func(t *types.GenerationTask) {
		now := time.Now()
		t.Status = types.TaskStatusComplete
		t.ArticleID = articleID
		t.CompletedAt = &now
	})
}

// SetFailed marks a task failed with the captured error message.
func (s *TaskStore) SetFailed(ctx context.Context, id string, message string) error {
	return s.transition(ctx, id, func(t *types.GenerationTask) {
		now := time.Now()
		t.Status = types.TaskStatusFailed
		t.Error = message
		t.CompletedAt = &now
	})
}

func (s *TaskStore) transition(ctx context.Context, id string, apply func(*types.GenerationTask)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		if s.tasks[i].IsTerminal() {
			return nil
		}
		prev := s.tasks[i]
		apply(&s.tasks[i])
		if err := s.persistLocked(ctx); err != nil {
			s.tasks[i] = prev
			return err
		}
		return nil
	}
	return ErrNotFound
}

// ArmPending persists the pending-generation descriptor. A second trigger
// while one is armed overwrites it (last writer wins).
func (s *TaskStore) ArmPending(ctx context.Context, desc types.PendingGeneration) error {
	b, err := json.Marshal(desc)
	if err != nil {
		return err
	}
	if err := s.snapshots.Save(ctx, KeyPendingGeneration, b); err != nil {
		return fmt.Errorf("persist pendingGeneration: %w", err)
	}
	return nil
}

// ClaimPending atomically reads and clears the pending descriptor, so at most
// one worker run executes per armed trigger.
func (s *TaskStore) ClaimPending(ctx context.Context) (*types.PendingGeneration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := s.snapshots.Load(ctx, KeyPendingGeneration)
	if err != nil {
		return nil, fmt.Errorf("load pendingGeneration: %w", err)
	}
	if raw == nil || string(raw) == "null" {
		return nil, nil
	}
	var desc types.PendingGeneration
	if err := json.Unmarshal(raw, &desc); err != nil {
		return nil, fmt.Errorf("decode pendingGeneration: %w", err)
	}
	if desc.TaskID == "" {
		return nil, nil
	}
	if err := s.snapshots.Delete(ctx, KeyPendingGeneration); err != nil {
		return nil, fmt.Errorf("clear pendingGeneration: %w", err)
	}
	return &desc, nil
}
