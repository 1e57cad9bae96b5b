package types

import "time"

const (
	TaskStatusPending    = "pending"
	TaskStatusGenerating = "generating"
	TaskStatusComplete   = "complete"
	TaskStatusFailed     = "failed"
)

// GenerationTask tracks one article-generation job. Status only moves
// forward: pending -> generating -> complete|failed.
type GenerationTask struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	Topic       string     `json:"topic,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	ArticleID   string     `json:"articleId,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// IsTerminal reports whether the task has reached an absorbing state.
func (t *GenerationTask) IsTerminal() bool {
	return t.Status == TaskStatusComplete || t.Status == TaskStatusFailed
}

// PendingGeneration is the persisted intent record bridging the trigger
// request and the deferred pipeline run.
type PendingGeneration struct {
	TaskID string `json:"taskId"`
	Topic  string `json:"topic,omitempty"`
}
