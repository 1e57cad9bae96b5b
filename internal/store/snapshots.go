package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tonicwater/backend/internal/logger"
	"github.com/tonicwater/backend/internal/types"
)

// Collection snapshot keys.
const (
	KeyGins              = "gins"
	KeyTonicLinks        = "tonicLinks"
	KeyArticles          = "articles"
	KeyTasks             = "tasks"
	KeyPendingGeneration = "pendingGeneration"
)

// SnapshotRepo persists whole-collection snapshots, one row per collection.
type SnapshotRepo interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type snapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) SnapshotRepo {
	return &snapshotRepo{
		db:  db,
		log: baseLog.With("repo", "SnapshotRepo"),
	}
}

// Load returns the snapshot bytes for key, or nil when no snapshot exists.
func (r *snapshotRepo) Load(ctx context.Context, key string) ([]byte, error) {
	var rec types.StoreRecord
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(rec.Value), nil
}

func (r *snapshotRepo) Save(ctx context.Context, key string, value []byte) error {
	rec := types.StoreRecord{
		Key:       key,
		Value:     datatypes.JSON(value),
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rec).Error
}

func (r *snapshotRepo) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&types.StoreRecord{}).Error
}
