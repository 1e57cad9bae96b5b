package types

import (
	"time"

	"gorm.io/datatypes"
)

// StoreRecord holds one collection snapshot. Every mutation of a collection
// rewrites its row wholesale, so the in-memory mirror and the durable copy
// never diverge.
type StoreRecord struct {
	Key       string         `gorm:"column:key;primaryKey" json:"key"`
	Value     datatypes.JSON `gorm:"column:value" json:"value"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (StoreRecord) TableName() string { return "store_record" }
