package types

import (
	"encoding/json"
	"time"
)

const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

// Article is a generated SEO article. Slug is derived from the title and is
// not guaranteed unique; ID is.
type Article struct {
	ID                string          `json:"id"`
	Slug              string          `json:"slug"`
	Title             string          `json:"title"`
	MetaDescription   string          `json:"metaDescription"`
	Content           string          `json:"content"`
	PrimaryKeyword    string          `json:"primaryKeyword"`
	SecondaryKeywords []string        `json:"secondaryKeywords"`
	SchemaMarkup      json.RawMessage `json:"schemaMarkup,omitempty"`
	ImageURL          string          `json:"imageUrl"`
	ImageAlt          string          `json:"imageAlt"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
	PublishedAt       *time.Time      `json:"publishedAt,omitempty"`
}
