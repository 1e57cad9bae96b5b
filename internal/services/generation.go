package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tonicwater/backend/internal/clients"
	"github.com/tonicwater/backend/internal/logger"
	"github.com/tonicwater/backend/internal/store"
	"github.com/tonicwater/backend/internal/types"
	"github.com/tonicwater/backend/internal/utils"
)

// PlaceholderImageURL is used when image generation fails or is unconfigured.
const PlaceholderImageURL = "/images/default-gin-tonic.jpg"

// defaultTopics backs Trigger when no topic is supplied and the keyword
// service is unavailable.
var defaultTopics = []string{
	"best gin for gin and tonic",
	"fever tree tonic water review",
	"hendricks gin cocktails",
	"summer gin cocktails",
	"botanical gin guide",
	"gin and tonic garnishes",
	"premium tonic water comparison",
	"gin tasting notes",
	"craft gin brands",
	"gin cocktail recipes",
}

// GenerationService runs the article pipeline. Trigger returns immediately
// after persisting the task and arming the pending descriptor; the worker
// goroutine claims the descriptor and executes the pipeline.
type GenerationService struct {
	log      *logger.Logger
	tasks    *store.TaskStore
	articles *store.ArticleStore
	keywords clients.KeywordClient
	textgen  clients.TextGenerator
	images   clients.ImageGenerator
	nudge    chan struct{}
}

func NewGenerationService(
	baseLog *logger.Logger,
	tasks *store.TaskStore,
	articles *store.ArticleStore,
	keywords clients.KeywordClient,
	textgen clients.TextGenerator,
	images clients.ImageGenerator,
) *GenerationService {
	return &GenerationService{
		log:      baseLog.With("service", "GenerationService"),
		tasks:    tasks,
		articles: articles,
		keywords: keywords,
		textgen:  textgen,
		images:   images,
		nudge:    make(chan struct{}, 1),
	}
}

// Trigger registers a pending task for the topic and wakes the worker. An
// empty topic is resolved by the worker at execution time. Triggering while
// an earlier descriptor is still armed overwrites it.
func (s *GenerationService) Trigger(ctx context.Context, topic string) (*types.GenerationTask, error) {
	task := types.GenerationTask{
		ID:        uuid.NewString(),
		Status:    types.TaskStatusPending,
		Topic:     strings.TrimSpace(topic),
		StartedAt: time.Now(),
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	if err := s.tasks.ArmPending(ctx, types.PendingGeneration{TaskID: task.ID, Topic: task.Topic}); err != nil {
		return nil, fmt.Errorf("arm pending generation: %w", err)
	}

	select {
	case s.nudge <- struct{}{}:
	default:
	}
	s.log.Info("Generation triggered", "taskId", task.ID, "topic", task.Topic)
	return &task, nil
}

// StartWorker launches the background loop that claims and executes armed
// descriptors. It also picks up a descriptor persisted by a run that crashed
// before finishing.
func (s *GenerationService) StartWorker(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.nudge:
			case <-ticker.C:
			}
			s.processPending(ctx)
		}
	}()
}

func (s *GenerationService) processPending(ctx context.Context) {
	desc, err := s.tasks.ClaimPending(ctx)
	if err != nil {
		s.log.Error("Failed to claim pending generation", "error", err)
		return
	}
	if desc == nil {
		return
	}

	if err := s.tasks.SetGenerating(ctx, desc.TaskID); err != nil {
		s.log.Error("Failed to mark task generating", "taskId", desc.TaskID, "error", err)
		return
	}

	article, err := s.runPipeline(ctx, desc.Topic)
	if err != nil {
		s.log.Error("Generation failed", "taskId", desc.TaskID, "error", err)
		if ferr := s.tasks.SetFailed(ctx, desc.TaskID, err.Error()); ferr != nil {
			s.log.Error("Failed to mark task failed", "taskId", desc.TaskID, "error", ferr)
		}
		return
	}
	if err := s.tasks.SetComplete(ctx, desc.TaskID, article.ID); err != nil {
		s.log.Error("Failed to mark task complete", "taskId", desc.TaskID, "error", err)
		return
	}
	s.log.Info("Generation complete", "taskId", desc.TaskID, "articleId", article.ID)
}

// articleDraft is the JSON shape the text model is asked to produce.
type articleDraft struct {
	Title             string          `json:"title"`
	MetaDescription   string          `json:"metaDescription"`
	Content           string          `json:"content"`
	PrimaryKeyword    string          `json:"primaryKeyword"`
	SecondaryKeywords []string        `json:"secondaryKeywords"`
	SchemaMarkup      json.RawMessage `json:"schemaMarkup"`
}

func (s *GenerationService) runPipeline(ctx context.Context, topic string) (*types.Article, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = s.pickTopic(ctx)
	}
	s.log.Info("Generating article", "topic", topic)

	var related []string
	if s.keywords != nil {
		kws, err := s.keywords.RelatedKeywords(ctx, topic, 10)
		if err != nil {
			s.log.Warn("Related keyword lookup failed, continuing without", "topic", topic, "error", err)
		} else {
			related = kws
		}
		if metrics, err := s.keywords.KeywordMetrics(ctx, topic); err == nil {
			s.log.Info("Topic metrics", "topic", topic, "searchVolume", metrics.SearchVolume, "cpc", metrics.CPC)
		}
	}

	if s.textgen == nil {
		return nil, fmt.Errorf("text generation not configured")
	}
	raw, err := s.textgen.GenerateArticle(ctx, topic, related)
	if err != nil {
		return nil, fmt.Errorf("generate text: %w", err)
	}
	extracted, err := ExtractJSONObject(raw)
	if err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}
	var draft articleDraft
	if err := json.Unmarshal([]byte(extracted), &draft); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}
	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Content) == "" {
		return nil, fmt.Errorf("model output missing title or content")
	}
	if draft.PrimaryKeyword == "" {
		draft.PrimaryKeyword = topic
	}

	imageURL := PlaceholderImageURL
	imageAlt := draft.Title + " - Premium Gin and Tonic Guide"
	if s.images != nil {
		url, alt, err := s.images.GenerateImage(ctx, draft.Title, draft.PrimaryKeyword)
		if err != nil {
			s.log.Warn("Image generation failed, using placeholder", "title", draft.Title, "error", err)
		} else {
			imageURL, imageAlt = url, alt
		}
	}

	now := time.Now()
	slug := utils.Slugify(draft.Title)
	article := types.Article{
		ID:                slug + "-" + now.Format("20060102150405"),
		Slug:              slug,
		Title:             draft.Title,
		MetaDescription:   draft.MetaDescription,
		Content:           draft.Content,
		PrimaryKeyword:    draft.PrimaryKeyword,
		SecondaryKeywords: draft.SecondaryKeywords,
		SchemaMarkup:      draft.SchemaMarkup,
		ImageURL:          imageURL,
		ImageAlt:          imageAlt,
		Status:            types.ArticleStatusPublished,
		CreatedAt:         now,
		PublishedAt:       &now,
	}
	if len(article.SchemaMarkup) == 0 {
		article.SchemaMarkup = defaultSchemaMarkup(&article)
	}

	if err := s.articles.Insert(ctx, article); err != nil {
		return nil, fmt.Errorf("store article: %w", err)
	}
	return &article, nil
}

func (s *GenerationService) pickTopic(ctx context.Context) string {
	if s.keywords != nil {
		topics, err := s.keywords.TrendingTopics(ctx)
		if err == nil && len(topics) > 0 {
			return topics[rand.Intn(len(topics))]
		}
		if err != nil {
			s.log.Warn("Trending topic lookup failed, using defaults", "error", err)
		}
	}
	return defaultTopics[rand.Intn(len(defaultTopics))]
}

func defaultSchemaMarkup(a *types.Article) json.RawMessage {
	b, err := json.Marshal(map[string]any{
		"@context":      "https://schema.org",
		"@type":         "Article",
		"headline":      a.Title,
		"description":   a.MetaDescription,
		"datePublished": a.CreatedAt.Format(time.RFC3339),
		"author": map[string]any{
			"@type": "Organization",
			"name":  "TonicWater.io",
		},
	})
	if err != nil {
		return nil
	}
	return b
}
