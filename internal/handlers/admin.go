package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tonicwater/backend/internal/cache"
	"github.com/tonicwater/backend/internal/logger"
	"github.com/tonicwater/backend/internal/services"
	"github.com/tonicwater/backend/internal/store"
	"github.com/tonicwater/backend/internal/types"
)

type AdminHandler struct {
	log        *logger.Logger
	articles   *store.ArticleStore
	tasks      *store.TaskStore
	generation *services.GenerationService
	cache      *cache.Cache
}

func NewAdminHandler(
	baseLog *logger.Logger,
	articles *store.ArticleStore,
	tasks *store.TaskStore,
	generation *services.GenerationService,
	c *cache.Cache,
) *AdminHandler {
	return &AdminHandler{
		log:        baseLog.With("handler", "AdminHandler"),
		articles:   articles,
		tasks:      tasks,
		generation: generation,
		cache:      c,
	}
}

// GET /admin
// Minimal status page for the admin surface; the richer dashboard lives in
// the front end.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	articles, err := h.articles.List(c.Request.Context(), "")
	if err != nil {
		h.log.Error("Failed to list articles", "error", err)
		RespondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	tasks, err := h.tasks.List(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list tasks", "error", err)
		RespondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	published := 0
	for _, a := range articles {
		if a.Status == types.ArticleStatusPublished {
			published++
		}
	}
	RespondOK(c, gin.H{
		"service":   "tonicwater-admin",
		"articles":  len(articles),
		"published": published,
		"tasks":     len(tasks),
	})
}

// GET /admin/api/articles
func (h *AdminHandler) ListArticles(c *gin.Context) {
	articles, err := h.articles.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.log.Error("Failed to list articles", "error", err)
		RespondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	RespondOK(c, gin.H{"articles": articles})
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// PUT /admin/api/articles/:id
func (h *AdminHandler) SetArticleStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		RespondError(c, http.StatusBadRequest, "status is required")
		return
	}

	updated, err := h.articles.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if errors.Is(err, store.ErrNotFound) {
		RespondError(c, http.StatusNotFound, "article not found")
		return
	}
	if err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	h.cache.Invalidate(c.Request.Context(), "/api/articles/"+updated.Slug)
	RespondOK(c, updated)
}

// DELETE /admin/api/articles/:id
func (h *AdminHandler) DeleteArticle(c *gin.Context) {
	removed, err := h.articles.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		RespondError(c, http.StatusNotFound, "article not found")
		return
	}
	if err != nil {
		h.log.Error("Failed to delete article", "id", c.Param("id"), "error", err)
		RespondError(c, http.StatusInternalServerError, "internal error")
		return
	}

	h.cache.Invalidate(c.Request.Context(), "/api/articles/"+removed.Slug)
	RespondOK(c, gin.H{"deleted": removed.ID})
}

type generateRequest struct {
	Topic string `json:"topic"`
}

// POST /admin/api/generate
// Always responds 202 with the task: failures are observed by polling.
func (h *AdminHandler) Generate(c *gin.Context) {
	var req generateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	task, err := h.generation.Trigger(c.Request.Context(), req.Topic)
	if err != nil {
		h.log.Error("Failed to trigger generation", "error", err)
		RespondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusAccepted, task)
}

// GET /admin/api/generate/:taskId
func (h *AdminHandler) TaskStatus(c *gin.Context) {
	task, err := h.tasks.Get(c.Request.Context(), c.Param("taskId"))
	if errors.Is(err, store.ErrNotFound) {
		RespondError(c, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		h.log.Error("Failed to get task", "taskId", c.Param("taskId"), "error", err)
		RespondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	RespondOK(c, task)
}

// GET /admin/api/tasks
func (h *AdminHandler) ListTasks(c *gin.Context) {
	tasks, err := h.tasks.List(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list tasks", "error", err)
		RespondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	RespondOK(c, gin.H{"tasks": tasks})
}
