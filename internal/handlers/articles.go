package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tonicwater/backend/internal/logger"
	"github.com/tonicwater/backend/internal/store"
	"github.com/tonicwater/backend/internal/types"
)

// categories is the fixed taxonomy served at /api/categories.
var categories = []string{
	"London Dry",
	"Floral",
	"Citrus Forward",
	"Herbal Complex",
	"Herbal",
	"Earthy Smooth",
	"Navy Strength",
	"Old Tom",
}

type ArticleHandler struct {
	log      *logger.Logger
	articles *store.ArticleStore
}

func NewArticleHandler(baseLog *logger.Logger, articles *store.ArticleStore) *ArticleHandler {
	return &ArticleHandler{
		log:      baseLog.With("handler", "ArticleHandler"),
		articles: articles,
	}
}

// GET /api/articles
// The public listing only ever exposes published articles, whatever the
// status query says.
func (h *ArticleHandler) List(c *gin.Context) {
	articles, err := h.articles.List(c.Request.Context(), types.ArticleStatusPublished)
	if err != nil {
		h.log.Error("Failed to list articles", "error", err)
		RespondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	RespondOK(c, gin.H{"articles": articles})
}

// GET /api/articles/:slug
func (h *ArticleHandler) Get(c *gin.Context) {
	a, err := h.articles.Get(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, store.ErrNotFound) {
		RespondError(c, http.StatusNotFound, "article not found")
		return
	}
	if err != nil {
		h.log.Error("Failed to get article", "slug", c.Param("slug"), "error", err)
		RespondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if a.Status != types.ArticleStatusPublished {
		RespondError(c, http.StatusNotFound, "article not found")
		return
	}
	RespondOK(c, a)
}

// GET /api/categories
func (h *ArticleHandler) Categories(c *gin.Context) {
	RespondOK(c, gin.H{"categories": categories})
}
