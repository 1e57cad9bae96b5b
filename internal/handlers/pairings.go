package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tonicwater/backend/internal/cache"
	"github.com/tonicwater/backend/internal/logger"
	"github.com/tonicwater/backend/internal/store"
	"github.com/tonicwater/backend/internal/types"
)

type PairingHandler struct {
	log      *logger.Logger
	pairings *store.PairingStore
	cache    *cache.Cache
}

func NewPairingHandler(baseLog *logger.Logger, pairings *store.PairingStore, c *cache.Cache) *PairingHandler {
	return &PairingHandler{
		log:      baseLog.With("handler", "PairingHandler"),
		pairings: pairings,
		cache:    c,
	}
}

// GET /api/gins
func (h *PairingHandler) List(c *gin.Context) {
	gins, err := h.pairings.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.log.Error("Failed to list pairings", "error", err)
		RespondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	RespondOK(c, gin.H{"gins": gins})
}

// GET /api/gins/:name
func (h *PairingHandler) Get(c *gin.Context) {
	p, err := h.pairings.Get(c.Request.Context(), c.Param("name"))
	if errors.Is(err, store.ErrNotFound) {
		RespondError(c, http.StatusNotFound, "gin not found")
		return
	}
	if err != nil {
		h.log.Error("Failed to get pairing", "name", c.Param("name"), "error", err)
		RespondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	RespondOK(c, p)
}

type createPairingRequest struct {
	Name    string `json:"name"`
	Profile string `json:"profile"`
	Tonic   string `json:"tonic"`
	Garnish string `json:"garnish"`
	Why     string `json:"why"`
}

func (r *createPairingRequest) missingFields() []string {
	var missing []string
	for _, f := range []struct{ name, val string }{
		{"name", r.Name}, {"profile", r.Profile}, {"tonic", r.Tonic},
		{"garnish", r.Garnish}, {"why", r.Why},
	} {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// POST /api/gins
func (h *PairingHandler) Create(c *gin.Context) {
	var req createPairingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if missing := req.missingFields(); len(missing) > 0 {
		RespondError(c, http.StatusBadRequest, "missing required fields: "+strings.Join(missing, ", "))
		return
	}

	h.cache.InvalidatePrefix(c.Request.Context(), "/api/gins")

	created, err := h.pairings.Create(c.Request.Context(), types.Pairing{
		Name:    strings.TrimSpace(req.Name),
		Profile: req.Profile,
		Tonic:   req.Tonic,
		Garnish: req.Garnish,
		Why:     req.Why,
	})
	if errors.Is(err, store.ErrConflict) {
		RespondError(c, http.StatusConflict, "gin already exists")
		return
	}
	if err != nil {
		h.log.Error("Failed to create pairing", "name", req.Name, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PUT /api/gins/:name
func (h *PairingHandler) Update(c *gin.Context) {
	var upd types.PairingUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	h.cache.InvalidatePrefix(c.Request.Context(), "/api/gins")

	updated, err := h.pairings.Update(c.Request.Context(), c.Param("name"), upd)
	if errors.Is(err, store.ErrNotFound) {
		RespondError(c, http.StatusNotFound, "gin not found")
		return
	}
	if err != nil {
		h.log.Error("Failed to update pairing", "name", c.Param("name"), "error", err)
		RespondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	RespondOK(c, updated)
}

// DELETE /api/gins/:name
func (h *PairingHandler) Delete(c *gin.Context) {
	h.cache.InvalidatePrefix(c.Request.Context(), "/api/gins")

	err := h.pairings.Delete(c.Request.Context(), c.Param("name"))
	if errors.Is(err, store.ErrNotFound) {
		RespondError(c, http.StatusNotFound, "gin not found")
		return
	}
	if err != nil {
		h.log.Error("Failed to delete pairing", "name", c.Param("name"), "error", err)
		RespondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	RespondOK(c, gin.H{"deleted": c.Param("name")})
}
