package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/tonicwater/backend/internal/cache"
	"github.com/tonicwater/backend/internal/logger"
)

func testCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return cache.NewWithClient(log, goredis.NewClient(&goredis.Options{Addr: mr.Addr()})), mr
}

// cacheRouter serves a counter from cached paths so hits and misses are
// distinguishable by body, plus a mutation route that invalidates the gin
// namespace the way the pairing handlers do.
func cacheRouter(t *testing.T, c *cache.Cache) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	r := gin.New()
	serves := 0
	api := r.Group("/api")
	api.Use(CacheResponses(log, c))
	api.GET("/gins", func(gc *gin.Context) {
		serves++
		gc.JSON(http.StatusOK, gin.H{"serve": serves})
	})
	api.GET("/gins/:name", func(gc *gin.Context) {
		if gc.Param("name") == "missing" {
			gc.JSON(http.StatusNotFound, gin.H{"error": "gin not found"})
			return
		}
		serves++
		gc.JSON(http.StatusOK, gin.H{"serve": serves, "name": gc.Param("name")})
	})
	api.GET("/categories", func(gc *gin.Context) {
		serves++
		gc.JSON(http.StatusOK, gin.H{"serve": serves})
	})
	api.POST("/gins", func(gc *gin.Context) {
		c.InvalidatePrefix(gc.Request.Context(), "/api/gins")
		gc.JSON(http.StatusCreated, gin.H{"created": true})
	})
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestCacheResponses_MissThenHitVerbatim(t *testing.T) {
	c, _ := testCache(t)
	r := cacheRouter(t, c)

	first := get(r, "/api/gins")
	if first.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first read: expected MISS, got %q", first.Header().Get("X-Cache"))
	}

	second := get(r, "/api/gins")
	if second.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("second read: expected HIT, got %q", second.Header().Get("X-Cache"))
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("hit must serve the stored payload verbatim: %q vs %q", second.Body.String(), first.Body.String())
	}
}

func TestCacheResponses_QueryVariantsAreDistinctKeys(t *testing.T) {
	c, _ := testCache(t)
	r := cacheRouter(t, c)

	get(r, "/api/gins")
	w := get(r, "/api/gins?search=herbal")
	if w.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("distinct query must not share a cache entry, got %q", w.Header().Get("X-Cache"))
	}
}

func TestCacheResponses_MutationInvalidatesNamespace(t *testing.T) {
	c, _ := testCache(t)
	r := cacheRouter(t, c)

	stale := get(r, "/api/gins")
	get(r, "/api/gins/Hendrick's")
	get(r, "/api/categories")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/gins", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("mutation failed: %d", w.Code)
	}

	after := get(r, "/api/gins")
	if after.Header().Get("X-Cache") != "MISS" {
		t.Fatal("gin listing still cached after mutation")
	}
	if after.Body.String() == stale.Body.String() {
		t.Fatalf("read after mutation returned the pre-mutation payload: %q", after.Body.String())
	}
	if w := get(r, "/api/gins/Hendrick's"); w.Header().Get("X-Cache") != "MISS" {
		t.Fatal("gin record still cached after mutation")
	}
	// Categories are outside the invalidation scope.
	if w := get(r, "/api/categories"); w.Header().Get("X-Cache") != "HIT" {
		t.Fatal("categories should survive a gin mutation")
	}
}

func TestCacheResponses_ErrorsAreNotStored(t *testing.T) {
	c, _ := testCache(t)
	r := cacheRouter(t, c)

	// The path is inside a cached namespace, but a 404 must not be stored.
	for i := 0; i < 2; i++ {
		w := get(r, "/api/gins/missing")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
		if w.Header().Get("X-Cache") != "MISS" {
			t.Fatalf("request %d: a 404 was served from cache", i)
		}
	}
}

func TestCacheResponses_OnlyGetIsServedFromCache(t *testing.T) {
	c, _ := testCache(t)
	r := cacheRouter(t, c)

	get(r, "/api/gins")
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/gins", nil))
		if h := w.Header().Get("X-Cache"); h != "" {
			t.Fatalf("mutation %d carried cache marker %q", i, h)
		}
	}
}

func TestCacheResponses_StoredEntryExpires(t *testing.T) {
	c, mr := testCache(t)
	r := cacheRouter(t, c)

	get(r, "/api/gins")
	mr.FastForward(cache.GinTTL + time.Second)
	if w := get(r, "/api/gins"); w.Header().Get("X-Cache") != "MISS" {
		t.Fatal("entry should have expired")
	}
}
