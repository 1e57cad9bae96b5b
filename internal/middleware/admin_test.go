package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tonicwater/backend/internal/logger"
)

func adminRouter(t *testing.T, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	r := gin.New()
	auth := NewAdminAuth(log, secret)
	r.GET("/admin/api/articles", auth.Require(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doAdmin(r *gin.Engine, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/api/articles", nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminAuth_RejectsMissingCredential(t *testing.T) {
	r := adminRouter(t, "s3cret")
	if w := doAdmin(r, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAdminAuth_AcceptsBasicPassword(t *testing.T) {
	r := adminRouter(t, "s3cret")
	w := doAdmin(r, func(req *http.Request) {
		req.SetBasicAuth("admin", "s3cret")
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAdminAuth_AcceptsBearerToken(t *testing.T) {
	r := adminRouter(t, "s3cret")
	w := doAdmin(r, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer s3cret")
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAdminAuth_AcceptsQueryParam(t *testing.T) {
	r := adminRouter(t, "s3cret")
	req := httptest.NewRequest(http.MethodGet, "/admin/api/articles?secret=s3cret", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAdminAuth_BasicPasswordTakesPrecedence(t *testing.T) {
	// A wrong Basic password is not rescued by a correct query parameter.
	r := adminRouter(t, "s3cret")
	req := httptest.NewRequest(http.MethodGet, "/admin/api/articles?secret=s3cret", nil)
	req.SetBasicAuth("admin", "wrong")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAdminAuth_RejectsWhenSecretUnconfigured(t *testing.T) {
	r := adminRouter(t, "")
	w := doAdmin(r, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer anything")
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
