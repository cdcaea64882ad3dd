package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/folio/internal/config"
	"github.com/folio/internal/db"
	"github.com/folio/internal/handler"
	"github.com/folio/internal/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := db.EnsureAdmin(gdb, "owner@example.dev", "secret-pass"); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}

	uploadDir := t.TempDir()
	store, err := storage.NewLocalStore(uploadDir, "/uploads")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	cfg := config.AppConfig{
		Server: config.ServerConfig{CORSOrigins: "https://front.example.dev"},
		Auth:   config.AuthConfig{SessionSecret: "test-secret", AdminEmail: "owner@example.dev"},
		Site:   config.SiteConfig{BaseURL: "https://example.dev", Title: "Example"},
	}
	return SetupRouter(handler.NewAPI(gdb, store, cfg), cfg, store), uploadDir
}

func serve(r *gin.Engine, method, path string, body []byte, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestSetupRouterServesUploads(t *testing.T) {
	r, uploadDir := setupRouter(t)

	fileContent := []byte("hello uploads")
	if err := os.WriteFile(filepath.Join(uploadDir, "example.txt"), fileContent, 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	rr := serve(r, http.MethodGet, "/uploads/example.txt", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if rr.Body.String() != string(fileContent) {
		t.Fatalf("unexpected body, got %q", rr.Body.String())
	}
}

func TestAdminRoutesRequireSession(t *testing.T) {
	r, _ := setupRouter(t)

	for _, path := range []string{"/admin/api/dashboard", "/admin/api/posts", "/admin/api/media"} {
		if rr := serve(r, http.MethodGet, path, nil, nil); rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected %s to require auth, got %d", path, rr.Code)
		}
	}
}

func TestAdminPublishFlowIsVisiblePublicly(t *testing.T) {
	r, _ := setupRouter(t)

	login, _ := json.Marshal(map[string]string{"email": "owner@example.dev", "password": "secret-pass"})
	rr := serve(r, http.MethodPost, "/admin/login", login, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rr.Code, rr.Body.String())
	}
	cookies := rr.Result().Cookies()

	tag, _ := json.Marshal(map[string]string{"name": "Go", "slug": "go"})
	rr = serve(r, http.MethodPost, "/admin/api/tags", tag, cookies)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create tag failed: %d %s", rr.Code, rr.Body.String())
	}
	var tagResp struct {
		Tag db.Tag `json:"tag"`
	}
	json.Unmarshal(rr.Body.Bytes(), &tagResp)

	post, _ := json.Marshal(map[string]any{"title": "Hello Router", "content": "body", "published": true, "tag_ids": []uint{tagResp.Tag.ID}})
	rr = serve(r, http.MethodPost, "/admin/api/posts", post, cookies)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create post failed: %d %s", rr.Code, rr.Body.String())
	}

	rr = serve(r, http.MethodGet, "/api/posts?tag=go", nil, nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "hello-router") {
		t.Fatalf("expected published post in public list: %d %s", rr.Code, rr.Body.String())
	}

	rr = serve(r, http.MethodGet, "/api/posts/hello-router", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected post detail, got %d", rr.Code)
	}

	rr = serve(r, http.MethodGet, "/feed.xml", nil, nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "https://example.dev/blog/hello-router") {
		t.Fatalf("expected feed entry: %d %s", rr.Code, rr.Body.String())
	}
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := setupRouter(t)

	rr := serve(r, http.MethodGet, "/healthz", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected healthy, got %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}

	rr = serve(r, http.MethodGet, "/metrics", nil, nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `route="/healthz"`) {
		t.Fatalf("expected healthz to be counted: %s", rr.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "https://front.example.dev")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://front.example.dev" {
		t.Fatalf("expected allowed origin, got %q", got)
	}
	if rr.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("expected credentials to be allowed")
	}
}
