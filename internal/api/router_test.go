package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/troophq/packtrack/internal/auth"
	"github.com/troophq/packtrack/internal/config"
	"github.com/troophq/packtrack/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouterTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Box{},
		&models.Item{},
		&models.Profile{},
		&models.Template{},
		&models.TemplateItem{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Port: 0, Mode: "development"},
		Auth:   config.AuthConfig{JWTSecret: "router-test-secret", TokenLifetime: 1},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost"}},
		RateLimit: config.RateLimitConfig{
			WindowMinutes: 15,
			MaxRequests:   10000,
		},
	}

	return NewRouter(cfg, db), db
}

func createRouterUser(t *testing.T, db *gorm.DB, username, password string, role models.Role) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
}

func doRequest(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()
	w := doRequest(router, "POST", "/api/auth/login", "",
		`{"username": "`+username+`", "password": "`+password+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	return resp.Token
}

func TestHealthIsPublic(t *testing.T) {
	router, _ := setupRouterTest(t)

	w := doRequest(router, "GET", "/api/health", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := setupRouterTest(t)

	paths := []struct {
		method string
		path   string
	}{
		{"GET", "/api/boxes"},
		{"GET", "/api/profiles"},
		{"GET", "/api/templates"},
		{"GET", "/api/auth/me"},
		{"GET", "/api/auth/users"},
	}

	for _, p := range paths {
		w := doRequest(router, p.method, p.path, "", "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", p.method, p.path, w.Code)
		}
	}
}

func TestLoginRoundTrip(t *testing.T) {
	router, db := setupRouterTest(t)
	createRouterUser(t, db, "quartermaster", "trailhead123", models.RoleAdmin)

	token := login(t, router, "quartermaster", "trailhead123")

	w := doRequest(router, "GET", "/api/auth/me", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var me models.User
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if me.Username != "quartermaster" || me.Role != models.RoleAdmin {
		t.Errorf("got %+v", me)
	}
}

func TestRoleEnforcementAcrossRoutes(t *testing.T) {
	router, db := setupRouterTest(t)
	createRouterUser(t, db, "admin", "password123", models.RoleAdmin)
	createRouterUser(t, db, "editor", "password123", models.RoleEditor)
	createRouterUser(t, db, "viewer", "password123", models.RoleViewer)

	adminToken := login(t, router, "admin", "password123")
	editorToken := login(t, router, "editor", "password123")
	viewerToken := login(t, router, "viewer", "password123")

	// Everyone authenticated can read
	for _, token := range []string{adminToken, editorToken, viewerToken} {
		w := doRequest(router, "GET", "/api/boxes", token, "")
		if w.Code != http.StatusOK {
			t.Errorf("read: status = %d, want 200", w.Code)
		}
	}

	// Viewers cannot write
	w := doRequest(router, "POST", "/api/boxes", viewerToken, `{"name": "Denied"}`)
	if w.Code != http.StatusForbidden {
		t.Errorf("viewer write: status = %d, want 403", w.Code)
	}

	// Editors can write but cannot manage users
	w = doRequest(router, "POST", "/api/boxes", editorToken, `{"name": "Allowed"}`)
	if w.Code != http.StatusCreated {
		t.Errorf("editor write: status = %d, want 201 (body: %s)", w.Code, w.Body.String())
	}
	w = doRequest(router, "GET", "/api/auth/users", editorToken, "")
	if w.Code != http.StatusForbidden {
		t.Errorf("editor user list: status = %d, want 403", w.Code)
	}

	// Admins can do both
	w = doRequest(router, "GET", "/api/auth/users", adminToken, "")
	if w.Code != http.StatusOK {
		t.Errorf("admin user list: status = %d, want 200", w.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	router, _ := setupRouterTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set("Origin", "http://localhost")
	router.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost" {
		t.Errorf("allowed origin header = %q", got)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	router.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin header = %q, want empty", got)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("OPTIONS", "/api/boxes", nil)
	req.Header.Set("Origin", "http://localhost")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
}

func TestFrontendServedOutsideAPI(t *testing.T) {
	router, _ := setupRouterTest(t)

	w := doRequest(router, "GET", "/", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
}
