package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/provider"
	"github.com/mesa-next/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func setupRouterTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "router-test-secret"
	cfg.JWT.ExpireHours = 1
	cfg.Security.PasswordMinLength = 6
	cfg.Security.LoginRateLimit.WindowSeconds = 60
	cfg.Security.LoginRateLimit.MaxAttempts = 5
	cfg.Checkout.DefaultPhonePrefix = "+57"
	cfg.SuperAdmin.Email = "admin@mesa.co"
	cfg.SuperAdmin.Password = "admin-pass"
	cfg.Metrics.Enabled = true

	c, err := provider.Build(cfg, provider.Dependencies{DB: db, Store: storage.NewMemoryStore()})
	if err != nil {
		t.Fatalf("build container failed: %v", err)
	}
	t.Cleanup(c.Close)
	if err := c.SeedService.Seed(context.Background()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return SetupRouter(cfg, c)
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
		}
	}
	return w, env
}

func login(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	_, env := doRequest(t, r, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	if env.StatusCode != 0 {
		t.Fatalf("login %s failed: %d %s", email, env.StatusCode, env.Msg)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		t.Fatalf("login token missing: %v", err)
	}
	return data.Token
}

func TestHealthz(t *testing.T) {
	r := setupRouterTest(t)
	w, _ := doRequest(t, r, http.MethodGet, "/healthz", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("healthz status want 200 got %d", w.Code)
	}
}

func TestPublicMenuRoutes(t *testing.T) {
	r := setupRouterTest(t)

	_, env := doRequest(t, r, http.MethodGet, "/api/v1/menu/la-arepa-dorada", nil, nil)
	if env.StatusCode != 0 {
		t.Fatalf("menu status_code want 0 got %d (%s)", env.StatusCode, env.Msg)
	}

	_, env = doRequest(t, r, http.MethodGet, "/api/v1/menu/no-such-place", nil, nil)
	if env.StatusCode != 404 {
		t.Fatalf("unknown restaurant status_code want 404 got %d", env.StatusCode)
	}
}

func TestSessionCartIssuesSessionID(t *testing.T) {
	r := setupRouterTest(t)

	w, env := doRequest(t, r, http.MethodPost, "/api/v1/session/la-arepa-dorada/cart/items", map[string]interface{}{
		"product_id":   "prod-arepa",
		"variation_id": "var-arepa-regular",
		"quantity":     2,
	}, nil)
	if env.StatusCode != 0 {
		t.Fatalf("add item status_code want 0 got %d (%s)", env.StatusCode, env.Msg)
	}
	sessionID := w.Header().Get("X-Session-ID")
	if sessionID == "" {
		t.Fatalf("session id header should be issued")
	}

	_, env = doRequest(t, r, http.MethodGet, "/api/v1/session/la-arepa-dorada/cart", nil, map[string]string{
		"X-Session-ID": sessionID,
	})
	if env.StatusCode != 0 {
		t.Fatalf("get cart status_code want 0 got %d", env.StatusCode)
	}
	var cart struct {
		ItemCount int `json:"item_count"`
	}
	if err := json.Unmarshal(env.Data, &cart); err != nil {
		t.Fatalf("unmarshal cart failed: %v", err)
	}
	if cart.ItemCount != 2 {
		t.Fatalf("item_count want 2 got %d", cart.ItemCount)
	}
}

func TestOwnerRoutesRequireToken(t *testing.T) {
	r := setupRouterTest(t)

	_, env := doRequest(t, r, http.MethodGet, "/api/v1/owner/categories", nil, nil)
	if env.StatusCode != 401 {
		t.Fatalf("missing token status_code want 401 got %d", env.StatusCode)
	}

	_, env = doRequest(t, r, http.MethodGet, "/api/v1/owner/categories", nil, map[string]string{
		"Authorization": "Bearer not-a-jwt",
	})
	if env.StatusCode != 401 {
		t.Fatalf("bad token status_code want 401 got %d", env.StatusCode)
	}
}

func TestOwnerAndAdminRBAC(t *testing.T) {
	r := setupRouterTest(t)
	ownerAuth := map[string]string{"Authorization": "Bearer " + login(t, r, "owner@arepadorada.co", "demo1234")}
	adminAuth := map[string]string{"Authorization": "Bearer " + login(t, r, "admin@mesa.co", "admin-pass")}

	_, env := doRequest(t, r, http.MethodGet, "/api/v1/owner/categories", nil, ownerAuth)
	if env.StatusCode != 0 {
		t.Fatalf("owner categories status_code want 0 got %d (%s)", env.StatusCode, env.Msg)
	}

	_, env = doRequest(t, r, http.MethodGet, "/api/v1/admin/dashboard", nil, ownerAuth)
	if env.StatusCode != 403 {
		t.Fatalf("owner on admin route status_code want 403 got %d", env.StatusCode)
	}

	_, env = doRequest(t, r, http.MethodGet, "/api/v1/admin/dashboard", nil, adminAuth)
	if env.StatusCode != 0 {
		t.Fatalf("admin dashboard status_code want 0 got %d (%s)", env.StatusCode, env.Msg)
	}

	_, env = doRequest(t, r, http.MethodGet, "/api/v1/owner/categories", nil, adminAuth)
	if env.StatusCode != 403 {
		t.Fatalf("admin on owner route status_code want 403 got %d", env.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := setupRouterTest(t)
	w, _ := doRequest(t, r, http.MethodGet, "/metrics", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status want 200 got %d", w.Code)
	}
}

func TestCaptchaDisabledReportsState(t *testing.T) {
	r := setupRouterTest(t)
	_, env := doRequest(t, r, http.MethodGet, "/api/v1/captcha/image", nil, nil)
	if env.StatusCode != 0 {
		t.Fatalf("captcha endpoint want 0 got %d (%s)", env.StatusCode, env.Msg)
	}
	var view struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decode captcha view failed: %v", err)
	}
	if view.Enabled {
		t.Fatalf("captcha should be disabled without config")
	}
}

func TestForgotPasswordRejectsMalformedEmail(t *testing.T) {
	r := setupRouterTest(t)
	_, env := doRequest(t, r, http.MethodPost, "/api/v1/auth/forgot-password", map[string]string{"email": "a@b.c<script>"}, nil)
	if env.StatusCode != 400 || env.Msg != "Correo electrónico inválido" {
		t.Fatalf("want 400 email_invalid got %d %q", env.StatusCode, env.Msg)
	}
	_, env = doRequest(t, r, http.MethodPost, "/api/v1/auth/forgot-password", map[string]string{"email": "owner@arepadorada.co"}, nil)
	if env.StatusCode != 0 {
		t.Fatalf("valid email want 0 got %d %q", env.StatusCode, env.Msg)
	}
}
