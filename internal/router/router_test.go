package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/consultas-painel/pdfrg/internal/config"
	"github.com/consultas-painel/pdfrg/internal/metrics"
	"github.com/consultas-painel/pdfrg/internal/models"
	"github.com/consultas-painel/pdfrg/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRouterTest(t *testing.T) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{
		JWT:     config.JWTConfig{SecretKey: "admin-secret"},
		UserJWT: config.JWTConfig{SecretKey: "user-secret"},
		PdfRg:   config.DefaultPdfRgConfig(),
		Metrics: config.MetricsConfig{Enabled: true},
	}
	cfg.PdfRg.SummaryCacheSeconds = 0
	container := provider.NewContainerWithDB(cfg, db, nil, metrics.NewIsolated())
	return SetupRouter(cfg, container), cfg
}

func TestSetupRouterAuthGroups(t *testing.T) {
	r, cfg := setupRouterTest(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/pdf-rg/orders", nil))
	if got := decodeStatusCode(t, w); got != 401 {
		t.Fatalf("user route without token want 401 got %d", got)
	}

	userToken := signTestToken(t, cfg.UserJWT.SecretKey, UserClaims{UserID: 3})
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/pdf-rg/orders", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	r.ServeHTTP(w, req)
	if got := decodeStatusCode(t, w); got != 0 {
		t.Fatalf("user route with token want 0 got %d body=%s", got, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/pdf-rg/orders/summary", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	r.ServeHTTP(w, req)
	if got := decodeStatusCode(t, w); got != 401 {
		t.Fatalf("admin route with user token want 401 got %d", got)
	}

	adminToken := signTestToken(t, cfg.JWT.SecretKey, AdminClaims{AdminID: 1, Username: "root"})
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/pdf-rg/orders/summary", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	r.ServeHTTP(w, req)
	var resp struct {
		StatusCode int `json:"status_code"`
		Data       struct {
			Counts map[string]int64 `json:"counts"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal summary failed: %v", err)
	}
	if resp.StatusCode != 0 || len(resp.Data.Counts) != 4 {
		t.Fatalf("summary route should not be shadowed by :id, got %s", w.Body.String())
	}
}

func TestSetupRouterMetricsAndHealth(t *testing.T) {
	r, _ := setupRouterTest(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "ok") {
		t.Fatalf("healthz want ok got %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, defaultMetricsPath, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics want 200 got %d", w.Code)
	}
}
