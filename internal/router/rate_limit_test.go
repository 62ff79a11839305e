package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestKeyByUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/pdf-rg/orders", nil)
	c.Request.RemoteAddr = "1.2.3.4:5678"

	if key := KeyByUserID(c); key != "1.2.3.4" {
		t.Fatalf("anonymous key want 1.2.3.4 got %s", key)
	}
	c.Set("user_id", uint(9))
	if key := KeyByUserID(c); key != "user:9" {
		t.Fatalf("user key want user:9 got %s", key)
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("expected handler response body, got %s", w.Body.String())
	}
}

func TestRateLimitRuleHelpers(t *testing.T) {
	rule := RateLimitRule{WindowSeconds: 60, MaxRequests: 3}
	if !rule.enabled() {
		t.Fatalf("rule should be enabled")
	}
	if (RateLimitRule{WindowSeconds: 60}).enabled() {
		t.Fatalf("rule without max requests should be disabled")
	}
	if rule.messageKey() != "error.rate_limited" {
		t.Fatalf("unexpected default message key %s", rule.messageKey())
	}
	cases := []struct {
		rule RateLimitRule
		ttl  int64
		want int
	}{
		{rule: rule, ttl: 17, want: 17},
		{rule: rule, ttl: -1, want: 60},
		{rule: RateLimitRule{}, ttl: 0, want: 1},
	}
	for _, tc := range cases {
		if got := tc.rule.retryAfter(tc.ttl); got != tc.want {
			t.Fatalf("retryAfter(%d) want %d got %d", tc.ttl, tc.want, got)
		}
	}
}

func TestRateLimitKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Request.RemoteAddr = "10.0.0.1:1234"

	if key := rateLimitKey(c, "pdfrg:rate:pdf_rg_order", nil); key != "pdfrg:rate:pdf_rg_order:10.0.0.1" {
		t.Fatalf("unexpected key %s", key)
	}
	c.Set("user_id", uint(5))
	if key := rateLimitKey(c, "", KeyByUserID); key != "user:5" {
		t.Fatalf("unexpected key %s", key)
	}
}
