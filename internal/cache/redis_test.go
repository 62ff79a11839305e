package cache

import (
	"context"
	"testing"
	"time"

	"github.com/consultas-painel/pdfrg/internal/config"
)

func TestInitRedisDisabled(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	if Enabled() {
		t.Fatalf("redis should be disabled")
	}
	if Client() != nil {
		t.Fatalf("client should be nil when disabled")
	}

	ctx := context.Background()
	if err := SetPdfRgSummary(ctx, 0, &PdfRgSummary{Total: 1}, time.Minute); err != nil {
		t.Fatalf("set should be noop: %v", err)
	}
	summary, hit, err := GetPdfRgSummary(ctx, 0)
	if err != nil || hit || summary != nil {
		t.Fatalf("get should miss when disabled, hit=%v err=%v", hit, err)
	}
	if err := InvalidatePdfRgSummary(ctx, 3); err != nil {
		t.Fatalf("invalidate should be noop: %v", err)
	}
	if err := Ping(ctx); err != nil {
		t.Fatalf("ping should be noop: %v", err)
	}
	claimed, err := ClaimNotification(ctx, "pdf_rg:1:4", time.Hour)
	if err != nil || !claimed {
		t.Fatalf("claim should succeed when disabled, claimed=%v err=%v", claimed, err)
	}
	if err := ReleaseNotification(ctx, "pdf_rg:1:4"); err != nil {
		t.Fatalf("release should be noop: %v", err)
	}
}

func TestNotificationDedupeKey(t *testing.T) {
	if got := notificationDedupeKey(" pdf_rg:9:4 "); got != "notification:dedupe:pdf_rg:9:4" {
		t.Fatalf("dedupe key mismatch: %s", got)
	}
}

func TestPdfRgSummaryKey(t *testing.T) {
	if got := pdfRgSummaryKey(0); got != "pdf_rg:summary:all" {
		t.Fatalf("global key mismatch: %s", got)
	}
	if got := pdfRgSummaryKey(12); got != "pdf_rg:summary:user:12" {
		t.Fatalf("user key mismatch: %s", got)
	}
}

func TestBuildKeyWithPrefix(t *testing.T) {
	old := redisPrefix
	redisPrefix = "pdfrg"
	defer func() { redisPrefix = old }()

	if got := buildKey(" pdf_rg:summary:all "); got != "pdfrg:pdf_rg:summary:all" {
		t.Fatalf("key mismatch: %s", got)
	}
	if got := buildKey(""); got != "pdfrg" {
		t.Fatalf("empty key should return prefix, got %s", got)
	}
}
