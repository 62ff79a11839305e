package config

import (
	"reflect"
	"strings"
	"testing"
)

func TestJWTConfigIsWeak(t *testing.T) {
	strong := strings.Repeat("k9", 20)
	cases := []struct {
		secret string
		weak   bool
	}{
		{"", true},
		{"short", true},
		{"please-change-me-" + strong, true},
		{"YOUR-SECRET-KEY-" + strong, true},
		{strong, false},
	}
	for _, tc := range cases {
		if got := (JWTConfig{SecretKey: tc.secret}).IsWeak(); got != tc.weak {
			t.Fatalf("IsWeak(%q) want %v got %v", tc.secret, tc.weak, got)
		}
	}
}

func TestConfigWeakSecrets(t *testing.T) {
	cfg := &Config{
		JWT:     JWTConfig{SecretKey: strings.Repeat("a", 40)},
		UserJWT: JWTConfig{SecretKey: "change-me"},
	}
	if got := cfg.WeakSecrets(); !reflect.DeepEqual(got, []string{"user_jwt"}) {
		t.Fatalf("unexpected weak secrets: %v", got)
	}
	cfg.UserJWT.SecretKey = strings.Repeat("b", 40)
	if got := cfg.WeakSecrets(); len(got) != 0 {
		t.Fatalf("expected no weak secrets, got %v", got)
	}
}

func TestConfigIsRelease(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Mode: " Release "}}
	if !cfg.IsRelease() {
		t.Fatalf("release mode should be detected")
	}
	cfg.Server.Mode = "debug"
	if cfg.IsRelease() {
		t.Fatalf("debug mode is not release")
	}
}
