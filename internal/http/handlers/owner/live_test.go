package owner

import (
	"net/http/httptest"
	"testing"

	"github.com/mesa-next/internal/config"
)

func TestOriginAllowed(t *testing.T) {
	restricted := config.CORSConfig{AllowedOrigins: []string{"https://panel.mesa.co", " https://admin.mesa.co/ "}}
	cases := []struct {
		name   string
		cfg    config.CORSConfig
		origin string
		want   bool
	}{
		{"no origin header", restricted, "", true},
		{"listed origin", restricted, "https://panel.mesa.co", true},
		{"listed origin case and slash", restricted, "HTTPS://ADMIN.MESA.CO/", true},
		{"foreign origin", restricted, "https://evil.example", false},
		{"scheme mismatch", restricted, "http://panel.mesa.co", false},
		{"suffix lookalike", restricted, "https://panel.mesa.co.evil.example", false},
		{"empty allowlist", config.CORSConfig{}, "https://anything.example", true},
		{"wildcard", config.CORSConfig{AllowedOrigins: []string{"*"}}, "https://anything.example", true},
	}
	for _, tc := range cases {
		if got := originAllowed(tc.cfg, tc.origin); got != tc.want {
			t.Fatalf("%s: originAllowed(%q) = %v want %v", tc.name, tc.origin, got, tc.want)
		}
	}
}

func TestLiveUpgraderChecksOrigin(t *testing.T) {
	upgrader := liveUpgrader(config.CORSConfig{AllowedOrigins: []string{"https://panel.mesa.co"}})

	req := httptest.NewRequest("GET", "/api/v1/owner/orders/live", nil)
	req.Header.Set("Origin", "https://evil.example")
	if upgrader.CheckOrigin(req) {
		t.Fatalf("foreign origin should be rejected")
	}
	req.Header.Set("Origin", "https://panel.mesa.co")
	if !upgrader.CheckOrigin(req) {
		t.Fatalf("allowed origin should pass")
	}
}
