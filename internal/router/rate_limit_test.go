package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mesa-next/internal/config"

	"github.com/gin-gonic/gin"
)

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":" Owner@Arepa.co "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("email")(c)
	if key != "owner@arepa.co|1.2.3.4" {
		t.Fatalf("key want owner@arepa.co|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Owner@Arepa.co") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestKeyByIPAndJSONFieldIgnoresNonString(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":42}`))
	c.Request.RemoteAddr = "1.2.3.4:5678"

	if key := KeyByIPAndJSONField("email")(c); key != "1.2.3.4" {
		t.Fatalf("non-string field should fall back to ip, got %s", key)
	}
}

func TestKeyBySessionAndRestaurant(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	var got []string
	r.POST("/session/:identifier/checkout/confirm", func(c *gin.Context) {
		got = append(got, KeyBySessionAndRestaurant("X-Session-ID")(c))
	})

	req := httptest.NewRequest(http.MethodPost, "/session/La-Arepa/checkout/confirm", nil)
	req.Header.Set("X-Session-ID", "sess-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodPost, "/session/la-arepa/checkout/confirm", nil)
	req.RemoteAddr = "9.9.9.9:1000"
	r.ServeHTTP(httptest.NewRecorder(), req)

	if len(got) != 2 || got[0] != "la-arepa|sess-1" || got[1] != "la-arepa|9.9.9.9" {
		t.Fatalf("unexpected keys %v", got)
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if !strings.Contains(w.Body.String(), `"ok":true`) {
			t.Fatalf("request %d should pass without redis, got %s", i, w.Body.String())
		}
	}
}

func TestNewRateLimitRule(t *testing.T) {
	rule := newRateLimitRule("mesa", "login", config.RateLimitConfig{WindowSeconds: 300, MaxAttempts: 5}, "error.login_too_many")
	if rule.Prefix != "mesa:rate:login" || rule.WindowSeconds != 300 || rule.MaxRequests != 5 {
		t.Fatalf("unexpected rule %+v", rule)
	}
	if !rule.enabled() {
		t.Fatalf("rule should be enabled")
	}
	if newRateLimitRule("mesa", "confirm", config.RateLimitConfig{}, "").enabled() {
		t.Fatalf("zero config should disable the rule")
	}
}

func TestRetryAfter(t *testing.T) {
	cases := []struct {
		ttl    int64
		window int
		want   int
	}{
		{ttl: 42, window: 60, want: 42},
		{ttl: -1, window: 60, want: 60},
		{ttl: 0, window: 0, want: 1},
	}
	for _, tc := range cases {
		if got := retryAfter(tc.ttl, tc.window); got != tc.want {
			t.Fatalf("retryAfter(%d, %d) = %d, want %d", tc.ttl, tc.window, got, tc.want)
		}
	}
}
