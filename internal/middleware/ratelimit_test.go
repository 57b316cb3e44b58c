package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func testConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(1.0 / 60.0),
		GeneralBurst:    3,
		OTPRate:         rate.Limit(1.0 / 60.0),
		OTPBurst:        2,
		CleanupInterval: time.Hour,
	}
}

func TestGeneralMiddleware_AllowsUpToBurst(t *testing.T) {
	rl := NewRateLimiter(testConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/get-budgets", nil)
		req.RemoteAddr = "203.0.113.1:54321"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/get-budgets", nil)
	req.RemoteAddr = "203.0.113.1:54321"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestGeneralMiddleware_SeparateClientsDoNotShareLimits(t *testing.T) {
	rl := NewRateLimiter(testConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/get-budgets", nil)
		req.RemoteAddr = "203.0.113.1:54321"
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest(http.MethodGet, "/get-budgets", nil)
	req.RemoteAddr = "203.0.113.2:54321"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for different client", w.Code)
	}
	if got := rl.GeneralLimiterCount(); got != 2 {
		t.Errorf("limiter count = %d, want 2", got)
	}
}

func TestOTPMiddleware_IndependentFromGeneral(t *testing.T) {
	rl := NewRateLimiter(testConfig())
	defer rl.Stop()

	otpHandler := rl.OTPMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// バースト2まで許可、3回目で429
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/send-otp", nil)
		req.RemoteAddr = "203.0.113.1:54321"
		w := httptest.NewRecorder()
		otpHandler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/send-otp", nil)
	req.RemoteAddr = "203.0.113.1:54321"
	w := httptest.NewRecorder()
	otpHandler.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
}

func TestClientIP_PrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	if got := clientIP(req); got != "203.0.113.9" {
		t.Errorf("clientIP = %q, want 203.0.113.9", got)
	}
}

func TestClientIP_FallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.5:4567"

	if got := clientIP(req); got != "203.0.113.5" {
		t.Errorf("clientIP = %q, want 203.0.113.5", got)
	}
}

func TestCleanup_RemovesStaleEntries(t *testing.T) {
	rl := NewRateLimiter(testConfig())
	defer rl.Stop()

	rl.getOrCreateLimiter(&rl.generalMu, rl.generalLimiters, "203.0.113.1",
		rl.config.GeneralRate, rl.config.GeneralBurst)

	rl.generalMu.Lock()
	rl.generalLimiters["203.0.113.1"].lastAccess = time.Now().Add(-3 * time.Hour)
	rl.generalMu.Unlock()

	rl.cleanup()

	if got := rl.GeneralLimiterCount(); got != 0 {
		t.Errorf("limiter count = %d, want 0 after cleanup", got)
	}
}
