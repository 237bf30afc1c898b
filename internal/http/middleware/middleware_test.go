package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ayres-originals/originals-api/internal/auth"
	"github.com/ayres-originals/originals-api/internal/http/ban"
	rl "github.com/ayres-originals/originals-api/internal/http/rate_limiter"
	"github.com/ayres-originals/originals-api/internal/mail"
	"github.com/ayres-originals/originals-api/internal/models"
	"github.com/ayres-originals/originals-api/internal/redissvc"
	"github.com/redis/go-redis/v9"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuthMiddleware(t *testing.T) {
	token, err := auth.GenerateToken(models.User{ID: "user-1", Role: models.RoleAdmin}, "collector")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	var seenID, seenRole, seenUsername string
	h := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID, seenRole, seenUsername = GetUserID(r), GetRole(r), GetUsername(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if seenID != "user-1" || seenRole != models.RoleAdmin || seenUsername != "collector" {
		t.Errorf("unexpected context values: %q %q %q", seenID, seenRole, seenUsername)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	userToken, _ := auth.GenerateToken(models.User{ID: "u", Role: models.RoleUser}, "u")
	h := AuthMiddleware(RequireRole(models.RoleAdmin)(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"remote addr", "", "192.0.2.1:5555", "192.0.2.1"},
		{"forwarded header ignored", "203.0.113.7, 10.0.0.1", "10.0.0.2:1", "10.0.0.2"},
		{"remote addr without port", "", "192.0.2.9", "192.0.2.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := ClientKey(req); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRateLimit_RotatingForwardedForSharesBucket(t *testing.T) {
	h := RateLimit(rl.New(0.001, 2), nil)(okHandler)

	codes := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/verify", nil)
		req.RemoteAddr = "198.51.100.4:1234"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third request to be limited, got %v", codes)
	}
}

func TestRateLimit_StrikesLeadToBan(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	tracker := ban.NewTracker(redissvc.NewRedisService(rdb, context.Background()), mail.LogMailer{},
		ban.Options{MaxStrikes: 2, Window: time.Minute, BanTTL: time.Hour})
	h := RateLimit(rl.New(0.001, 1), tracker)(okHandler)

	codes := []int{}
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodPost, "/verify", nil)
		req.RemoteAddr = "198.51.100.4:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	want := []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusForbidden}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("expected status sequence %v, got %v", want, codes)
		}
	}
}

func TestAccessGate(t *testing.T) {
	h := AccessGate("letmein")(okHandler)

	tests := []struct {
		name   string
		method string
		path   string
		cookie string
		want   int
	}{
		{"blocked without cookie", http.MethodGet, "/products", "", http.StatusUnauthorized},
		{"gate route is exempt", http.MethodPost, "/access", "", http.StatusOK},
		{"health is exempt", http.MethodGet, "/health", "", http.StatusOK},
		{"preflight is exempt", http.MethodOptions, "/verify", "", http.StatusOK},
		{"bad cookie", http.MethodGet, "/products", "forged", http.StatusUnauthorized},
	}

	pass, err := auth.GenerateAccessPass(time.Hour)
	if err != nil {
		t.Fatalf("failed to generate pass: %v", err)
	}
	tests = append(tests, struct {
		name   string
		method string
		path   string
		cookie string
		want   int
	}{"valid cookie", http.MethodGet, "/products", pass, http.StatusOK})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: auth.AccessCookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestAccessGate_OpenWithoutPassword(t *testing.T) {
	h := AccessGate("")(okHandler)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS()(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/verify", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "authorization, x-client-info, apikey, content-type")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code >= 300 {
		t.Fatalf("expected success status for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
	allowed := strings.ToLower(w.Header().Get("Access-Control-Allow-Headers"))
	for _, hdr := range []string{"authorization", "x-client-info", "apikey", "content-type"} {
		if !strings.Contains(allowed, hdr) {
			t.Errorf("expected %q in allowed headers %q", hdr, allowed)
		}
	}
}
