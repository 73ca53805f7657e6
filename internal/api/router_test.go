package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"multizone/internal/dto/resp"
	"multizone/internal/model"
	"multizone/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func init() {
	logger.InitLogger("test")
}

func testEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)

	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:0",
		DialTimeout: 10 * time.Millisecond,
		ReadTimeout: 10 * time.Millisecond,
		MaxRetries:  0,
	})

	userSvc := &stubUserService{
		listFn: func(ctx context.Context) ([]model.User, error) { return []model.User{}, nil },
		seedFn: func(ctx context.Context) resp.SeedReport {
			return resp.SeedReport{Message: "Database seeding completed", TotalUsers: 5, Created: 5, Errors: []string{}}
		},
	}
	flagSvc := &stubFlagService{
		listFn: func(ctx context.Context) ([]model.FeatureFlag, error) { return []model.FeatureFlag{}, nil },
	}
	checker := &stubZoneChecker{results: []model.ZoneStatus{}}

	return RegisterRoutes(NewUserHandler(userSvc), NewFlagHandler(flagSvc), NewZoneHandler(checker), rdb, 100)
}

func TestRouter_RoutesWired(t *testing.T) {
	r := testEngine()

	for _, tc := range []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/metrics", http.StatusOK},
		{"GET", "/api/zones/status", http.StatusOK},
		{"GET", "/api/users", http.StatusOK},
		{"GET", "/api/feature-flags", http.StatusOK},
		{"POST", "/api/seed", http.StatusOK}, // rate limiter fails open without redis
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != tc.want {
			t.Errorf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, w.Code)
		}
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := testEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/api/users", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	r := testEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated X-Request-ID header")
	}
}
