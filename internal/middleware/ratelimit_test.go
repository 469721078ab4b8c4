package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newLimitedHandler(t *testing.T, mr *miniredis.Miniredis, requestsPerWindow int, prefix string) http.Handler {
	t.Helper()

	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { redisClient.Close() })

	logger, _ := zap.NewDevelopment()

	config := RateLimitConfig{
		RequestsPerWindow: requestsPerWindow,
		Window:            1 * time.Second,
		KeyPrefix:         prefix,
	}

	return RateLimitMiddleware(redisClient, config, logger)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
}

func TestProperty_RateLimitingBlocksExcessiveRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests past the window limit get 429", prop.ForAll(
		func(requestsPerWindow int, excessRequests int) bool {
			mr, err := miniredis.Run()
			if err != nil {
				t.Fatalf("Failed to start miniredis: %v", err)
				return false
			}
			defer mr.Close()

			handler := newLimitedHandler(t, mr, requestsPerWindow, "discovery_rl")

			successCount := 0
			blockedCount := 0

			for i := 0; i < requestsPerWindow+excessRequests; i++ {
				req := httptest.NewRequest("GET", "/api/v1/products", nil)
				req.RemoteAddr = "192.168.1.100:51000"
				w := httptest.NewRecorder()

				handler.ServeHTTP(w, req)

				switch w.Code {
				case http.StatusOK:
					successCount++
				case http.StatusTooManyRequests:
					blockedCount++
				}
			}

			// Exactly requestsPerWindow succeed; everything past that is blocked.
			return successCount == requestsPerWindow && blockedCount == excessRequests
		},
		gen.IntRange(5, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRateLimitTracksClientsIndependently(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	handler := newLimitedHandler(t, mr, 3, "discovery_rl_clients")

	// Exhaust the first client's window.
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest("GET", "/api/v1/products", nil)
		req.RemoteAddr = "10.0.0.1:40000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if i < 3 && w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
		if i == 3 && w.Code != http.StatusTooManyRequests {
			t.Fatalf("request %d: expected 429, got %d", i, w.Code)
		}
	}

	// A different client still has a fresh window.
	req := httptest.NewRequest("GET", "/api/v1/products", nil)
	req.RemoteAddr = "10.0.0.2:40000"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("second client: expected 200, got %d", w.Code)
	}
}

func TestProperty_RateLimitHeadersAreSet(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("limit and remaining headers are present", prop.ForAll(
		func(requestsPerWindow int) bool {
			mr, err := miniredis.Run()
			if err != nil {
				t.Fatalf("Failed to start miniredis: %v", err)
				return false
			}
			defer mr.Close()

			handler := newLimitedHandler(t, mr, requestsPerWindow, "discovery_rl_headers")

			req := httptest.NewRequest("GET", "/api/v1/categories", nil)
			req.RemoteAddr = "192.168.1.101:51000"
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			hasLimit := w.Header().Get("X-RateLimit-Limit") != ""
			hasRemaining := w.Header().Get("X-RateLimit-Remaining") != ""

			return hasLimit && hasRemaining
		},
		gen.IntRange(5, 50),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
