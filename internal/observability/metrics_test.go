package observability

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/article-service/internal/config"
)

func TestMetricsCounts(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordRequest("/api/articles", http.MethodGet, 200, time.Millisecond)
		}()
	}
	wg.Wait()
	m.RecordError("/api/auth/login", http.MethodPost, "INVALID_CREDENTIALS")

	snap := m.Snapshot()
	if snap.Requests["/api/articles|GET|200"] != 50 {
		t.Fatalf("unexpected request count %v", snap.Requests)
	}
	if snap.Errors["/api/auth/login|POST|INVALID_CREDENTIALS"] != 1 {
		t.Fatalf("unexpected error count %v", snap.Errors)
	}
}

func TestMetricsAverageLatency(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/articles", http.MethodGet, 200, 10*time.Millisecond)
	m.RecordRequest("/api/articles", http.MethodGet, 200, 30*time.Millisecond)
	m.RecordRequest("/api/articles", http.MethodGet, 404, 5*time.Millisecond)

	snap := m.Snapshot()
	if got := snap.AvgLatency["/api/articles|GET|200"]; got != 20*time.Millisecond {
		t.Fatalf("expected 20ms average, got %v", got)
	}
	if got := snap.AvgLatency["/api/articles|GET|404"]; got != 5*time.Millisecond {
		t.Fatalf("expected 5ms average, got %v", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", http.MethodGet, 200, 0)
	m.RecordError("/", http.MethodGet, "X")
	if len(m.Snapshot().Requests) != 0 {
		t.Fatal("nil metrics should be empty")
	}
}

func TestRequestLoggerRecordsRoute(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), m))
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/42", nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	if got := m.Snapshot().Requests["/items/:id|GET|204"]; got != 1 {
		t.Fatalf("expected route template counted once, got %v", m.Snapshot().Requests)
	}
}

func TestNewLoggerFallsBackOnBadLevel(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "loud"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if !logger.Core().Enabled(zap.InfoLevel) || logger.Core().Enabled(zap.DebugLevel) {
		t.Fatal("expected info level fallback")
	}
}
