package health

import (
	"context"
	"net/http/httptest"
	"testing"
)

func TestRunAggregatesWorstStatus(t *testing.T) {
	c := NewChecker()
	c.Register("ok", func(ctx context.Context) (Status, string) {
		return StatusUp, ""
	})
	c.Register("slow", func(ctx context.Context) (Status, string) {
		return StatusDegraded, "cache disabled"
	})

	report := c.Run(context.Background())
	if report.Status != StatusDegraded {
		t.Fatalf("overall status = %s, want %s", report.Status, StatusDegraded)
	}
	if len(report.Checks) != 2 {
		t.Fatalf("got %d checks, want 2", len(report.Checks))
	}
	if report.Checks["slow"].Message != "cache disabled" {
		t.Errorf("message = %q", report.Checks["slow"].Message)
	}

	c.Register("broken", func(ctx context.Context) (Status, string) {
		return StatusDown, "index unavailable"
	})
	if got := c.Run(context.Background()).Status; got != StatusDown {
		t.Fatalf("overall status = %s, want %s", got, StatusDown)
	}
}

func TestReRegisterReplacesCheck(t *testing.T) {
	c := NewChecker()
	c.Register("engine", func(ctx context.Context) (Status, string) {
		return StatusDown, ""
	})
	c.Register("engine", func(ctx context.Context) (Status, string) {
		return StatusUp, ""
	})

	report := c.Run(context.Background())
	if len(report.Checks) != 1 {
		t.Fatalf("got %d checks, want 1", len(report.Checks))
	}
	if report.Status != StatusUp {
		t.Fatalf("status = %s, want %s", report.Status, StatusUp)
	}
}

func TestReadyHandlerStatusCodes(t *testing.T) {
	c := NewChecker()
	c.Register("engine", func(ctx context.Context) (Status, string) {
		return StatusUp, ""
	})

	rr := httptest.NewRecorder()
	c.ReadyHandler()(rr, httptest.NewRequest("GET", "/health/ready", nil))
	if rr.Code != 200 {
		t.Fatalf("ready status = %d, want 200", rr.Code)
	}

	c.Register("engine", func(ctx context.Context) (Status, string) {
		return StatusDown, "gone"
	})
	rr = httptest.NewRecorder()
	c.ReadyHandler()(rr, httptest.NewRequest("GET", "/health/ready", nil))
	if rr.Code != 503 {
		t.Fatalf("ready status = %d, want 503", rr.Code)
	}
}
