package health

import (
	"context"
	"errors"
	"testing"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubChecker struct{ err error }

func (s stubChecker) HealthCheck(context.Context) error { return s.err }

func TestCheckAllHealthy(t *testing.T) {
	svc := New(stubPinger{}, stubPinger{}, stubChecker{})

	report := svc.Check(context.Background())

	if report.Status != Healthy {
		t.Fatalf("status = %q, want %q", report.Status, Healthy)
	}
	for name, result := range report.Checks {
		if result != CheckOK {
			t.Errorf("check %q = %q, want ok", name, result)
		}
	}
	if len(report.Checks) != 3 {
		t.Fatalf("got %d checks, want 3", len(report.Checks))
	}
}

func TestCheckDegradedOnCatalogFailure(t *testing.T) {
	svc := New(stubPinger{err: errors.New("down")}, stubPinger{}, nil)

	report := svc.Check(context.Background())

	if report.Status != Degraded {
		t.Fatalf("status = %q, want %q", report.Status, Degraded)
	}
	if report.Checks["catalog"] != CheckError {
		t.Errorf("catalog check = %q, want error", report.Checks["catalog"])
	}
	if report.Checks["favorites"] != CheckOK {
		t.Errorf("favorites check = %q, want ok", report.Checks["favorites"])
	}
}

func TestCheckSkipsNilEmbedding(t *testing.T) {
	svc := New(stubPinger{}, stubPinger{}, nil)

	report := svc.Check(context.Background())

	if _, ok := report.Checks["embedding"]; ok {
		t.Fatal("embedding check present despite nil checker")
	}
}
