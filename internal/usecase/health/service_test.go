package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockSnapshots struct {
	snap *catalog.Snapshot
	err  error
}

func (m *mockSnapshots) Current(_ context.Context) (*catalog.Snapshot, error) { return m.snap, m.err }

func loaded() *mockSnapshots {
	return &mockSnapshots{snap: catalog.NewSnapshot(7, nil, catalog.Dictionary{})}
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{}, loaded(), time.Hour)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{"database", "cache", "snapshot"} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
	if r.SnapshotVersion != 7 {
		t.Errorf("expected snapshot version 7, got %d", r.SnapshotVersion)
	}
}

func TestCheck_DBError(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("conn refused")}, nil, loaded(), 0)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{err: errors.New("timeout")}, loaded(), 0)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
}

func TestCheck_NoCache(t *testing.T) {
	svc := New(&mockPinger{}, nil, loaded(), 0)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["cache"]; ok {
		t.Error("cache check should be absent when cache is nil")
	}
}

func TestCheck_SnapshotUnavailable(t *testing.T) {
	svc := New(&mockPinger{}, nil, &mockSnapshots{err: domain.ErrSnapshotUnavailable}, 0)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["snapshot"] != CheckError {
		t.Errorf("expected snapshot %q, got %q", CheckError, r.Checks["snapshot"])
	}
}

func TestCheck_SnapshotStale(t *testing.T) {
	svc := New(&mockPinger{}, nil, loaded(), time.Nanosecond)
	time.Sleep(time.Millisecond)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["snapshot"] != CheckStale {
		t.Errorf("expected snapshot %q, got %q", CheckStale, r.Checks["snapshot"])
	}
	if r.SnapshotAge <= 0 {
		t.Errorf("expected positive snapshot age, got %v", r.SnapshotAge)
	}
}
