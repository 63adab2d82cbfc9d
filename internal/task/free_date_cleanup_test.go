package task

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/adityasiriexporters/MonthlyOrganics/internal/domain"
	"github.com/adityasiriexporters/MonthlyOrganics/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("production", "error")
	os.Exit(m.Run())
}

type fakeStore struct {
	deleted int64
	err     error
	cutoff  domain.Date
}

func (f *fakeStore) DeleteFreeDatesBefore(ctx context.Context, cutoff domain.Date) (int64, error) {
	f.cutoff = cutoff
	return f.deleted, f.err
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) Invalidate() {
	f.calls++
}

func TestFreeDateCleanup_Run(t *testing.T) {
	store := &fakeStore{deleted: 3}
	index := &fakeInvalidator{}

	job, err := NewFreeDateCleanup(store, index, "0 2 * * *")
	if err != nil {
		t.Fatal(err)
	}

	job.Run()
	if store.cutoff.IsZero() {
		t.Fatal("expected cleanup to pass today as cutoff")
	}
	if index.calls != 1 {
		t.Fatalf("invalidations = %d, want 1", index.calls)
	}

	// Nothing deleted: the cache stays warm.
	store.deleted = 0
	job.Run()
	if index.calls != 1 {
		t.Fatalf("invalidations = %d, want still 1", index.calls)
	}
}

func TestFreeDateCleanup_StoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("db down")}
	index := &fakeInvalidator{}

	job, err := NewFreeDateCleanup(store, index, "@daily")
	if err != nil {
		t.Fatal(err)
	}

	job.Run()
	if index.calls != 0 {
		t.Fatalf("cache must not be invalidated on failure, got %d calls", index.calls)
	}
}

func TestFreeDateCleanup_BadSchedule(t *testing.T) {
	if _, err := NewFreeDateCleanup(&fakeStore{}, &fakeInvalidator{}, "not a cron spec"); err == nil {
		t.Fatal("expected error for malformed schedule")
	}
}
