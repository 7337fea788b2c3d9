package pipeline

import (
	"strings"
	"testing"
	"time"
)

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(10 * time.Millisecond)

	old := NewJob("Старый", "a.txt", nil, "")
	old.UpdatedAt = time.Now().Add(-time.Minute)
	fresh := NewJob("Свежий", "b.txt", nil, "")

	store.Put(old)
	store.Put(fresh)
	store.Cleanup()

	if store.Get(old.ID) != nil {
		t.Error("expired job should be evicted")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("fresh job should survive cleanup")
	}
}

func TestJobStore_CleanupConcurrentWithStatusUpdates(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob("Док", "a.txt", nil, "")
	store.Put(job)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			job.SetStatus(StatusChunking, "chunking")
		}
	}()
	for i := 0; i < 200; i++ {
		store.Cleanup()
	}
	<-done

	if store.Get(job.ID) == nil {
		t.Error("active job evicted during concurrent cleanup")
	}
}

func TestJob_SnapshotIsCopy(t *testing.T) {
	job := NewJob("Док", "a.txt", []byte("x"), "")
	job.SetStatus(StatusChunking, "chunking")
	job.AddError("boom")

	snap := job.Snapshot()
	if snap.Status != StatusChunking || snap.Phase != "chunking" {
		t.Errorf("snapshot = %+v", snap)
	}
	if len(snap.Errors) != 1 || snap.Errors[0] != "boom" {
		t.Errorf("errors = %v", snap.Errors)
	}

	snap.Errors = append(snap.Errors, "mutated")
	if len(job.Snapshot().Errors) > 2 {
		t.Error("snapshot mutation leaked into job")
	}
}

func TestNewJobID_UniqueAndSorted(t *testing.T) {
	seen := make(map[string]bool)
	var prev string
	for i := 0; i < 100; i++ {
		id := newJobID()
		if len(id) != 26 {
			t.Fatalf("job ID length = %d", len(id))
		}
		for _, r := range id {
			if !strings.ContainsRune(jobIDAlphabet, r) {
				t.Fatalf("job ID %s contains %q outside the base32 alphabet", id, r)
			}
		}
		if seen[id] {
			t.Fatalf("duplicate job ID %s", id)
		}
		seen[id] = true
		if prev != "" && id < prev {
			t.Fatalf("job IDs not monotonic: %s after %s", id, prev)
		}
		prev = id
	}
}
