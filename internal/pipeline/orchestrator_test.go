package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestOrchestrator_ProcessesSubmittedJob(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxQueueSize = 4
	cfg.JobTTL = time.Hour
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	orch := NewOrchestrator(cfg, NewProcessor(cfg, nil, log), log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	orch.Start(ctx)
	defer orch.Stop()

	job := NewJob("ПП РФ 491", "rules.txt", decreeBody(), "")
	if err := orch.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		snap := orch.GetJob(job.ID).Snapshot()
		if snap.Status == StatusCompleted {
			break
		}
		if snap.Status == StatusFailed {
			t.Fatalf("job failed: %v", snap.Errors)
		}
		if time.Now().After(deadline) {
			t.Fatalf("job stuck in status %s", snap.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestOrchestrator_SubmitAfterStop(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxQueueSize = 4
	cfg.JobTTL = time.Hour
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	orch := NewOrchestrator(cfg, NewProcessor(cfg, nil, log), log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	orch.Start(ctx)
	orch.Stop()

	// A handler still holding the orchestrator must be able to submit
	// during shutdown; the job parks in the queue and is never run.
	job := NewJob("Поздний", "late.txt", decreeBody(), "")
	if err := orch.Submit(job); err != nil {
		t.Fatalf("submit after stop: %v", err)
	}
	if orch.GetJob(job.ID) == nil {
		t.Error("late job not recorded in the store")
	}
}
