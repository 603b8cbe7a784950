package service

import (
	"context"
	"testing"
)

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	env := newTestEnv(t)
	if _, err := NewScheduler(env.manager, "every now and then", "@every 1m"); err == nil {
		t.Fatalf("expected error for bad save spec")
	}
	if _, err := NewScheduler(env.manager, "@every 30s", "61 * * * *"); err == nil {
		t.Fatalf("expected error for bad evict spec")
	}
}

func TestSchedulerJobs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if _, err := env.manager.Get(ctx, "p1"); err != nil {
		t.Fatal(err)
	}

	s, err := NewScheduler(env.manager, "@every 30s", "@every 1m")
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	s.flush()
	if env.store.Len() != 1 {
		t.Fatalf("autosave wrote %d saves", env.store.Len())
	}
	s.evict()
	if env.manager.Len() != 1 {
		t.Fatalf("fresh session evicted")
	}

	s.Start()
	s.Stop()
}
