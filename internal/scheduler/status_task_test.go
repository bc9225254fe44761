package scheduler

import (
	"context"
	"testing"
	"time"

	"interview-scheduler/internal/domain"
)

func TestStatusTaskSweep(t *testing.T) {
	e := newEnv(t, tokenAuth{})
	alice := e.register(t, "alice", "alice@x.com")
	bob := e.register(t, "bob", "bob@x.com")
	ctx := context.Background()

	past := time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)
	running := time.Date(2030, 1, 1, 9, 30, 0, 0, time.UTC)
	now := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)

	done, err := e.orch.ScheduleInterview(ctx, alice.ID, bob.ID, "old", "d", past)
	if err != nil {
		t.Fatal(err)
	}
	live, err := e.orch.ScheduleInterview(ctx, alice.ID, bob.ID, "live", "d", running)
	if err != nil {
		t.Fatal(err)
	}

	task := NewStatusTask(e.mem.Interviews, e.mem.Meetings)
	task.now = func() time.Time { return now }

	n, err := task.Sweep(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("want 2 changes, got %d", n)
	}
	in, _ := e.mem.Interviews.FindByID(ctx, done.Interview.ID)
	if in.Status != domain.StatusCompleted {
		t.Fatalf("old interview status = %s", in.Status)
	}
	m, _ := e.mem.Meetings.FindByInterview(ctx, done.Interview.ID)
	if m.Status != domain.StatusCompleted {
		t.Fatalf("old meeting status = %s", m.Status)
	}
	in, _ = e.mem.Interviews.FindByID(ctx, live.Interview.ID)
	if in.Status != domain.StatusScheduled {
		t.Fatalf("running interview status = %s", in.Status)
	}

	if n, _ := task.Sweep(ctx); n != 0 {
		t.Fatalf("second sweep changed %d records", n)
	}
}

func TestStatusTaskSkipsCancelled(t *testing.T) {
	e := newEnv(t, tokenAuth{})
	alice := e.register(t, "alice", "alice@x.com")
	bob := e.register(t, "bob", "bob@x.com")
	ctx := context.Background()

	m, err := e.orch.ScheduleInterview(ctx, alice.ID, bob.ID, "old", "d", time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.orch.UpdateInterviewStatus(ctx, m.Interview.ID, domain.StatusCancelled); err != nil {
		t.Fatal(err)
	}
	task := NewStatusTask(e.mem.Interviews, e.mem.Meetings)
	task.now = func() time.Time { return time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC) }
	if n, err := task.Sweep(ctx); err != nil || n != 0 {
		t.Fatalf("sweep = %d, %v", n, err)
	}
}
