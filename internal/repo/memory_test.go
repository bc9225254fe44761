package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"interview-scheduler/internal/domain"
)

func seedUsers(t *testing.T, mem *Memory, emails ...string) []*domain.User {
	t.Helper()
	var out []*domain.User
	for _, e := range emails {
		u, err := mem.Users.Create(context.Background(), &domain.User{Username: e, Email: e})
		if err != nil {
			t.Fatalf("create %s: %v", e, err)
		}
		out = append(out, u)
	}
	return out
}

func TestMemUsersDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	seedUsers(t, mem, "alice@x.com")

	_, err := mem.Users.Create(ctx, &domain.User{Username: "other", Email: " Alice@X.com "})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	users, _ := mem.Users.List(ctx)
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
}

func TestMemInterviewRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	users := seedUsers(t, mem, "alice@x.com", "bob@x.com")
	when := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	saved, err := mem.Interviews.Save(ctx, &domain.Interview{
		Title:         "Tech Screen",
		Description:   "desc",
		ScheduledTime: when,
		Interviewer:   users[0],
		Interviewee:   users[1],
	})
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if saved.Status != domain.StatusScheduled {
		t.Fatalf("expected default status, got %q", saved.Status)
	}

	got, err := mem.Interviews.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Tech Screen" || got.Description != "desc" || !got.ScheduledTime.Equal(when) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Interviewer.Email != "alice@x.com" || got.Interviewee.Email != "bob@x.com" {
		t.Fatalf("participants not hydrated: %+v %+v", got.Interviewer, got.Interviewee)
	}
}

func TestMemInterviewIdsMonotonic(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	users := seedUsers(t, mem, "a@x.com", "b@x.com")
	var last int64
	for i := 0; i < 5; i++ {
		in, err := mem.Interviews.Save(ctx, &domain.Interview{
			Title: "t", Description: "d", Interviewer: users[0], Interviewee: users[1],
		})
		if err != nil {
			t.Fatal(err)
		}
		if in.ID <= last {
			t.Fatalf("id %d not greater than %d", in.ID, last)
		}
		last = in.ID
	}
}

func TestMemInterviewValidation(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	users := seedUsers(t, mem, "a@x.com", "b@x.com")

	cases := map[string]*domain.Interview{
		"nil":            nil,
		"no title":       {Description: "d", Interviewer: users[0], Interviewee: users[1]},
		"no description": {Title: "t", Interviewer: users[0], Interviewee: users[1]},
		"no interviewer": {Title: "t", Description: "d", Interviewee: users[1]},
		"bad status":     {Title: "t", Description: "d", Interviewer: users[0], Interviewee: users[1], Status: "DONE"},
	}
	for name, in := range cases {
		if _, err := mem.Interviews.Save(ctx, in); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("%s: expected ErrInvalidArgument, got %v", name, err)
		}
	}

	_, err := mem.Interviews.Save(ctx, &domain.Interview{
		Title: "t", Description: "d", Interviewer: users[0], Interviewee: &domain.User{ID: 99},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestMemFindByParticipant(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	u := seedUsers(t, mem, "a@x.com", "b@x.com", "c@x.com")

	mk := func(a, b *domain.User) {
		if _, err := mem.Interviews.Save(ctx, &domain.Interview{Title: "t", Description: "d", Interviewer: a, Interviewee: b}); err != nil {
			t.Fatal(err)
		}
	}
	mk(u[0], u[1])
	mk(u[1], u[2])
	mk(u[2], u[0])

	for i, want := range []int{2, 2, 2} {
		got, err := mem.Interviews.FindByParticipant(ctx, u[i].ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != want {
			t.Errorf("user %d: got %d interviews, want %d", u[i].ID, len(got), want)
		}
		for _, in := range got {
			if in.Interviewer.ID != u[i].ID && in.Interviewee.ID != u[i].ID {
				t.Errorf("interview %d does not involve user %d", in.ID, u[i].ID)
			}
		}
	}

	none, _ := mem.Interviews.FindByParticipant(ctx, 42)
	if len(none) != 0 {
		t.Fatalf("expected no interviews, got %d", len(none))
	}
}

func TestMemMeetingInvariants(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	u := seedUsers(t, mem, "a@x.com", "b@x.com")
	in, err := mem.Interviews.Save(ctx, &domain.Interview{Title: "t", Description: "d", Interviewer: u[0], Interviewee: u[1]})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := mem.Meetings.Save(ctx, &domain.Meeting{Interview: in}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty link, got %v", err)
	}
	if _, err := mem.Meetings.Save(ctx, &domain.Meeting{JoinLink: "https://meet/x"}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for missing interview, got %v", err)
	}
	if _, err := mem.Meetings.Save(ctx, &domain.Meeting{JoinLink: "https://meet/x", Interview: &domain.Interview{ID: 77}}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown interview, got %v", err)
	}

	m, err := mem.Meetings.Save(ctx, &domain.Meeting{JoinLink: "https://meet/x", Interview: in, ScheduledTime: in.ScheduledTime})
	if err != nil {
		t.Fatal(err)
	}
	if m.Status != domain.StatusScheduled || m.Interview.ID != in.ID {
		t.Fatalf("unexpected meeting %+v", m)
	}
	got, err := mem.Meetings.FindByInterview(ctx, in.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != m.ID || got.Interview.Title != "t" {
		t.Fatalf("unexpected meeting %+v", got)
	}
}

func TestMemListDue(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	u := seedUsers(t, mem, "a@x.com", "b@x.com")
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	past, _ := mem.Interviews.Save(ctx, &domain.Interview{Title: "p", Description: "d", ScheduledTime: now.Add(-3 * time.Hour), Interviewer: u[0], Interviewee: u[1]})
	_, _ = mem.Interviews.Save(ctx, &domain.Interview{Title: "f", Description: "d", ScheduledTime: now.Add(time.Hour), Interviewer: u[0], Interviewee: u[1]})
	cancelled, _ := mem.Interviews.Save(ctx, &domain.Interview{Title: "c", Description: "d", ScheduledTime: now.Add(-3 * time.Hour), Interviewer: u[0], Interviewee: u[1], Status: domain.StatusCancelled})

	due, err := mem.Interviews.ListDue(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 1 || due[0].ID != past.ID {
		t.Fatalf("unexpected due list %+v (cancelled id %d)", due, cancelled.ID)
	}
}

func TestMemTokens(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	if _, err := mem.Tokens.Load(ctx, "user"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	exp := time.Now().Add(time.Hour).Round(time.Second)
	if err := mem.Tokens.Save(ctx, "user", &oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: exp}); err != nil {
		t.Fatal(err)
	}
	tok, err := mem.Tokens.Load(ctx, "user")
	if err != nil {
		t.Fatal(err)
	}
	if tok.AccessToken != "a" || tok.RefreshToken != "r" || !tok.Expiry.Equal(exp) {
		t.Fatalf("unexpected token %+v", tok)
	}
}
