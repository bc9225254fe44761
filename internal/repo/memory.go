package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"interview-scheduler/internal/domain"
)

// Memory is a process-local implementation of every store, used by the
// "memory" storage driver and by tests. Ids are assigned from per-table
// counters starting at 1.
type Memory struct {
	Users      *MemUsers
	Interviews *MemInterviews
	Meetings   *MemMeetings
	Tokens     *MemTokens
}

type memState struct {
	mu sync.RWMutex

	users      map[int64]domain.User
	interviews map[int64]memInterview
	meetings   map[int64]memMeeting
	tokens     map[string]oauth2.Token

	userSeq, interviewSeq, meetingSeq int64
}

type memInterview struct {
	in            domain.Interview
	interviewerID int64
	intervieweeID int64
}

type memMeeting struct {
	m           domain.Meeting
	interviewID int64
}

func NewMemory() *Memory {
	st := &memState{
		users:      map[int64]domain.User{},
		interviews: map[int64]memInterview{},
		meetings:   map[int64]memMeeting{},
		tokens:     map[string]oauth2.Token{},
	}
	return &Memory{
		Users:      &MemUsers{st: st},
		Interviews: &MemInterviews{st: st},
		Meetings:   &MemMeetings{st: st},
		Tokens:     &MemTokens{st: st},
	}
}

type MemUsers struct{ st *memState }

func (r *MemUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	email := normalizeEmail(u.Email)
	for _, existing := range r.st.users {
		if existing.Email == email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.st.userSeq++
	out := domain.User{ID: r.st.userSeq, Username: u.Username, Email: email, CreatedAt: time.Now().UTC()}
	r.st.users[out.ID] = out
	return &out, nil
}

func (r *MemUsers) Get(_ context.Context, id int64) (*domain.User, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	u, ok := r.st.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return &u, nil
}

func (r *MemUsers) List(_ context.Context) ([]domain.User, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	out := make([]domain.User, 0, len(r.st.users))
	for _, u := range r.st.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type MemInterviews struct{ st *memState }

// hydrate must be called with st.mu held.
func (st *memState) hydrateInterview(rec memInterview) domain.Interview {
	in := rec.in
	if u, ok := st.users[rec.interviewerID]; ok {
		in.Interviewer = &u
	} else {
		in.Interviewer = &domain.User{ID: rec.interviewerID}
	}
	if u, ok := st.users[rec.intervieweeID]; ok {
		in.Interviewee = &u
	} else {
		in.Interviewee = &domain.User{ID: rec.intervieweeID}
	}
	return in
}

func (r *MemInterviews) Save(_ context.Context, in *domain.Interview) (*domain.Interview, error) {
	if err := checkInterview(in); err != nil {
		return nil, err
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for _, id := range []int64{in.Interviewer.ID, in.Interviewee.ID} {
		if _, ok := r.st.users[id]; !ok {
			return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
		}
	}

	rec := memInterview{in: *in, interviewerID: in.Interviewer.ID, intervieweeID: in.Interviewee.ID}
	rec.in.Interviewer, rec.in.Interviewee = nil, nil
	rec.in.Status = defaultStatus(in.Status)
	if rec.in.ID == 0 {
		r.st.interviewSeq++
		rec.in.ID = r.st.interviewSeq
		rec.in.CreatedAt = time.Now().UTC()
	} else {
		prev, ok := r.st.interviews[rec.in.ID]
		if !ok {
			return nil, fmt.Errorf("interview %d: %w", rec.in.ID, domain.ErrNotFound)
		}
		rec.in.CreatedAt = prev.in.CreatedAt
	}
	r.st.interviews[rec.in.ID] = rec

	out := r.st.hydrateInterview(rec)
	return &out, nil
}

func (r *MemInterviews) FindByID(_ context.Context, id int64) (*domain.Interview, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	rec, ok := r.st.interviews[id]
	if !ok {
		return nil, fmt.Errorf("interview %d: %w", id, domain.ErrNotFound)
	}
	out := r.st.hydrateInterview(rec)
	return &out, nil
}

func (r *MemInterviews) FindAll(_ context.Context) ([]domain.Interview, error) {
	return r.filter(func(memInterview) bool { return true }), nil
}

func (r *MemInterviews) FindByParticipant(_ context.Context, userID int64) ([]domain.Interview, error) {
	return r.filter(func(rec memInterview) bool {
		return rec.interviewerID == userID || rec.intervieweeID == userID
	}), nil
}

func (r *MemInterviews) ListDue(_ context.Context, startedBefore time.Time) ([]domain.Interview, error) {
	return r.filter(func(rec memInterview) bool {
		return rec.in.Status == domain.StatusScheduled && !rec.in.ScheduledTime.After(startedBefore)
	}), nil
}

func (r *MemInterviews) UpdateStatus(_ context.Context, id int64, status domain.Status) error {
	if !status.Valid() {
		return domain.InvalidArgument("unknown status %q", status)
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	rec, ok := r.st.interviews[id]
	if !ok {
		return fmt.Errorf("interview %d: %w", id, domain.ErrNotFound)
	}
	rec.in.Status = status
	r.st.interviews[id] = rec
	return nil
}

func (r *MemInterviews) filter(keep func(memInterview) bool) []domain.Interview {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	var out []domain.Interview
	for _, rec := range r.st.interviews {
		if keep(rec) {
			out = append(out, r.st.hydrateInterview(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledTime.Equal(out[j].ScheduledTime) {
			return out[i].ScheduledTime.Before(out[j].ScheduledTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type MemMeetings struct{ st *memState }

func (st *memState) hydrateMeeting(rec memMeeting) domain.Meeting {
	m := rec.m
	if irec, ok := st.interviews[rec.interviewID]; ok {
		in := st.hydrateInterview(irec)
		m.Interview = &in
	} else {
		m.Interview = &domain.Interview{ID: rec.interviewID}
	}
	return m
}

func (r *MemMeetings) Save(_ context.Context, m *domain.Meeting) (*domain.Meeting, error) {
	if err := checkMeeting(m); err != nil {
		return nil, err
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if _, ok := r.st.interviews[m.Interview.ID]; !ok {
		return nil, fmt.Errorf("interview %d: %w", m.Interview.ID, domain.ErrNotFound)
	}

	rec := memMeeting{m: *m, interviewID: m.Interview.ID}
	rec.m.Interview = nil
	rec.m.Status = defaultStatus(m.Status)
	if rec.m.ID == 0 {
		r.st.meetingSeq++
		rec.m.ID = r.st.meetingSeq
		rec.m.CreatedAt = time.Now().UTC()
	} else {
		prev, ok := r.st.meetings[rec.m.ID]
		if !ok {
			return nil, fmt.Errorf("meeting %d: %w", rec.m.ID, domain.ErrNotFound)
		}
		rec.m.CreatedAt = prev.m.CreatedAt
	}
	r.st.meetings[rec.m.ID] = rec

	out := r.st.hydrateMeeting(rec)
	return &out, nil
}

func (r *MemMeetings) FindAll(_ context.Context) ([]domain.Meeting, error) {
	return r.filter(func(memMeeting) bool { return true }), nil
}

func (r *MemMeetings) FindByInterview(_ context.Context, interviewID int64) (*domain.Meeting, error) {
	list := r.filter(func(rec memMeeting) bool { return rec.interviewID == interviewID })
	if len(list) == 0 {
		return nil, fmt.Errorf("meeting for interview %d: %w", interviewID, domain.ErrNotFound)
	}
	latest := list[0]
	for _, m := range list[1:] {
		if m.ID > latest.ID {
			latest = m
		}
	}
	return &latest, nil
}

func (r *MemMeetings) ListDue(_ context.Context, startedBefore time.Time) ([]domain.Meeting, error) {
	return r.filter(func(rec memMeeting) bool {
		return rec.m.Status == domain.StatusScheduled && !rec.m.ScheduledTime.After(startedBefore)
	}), nil
}

func (r *MemMeetings) UpdateStatus(_ context.Context, id int64, status domain.Status) error {
	if !status.Valid() {
		return domain.InvalidArgument("unknown status %q", status)
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	rec, ok := r.st.meetings[id]
	if !ok {
		return fmt.Errorf("meeting %d: %w", id, domain.ErrNotFound)
	}
	rec.m.Status = status
	r.st.meetings[id] = rec
	return nil
}

func (r *MemMeetings) filter(keep func(memMeeting) bool) []domain.Meeting {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	var out []domain.Meeting
	for _, rec := range r.st.meetings {
		if keep(rec) {
			out = append(out, r.st.hydrateMeeting(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledTime.Equal(out[j].ScheduledTime) {
			return out[i].ScheduledTime.Before(out[j].ScheduledTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type MemTokens struct{ st *memState }

func (r *MemTokens) Load(_ context.Context, principal string) (*oauth2.Token, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	tok, ok := r.st.tokens[principal]
	if !ok {
		return nil, fmt.Errorf("token for %s: %w", principal, domain.ErrNotFound)
	}
	return &tok, nil
}

func (r *MemTokens) Save(_ context.Context, principal string, tok *oauth2.Token) error {
	if tok == nil {
		return domain.InvalidArgument("token is required")
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.tokens[principal] = *tok
	return nil
}
