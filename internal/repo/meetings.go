package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"interview-scheduler/internal/domain"
)

const meetingSelect = `
	SELECT m.id, m.join_link, m.event_id, m.scheduled_time, m.status, m.created_at,
	       i.id, i.title, i.description, i.scheduled_time, i.status, i.created_at,
	       a.id, a.username, a.email, a.created_at,
	       b.id, b.username, b.email, b.created_at
	FROM meetings m
	JOIN interviews i ON i.id = m.interview_id
	JOIN users a ON a.id = i.interviewer_id
	JOIN users b ON b.id = i.interviewee_id`

type Meetings struct{ pool *pgxpool.Pool }

func NewMeetings(p *pgxpool.Pool) *Meetings { return &Meetings{pool: p} }

func scanMeeting(row rowScanner) (*domain.Meeting, error) {
	in := &domain.Interview{Interviewer: &domain.User{}, Interviewee: &domain.User{}}
	m := domain.Meeting{Interview: in}
	var mStatus, iStatus string
	err := row.Scan(&m.ID, &m.JoinLink, &m.EventID, &m.ScheduledTime, &mStatus, &m.CreatedAt,
		&in.ID, &in.Title, &in.Description, &in.ScheduledTime, &iStatus, &in.CreatedAt,
		&in.Interviewer.ID, &in.Interviewer.Username, &in.Interviewer.Email, &in.Interviewer.CreatedAt,
		&in.Interviewee.ID, &in.Interviewee.Username, &in.Interviewee.Email, &in.Interviewee.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Status = domain.Status(mStatus)
	in.Status = domain.Status(iStatus)
	return &m, nil
}

func (r *Meetings) Save(ctx context.Context, m *domain.Meeting) (*domain.Meeting, error) {
	if err := checkMeeting(m); err != nil {
		return nil, err
	}
	status := defaultStatus(m.Status)

	var id int64
	if m.ID == 0 {
		err := r.pool.QueryRow(ctx, `
			INSERT INTO meetings(join_link, event_id, scheduled_time, interview_id, status)
			VALUES($1,$2,$3,$4,$5)
			RETURNING id
		`, m.JoinLink, m.EventID, m.ScheduledTime.UTC(), m.Interview.ID, string(status)).Scan(&id)
		if err != nil {
			return nil, writeErr("insert meeting", err)
		}
	} else {
		err := r.pool.QueryRow(ctx, `
			UPDATE meetings
			SET join_link=$1, event_id=$2, scheduled_time=$3, interview_id=$4, status=$5
			WHERE id=$6
			RETURNING id
		`, m.JoinLink, m.EventID, m.ScheduledTime.UTC(), m.Interview.ID, string(status), m.ID).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("meeting %d: %w", m.ID, domain.ErrNotFound)
		}
		if err != nil {
			return nil, writeErr("update meeting", err)
		}
	}

	out, err := scanMeeting(r.pool.QueryRow(ctx, meetingSelect+` WHERE m.id=$1`, id))
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Meetings) FindAll(ctx context.Context) ([]domain.Meeting, error) {
	return r.list(ctx, meetingSelect+` ORDER BY m.scheduled_time, m.id`)
}

func (r *Meetings) FindByInterview(ctx context.Context, interviewID int64) (*domain.Meeting, error) {
	m, err := scanMeeting(r.pool.QueryRow(ctx, meetingSelect+` WHERE m.interview_id=$1 ORDER BY m.id DESC LIMIT 1`, interviewID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("meeting for interview %d: %w", interviewID, domain.ErrNotFound)
	}
	return m, err
}

func (r *Meetings) ListDue(ctx context.Context, startedBefore time.Time) ([]domain.Meeting, error) {
	return r.list(ctx, meetingSelect+`
		WHERE m.status='SCHEDULED' AND m.scheduled_time <= $1
		ORDER BY m.scheduled_time`, startedBefore.UTC())
}

func (r *Meetings) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	if !status.Valid() {
		return domain.InvalidArgument("unknown status %q", status)
	}
	res, err := r.pool.Exec(ctx, `UPDATE meetings SET status=$1 WHERE id=$2`, string(status), id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("meeting %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Meetings) list(ctx context.Context, q string, args ...any) ([]domain.Meeting, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}
