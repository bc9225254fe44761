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

type rowScanner interface {
	Scan(dest ...any) error
}

const interviewSelect = `
	SELECT i.id, i.title, i.description, i.scheduled_time, i.status, i.created_at,
	       a.id, a.username, a.email, a.created_at,
	       b.id, b.username, b.email, b.created_at
	FROM interviews i
	JOIN users a ON a.id = i.interviewer_id
	JOIN users b ON b.id = i.interviewee_id`

type Interviews struct{ pool *pgxpool.Pool }

func NewInterviews(p *pgxpool.Pool) *Interviews { return &Interviews{pool: p} }

func scanInterview(row rowScanner) (*domain.Interview, error) {
	in := domain.Interview{Interviewer: &domain.User{}, Interviewee: &domain.User{}}
	var status string
	err := row.Scan(&in.ID, &in.Title, &in.Description, &in.ScheduledTime, &status, &in.CreatedAt,
		&in.Interviewer.ID, &in.Interviewer.Username, &in.Interviewer.Email, &in.Interviewer.CreatedAt,
		&in.Interviewee.ID, &in.Interviewee.Username, &in.Interviewee.Email, &in.Interviewee.CreatedAt)
	if err != nil {
		return nil, err
	}
	in.Status = domain.Status(status)
	return &in, nil
}

func (r *Interviews) Save(ctx context.Context, in *domain.Interview) (*domain.Interview, error) {
	if err := checkInterview(in); err != nil {
		return nil, err
	}
	status := defaultStatus(in.Status)

	var id int64
	if in.ID == 0 {
		err := r.pool.QueryRow(ctx, `
			INSERT INTO interviews(title, description, scheduled_time, interviewer_id, interviewee_id, status)
			VALUES($1,$2,$3,$4,$5,$6)
			RETURNING id
		`, in.Title, in.Description, in.ScheduledTime.UTC(), in.Interviewer.ID, in.Interviewee.ID, string(status)).Scan(&id)
		if err != nil {
			return nil, writeErr("insert interview", err)
		}
	} else {
		err := r.pool.QueryRow(ctx, `
			UPDATE interviews
			SET title=$1, description=$2, scheduled_time=$3, interviewer_id=$4, interviewee_id=$5, status=$6
			WHERE id=$7
			RETURNING id
		`, in.Title, in.Description, in.ScheduledTime.UTC(), in.Interviewer.ID, in.Interviewee.ID, string(status), in.ID).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("interview %d: %w", in.ID, domain.ErrNotFound)
		}
		if err != nil {
			return nil, writeErr("update interview", err)
		}
	}
	return r.FindByID(ctx, id)
}

func (r *Interviews) FindByID(ctx context.Context, id int64) (*domain.Interview, error) {
	in, err := scanInterview(r.pool.QueryRow(ctx, interviewSelect+` WHERE i.id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("interview %d: %w", id, domain.ErrNotFound)
	}
	return in, err
}

func (r *Interviews) FindAll(ctx context.Context) ([]domain.Interview, error) {
	return r.list(ctx, interviewSelect+` ORDER BY i.scheduled_time, i.id`)
}

func (r *Interviews) FindByParticipant(ctx context.Context, userID int64) ([]domain.Interview, error) {
	return r.list(ctx, interviewSelect+`
		WHERE i.interviewer_id=$1 OR i.interviewee_id=$1
		ORDER BY i.scheduled_time, i.id`, userID)
}

func (r *Interviews) ListDue(ctx context.Context, startedBefore time.Time) ([]domain.Interview, error) {
	return r.list(ctx, interviewSelect+`
		WHERE i.status='SCHEDULED' AND i.scheduled_time <= $1
		ORDER BY i.scheduled_time`, startedBefore.UTC())
}

func (r *Interviews) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	if !status.Valid() {
		return domain.InvalidArgument("unknown status %q", status)
	}
	res, err := r.pool.Exec(ctx, `UPDATE interviews SET status=$1 WHERE id=$2`, string(status), id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("interview %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Interviews) list(ctx context.Context, q string, args ...any) ([]domain.Interview, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Interview
	for rows.Next() {
		in, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *in)
	}
	return out, rows.Err()
}
