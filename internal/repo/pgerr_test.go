package repo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"interview-scheduler/internal/domain"
)

func TestWriteErrMapsForeignKeyViolation(t *testing.T) {
	fk := fmt.Errorf("scan: %w", &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "interviews_interviewer_id_fkey"})
	if err := writeErr("insert interview", fk); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	other := &pgconn.PgError{Code: "23514"}
	err := writeErr("insert meeting", other)
	if errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("check violation mapped to ErrNotFound: %v", err)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23514" {
		t.Fatalf("cause lost: %v", err)
	}
}
