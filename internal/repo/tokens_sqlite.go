package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/oauth2"

	"interview-scheduler/internal/domain"
)

// SQLiteTokens stores credentials in a local SQLite file, for deployments
// where the calendar credential should not live in the shared database.
type SQLiteTokens struct{ db *sql.DB }

func OpenSQLiteTokens(path string) (*SQLiteTokens, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS tokens (
		account_name TEXT PRIMARY KEY,
		token TEXT)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tokens table: %w", err)
	}
	return &SQLiteTokens{db: db}, nil
}

func (s *SQLiteTokens) Close() error { return s.db.Close() }

func (s *SQLiteTokens) Load(ctx context.Context, principal string) (*oauth2.Token, error) {
	var tokenJSON []byte
	err := s.db.QueryRowContext(ctx, "SELECT token FROM tokens WHERE account_name = ?", principal).Scan(&tokenJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("token for %s: %w", principal, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(tokenJSON, &tok); err != nil {
		return nil, fmt.Errorf("unmarshal token: %w", err)
	}
	return &tok, nil
}

func (s *SQLiteTokens) Save(ctx context.Context, principal string, tok *oauth2.Token) error {
	tokenJSON, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, "INSERT OR REPLACE INTO tokens (account_name, token) VALUES (?, ?)", principal, tokenJSON)
	return err
}
