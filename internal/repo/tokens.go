package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/oauth2"

	"interview-scheduler/internal/domain"
)

type Tokens struct{ pool *pgxpool.Pool }

func NewTokens(p *pgxpool.Pool) *Tokens { return &Tokens{pool: p} }

func (r *Tokens) Load(ctx context.Context, principal string) (*oauth2.Token, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT token FROM oauth_tokens WHERE principal=$1`, principal).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("token for %s: %w", principal, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("unmarshal token: %w", err)
	}
	return &tok, nil
}

func (r *Tokens) Save(ctx context.Context, principal string, tok *oauth2.Token) error {
	raw, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO oauth_tokens(principal, token, updated_at)
		VALUES($1,$2,now())
		ON CONFLICT (principal) DO UPDATE
		SET token=EXCLUDED.token, updated_at=EXCLUDED.updated_at
	`, principal, raw)
	return err
}
