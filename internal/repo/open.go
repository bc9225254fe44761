package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/qiniu/x/log"

	"interview-scheduler/internal/config"
	"interview-scheduler/internal/db"
)

// Set is the store bundle selected by configuration.
type Set struct {
	Users      UserStore
	Interviews InterviewStore
	Meetings   MeetingStore
	Tokens     TokenStore

	// Pool is nil unless a Postgres driver is configured.
	Pool *pgxpool.Pool

	closers []func()
}

// Open connects the configured drivers. With migrate set the embedded SQL
// migrations are applied before returning.
func Open(ctx context.Context, conf *config.Config, migrate bool) (*Set, error) {
	s := &Set{}
	needPool := conf.Storage.Driver == config.DriverPostgres || conf.Tokens.Driver == config.DriverPostgres
	if needPool {
		pool, err := db.Connect(ctx, conf.Storage.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.Pool = pool
		s.closers = append(s.closers, pool.Close)
		if migrate {
			if err := db.ApplyMigrations(ctx, pool); err != nil {
				s.Close()
				return nil, err
			}
		}
	}

	var mem *Memory
	switch conf.Storage.Driver {
	case config.DriverPostgres:
		s.Users, s.Interviews, s.Meetings = NewUsers(s.Pool), NewInterviews(s.Pool), NewMeetings(s.Pool)
	case config.DriverMemory:
		log.Warn("using in-memory storage, data is lost on exit")
		mem = NewMemory()
		s.Users, s.Interviews, s.Meetings = mem.Users, mem.Interviews, mem.Meetings
	default:
		s.Close()
		return nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}

	switch conf.Tokens.Driver {
	case config.DriverPostgres:
		s.Tokens = NewTokens(s.Pool)
	case config.DriverSQLite:
		st, err := OpenSQLiteTokens(conf.Tokens.SQLitePath)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Tokens = st
		s.closers = append(s.closers, func() { _ = st.Close() })
	case config.DriverMemory:
		if mem == nil {
			mem = NewMemory()
		}
		s.Tokens = mem.Tokens
	default:
		s.Close()
		return nil, fmt.Errorf("unknown token driver %q", conf.Tokens.Driver)
	}
	return s, nil
}

func (s *Set) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
