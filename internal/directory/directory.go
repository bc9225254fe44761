// Package directory keeps the registered participants and picks random
// interview pairs.
package directory

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/qiniu/x/xlog"

	"interview-scheduler/internal/domain"
	"interview-scheduler/internal/repo"
)

type Directory struct {
	users repo.UserStore
	xl    *xlog.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

func New(users repo.UserStore) *Directory {
	return &Directory{
		users: users,
		xl:    xlog.New("directory"),
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithRand replaces the random source used by PickRandomPair.
func (d *Directory) WithRand(r *rand.Rand) *Directory {
	d.mu.Lock()
	d.rnd = r
	d.mu.Unlock()
	return d
}

func (d *Directory) Register(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u == nil {
		return nil, domain.InvalidArgument("user is required")
	}
	candidate := domain.User{
		Username: strings.TrimSpace(u.Username),
		Email:    strings.ToLower(strings.TrimSpace(u.Email)),
	}
	err := validation.ValidateStruct(&candidate,
		validation.Field(&candidate.Username, validation.Required, validation.Length(1, 100)),
		validation.Field(&candidate.Email, validation.Required, is.EmailFormat),
	)
	if err != nil {
		return nil, domain.InvalidArgument("%v", err)
	}

	created, err := d.users.Create(ctx, &candidate)
	if err != nil {
		d.xl.Infof("register %s rejected: %v", candidate.Email, err)
		return nil, err
	}
	d.xl.Infof("registered user %d <%s>", created.ID, created.Email)
	return created, nil
}

func (d *Directory) ListAll(ctx context.Context) ([]domain.User, error) {
	return d.users.List(ctx)
}

func (d *Directory) Get(ctx context.Context, id int64) (*domain.User, error) {
	return d.users.Get(ctx, id)
}

// PickRandomPair draws two distinct users. The first index is uniform, the
// second is redrawn until it differs from the first.
func (d *Directory) PickRandomPair(ctx context.Context) (domain.User, domain.User, error) {
	users, err := d.users.List(ctx)
	if err != nil {
		return domain.User{}, domain.User{}, err
	}
	if len(users) < 2 {
		return domain.User{}, domain.User{}, domain.ErrInsufficientParticipants
	}

	d.mu.Lock()
	first := d.rnd.Intn(len(users))
	second := d.rnd.Intn(len(users))
	for second == first {
		second = d.rnd.Intn(len(users))
	}
	d.mu.Unlock()

	return users[first], users[second], nil
}
