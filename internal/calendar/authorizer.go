package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qiniu/x/xlog"
	"golang.org/x/oauth2"

	"interview-scheduler/internal/domain"
	"interview-scheduler/internal/repo"
)

// ExpiryWindow is how close to expiry a stored token may get before the
// operator is asked to authorize again.
const ExpiryWindow = 60 * time.Second

// Authorizer owns the stored calendar credential. It never refreshes or
// exchanges on its own during booking: a missing or expiring credential is
// reported with the consent URL and the exchange happens out of band via
// Exchange.
type Authorizer struct {
	config    *oauth2.Config
	tokens    repo.TokenStore
	principal string
	now       func() time.Time
	xl        *xlog.Logger
}

func NewAuthorizer(config *oauth2.Config, tokens repo.TokenStore, principal string) *Authorizer {
	return &Authorizer{
		config:    config,
		tokens:    tokens,
		principal: principal,
		now:       time.Now,
		xl:        xlog.New("calendar-auth"),
	}
}

func (a *Authorizer) Principal() string { return a.principal }

func (a *Authorizer) AuthURL() string {
	state := fmt.Sprintf("%s_%d", a.principal, a.now().Unix())
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (a *Authorizer) EnsureAuthorized(ctx context.Context) (*oauth2.Token, error) {
	tok, err := a.tokens.Load(ctx, a.principal)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	if tok == nil || tok.AccessToken == "" || a.expiringSoon(tok) {
		url := a.AuthURL()
		a.xl.Infof("Please authorize the application by visiting this URL: %s", url)
		return nil, &domain.AuthorizationRequiredError{URL: url}
	}
	return tok, nil
}

// A zero expiry is treated as not expiring.
func (a *Authorizer) expiringSoon(tok *oauth2.Token) bool {
	if tok.Expiry.IsZero() {
		return false
	}
	return tok.Expiry.Sub(a.now()) <= ExpiryWindow
}

// Exchange trades an authorization code from the provider redirect for a
// token and stores it under the principal.
func (a *Authorizer) Exchange(ctx context.Context, code string) error {
	if code == "" {
		return domain.InvalidArgument("authorization code required")
	}
	tok, err := a.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange code for token: %w", err)
	}
	if err := a.tokens.Save(ctx, a.principal, tok); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	a.xl.Infof("stored calendar credential for %s (expires %s)", a.principal, tok.Expiry.Format(time.RFC3339))
	return nil
}
