package calendar

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

var Scopes = []string{
	calendar.CalendarScope,
	calendar.CalendarEventsScope,
}

// OAuthSettings selects where the Google client secrets come from. A
// credentials file downloaded from the Google console takes precedence over
// ClientID/ClientSecret. RedirectURL, when set, overrides the file's value.
type OAuthSettings struct {
	CredentialsFile string
	ClientID        string
	ClientSecret    string
	RedirectURL     string
}

var ErrNotConfigured = errors.New("google calendar not configured")

func NewOAuthConfig(s OAuthSettings) (*oauth2.Config, error) {
	var config *oauth2.Config
	if s.CredentialsFile != "" {
		data, err := os.ReadFile(s.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		config, err = google.ConfigFromJSON(data, Scopes...)
		if err != nil {
			return nil, fmt.Errorf("parse credentials file: %w", err)
		}
	} else {
		if s.ClientID == "" || s.ClientSecret == "" {
			return nil, ErrNotConfigured
		}
		config = &oauth2.Config{
			ClientID:     s.ClientID,
			ClientSecret: s.ClientSecret,
			Scopes:       Scopes,
			Endpoint:     google.Endpoint,
		}
	}
	if s.RedirectURL != "" {
		config.RedirectURL = s.RedirectURL
	}
	if config.RedirectURL == "" {
		return nil, fmt.Errorf("%w: redirect url required", ErrNotConfigured)
	}
	return config, nil
}

type unconfigured struct{}

func (unconfigured) EnsureAuthorized(context.Context) (*oauth2.Token, error) {
	return nil, ErrNotConfigured
}

// Unconfigured stands in for the Authorizer when no client secrets are set:
// every booking fails with ErrNotConfigured.
var Unconfigured CredentialSource = unconfigured{}
