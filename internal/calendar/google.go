package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

type EventRequest struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Attendees   []string
	// ConferenceRequestID is the provider-side idempotency key for the
	// conference creation. It must be fresh per call.
	ConferenceRequestID string
}

type CreatedEvent struct {
	EventID  string
	JoinLink string
}

// Provider creates timed events with an auto-generated video link.
type Provider interface {
	InsertEvent(ctx context.Context, tok *oauth2.Token, req EventRequest) (*CreatedEvent, error)
}

type GoogleProvider struct {
	config     *oauth2.Config
	calendarID string
	opts       []option.ClientOption
}

func NewGoogleProvider(config *oauth2.Config, calendarID string, opts ...option.ClientOption) *GoogleProvider {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleProvider{config: config, calendarID: calendarID, opts: opts}
}

func (g *GoogleProvider) InsertEvent(ctx context.Context, tok *oauth2.Token, req EventRequest) (*CreatedEvent, error) {
	client := g.config.Client(ctx, tok)
	opts := append([]option.ClientOption{option.WithHTTPClient(client)}, g.opts...)
	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	event := &calendar.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Start: &calendar.EventDateTime{
			DateTime: req.Start.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: req.End.Format(time.RFC3339),
		},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: req.ConferenceRequestID,
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
	}
	for _, email := range req.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}

	created, err := srv.Events.Insert(g.calendarID, event).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return &CreatedEvent{EventID: created.Id, JoinLink: joinLink(created)}, nil
}

func joinLink(ev *calendar.Event) string {
	if ev.HangoutLink != "" {
		return ev.HangoutLink
	}
	if ev.ConferenceData != nil {
		for _, ep := range ev.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" && ep.Uri != "" {
				return ep.Uri
			}
		}
	}
	return ""
}
