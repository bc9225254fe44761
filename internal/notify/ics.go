package notify

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"interview-scheduler/internal/domain"
)

const icsProductID = "-//interview-scheduler//invite//EN"

// buildICS renders a METHOD:REQUEST calendar object for the meeting so mail
// clients can offer to add it.
func buildICS(in *domain.Interview, m *domain.Meeting, organizer string, recipients []string, now time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProductID)
	cal.Props.SetText(ical.PropMethod, "REQUEST")

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, fmt.Sprintf("meeting-%d@interview-scheduler", m.ID))
	event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, m.ScheduledTime.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, m.ScheduledTime.Add(domain.MeetingDuration).UTC())
	event.Props.SetText(ical.PropSummary, in.Title)
	event.Props.SetText(ical.PropDescription, in.Description+"\n\nJoin: "+m.JoinLink)
	event.Props.SetText(ical.PropLocation, m.JoinLink)

	org := ical.NewProp(ical.PropOrganizer)
	org.Value = "mailto:" + organizer
	event.Props.Set(org)
	for _, r := range recipients {
		att := ical.NewProp(ical.PropAttendee)
		att.Value = "mailto:" + r
		event.Props.Add(att)
	}
	cal.Children = append(cal.Children, event.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode ics: %w", err)
	}
	return buf.Bytes(), nil
}
