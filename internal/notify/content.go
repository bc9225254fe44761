package notify

import (
	"bytes"
	"html/template"

	"interview-scheduler/internal/domain"
)

const DateLayout = "Monday, January 2, 2006 at 3:04 PM"

var inviteTmpl = template.Must(template.New("invite").Parse(`<html><body>
<h2>Calendar Invite: {{.Title}}</h2>
<p><strong>Description:</strong> {{.Description}}</p>
<p><strong>Date &amp; Time:</strong> {{.When}}</p>
<p><strong>Meeting Link:</strong> <a href="{{.JoinLink}}">{{.JoinLink}}</a></p>
<h3>Attendees:</h3><ul>
{{- range .Attendees}}
<li>{{.Username}} ({{.Email}})</li>
{{- end}}
</ul>
<p>Please join the meeting at the scheduled time using the link above.</p>
<p>Thank you!</p>
</body></html>
`))

type inviteView struct {
	Title       string
	Description string
	When        string
	JoinLink    string
	Attendees   []*domain.User
}

func renderInvite(in *domain.Interview, m *domain.Meeting, attendees []*domain.User) (string, error) {
	view := inviteView{
		Title:       in.Title,
		Description: in.Description,
		When:        m.ScheduledTime.Format(DateLayout),
		JoinLink:    m.JoinLink,
	}
	for _, a := range attendees {
		if a != nil {
			view.Attendees = append(view.Attendees, a)
		}
	}
	var buf bytes.Buffer
	if err := inviteTmpl.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}
