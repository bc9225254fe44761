package main

import (
	"context"
	"errors"
	"flag"

	"github.com/qiniu/x/log"

	"interview-scheduler/internal/app"
	"interview-scheduler/internal/calendar"
	"interview-scheduler/internal/config"
	"interview-scheduler/internal/directory"
	"interview-scheduler/internal/notify"
	"interview-scheduler/internal/repo"
	"interview-scheduler/internal/scheduler"
	"interview-scheduler/internal/server"
)

var configFilePath = config.DefaultPath

func main() {
	flag.StringVar(&configFilePath, "f", configFilePath, "configuration file to run the scheduler server")
	flag.Parse()

	explicit := false
	flag.Visit(func(f *flag.Flag) { explicit = explicit || f.Name == "f" })
	conf, err := config.Load(configFilePath, explicit)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.SetOutputLevel(conf.DebugLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, err := repo.Open(ctx, conf, true)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer stores.Close()

	var (
		credentials calendar.CredentialSource = calendar.Unconfigured
		calAuth     app.CalendarAuth
		provider    calendar.Provider
	)
	oauthConfig, err := calendar.NewOAuthConfig(calendar.OAuthSettings{
		CredentialsFile: conf.Google.CredentialsFile,
		ClientID:        conf.Google.ClientID,
		ClientSecret:    conf.Google.ClientSecret,
		RedirectURL:     conf.Google.RedirectURL,
	})
	switch {
	case errors.Is(err, calendar.ErrNotConfigured):
		log.Warn("google calendar is not configured, meetings cannot be booked")
	case err != nil:
		log.Fatalf("google oauth config: %v", err)
	default:
		authorizer := calendar.NewAuthorizer(oauthConfig, stores.Tokens, conf.Google.Principal)
		credentials, calAuth = authorizer, authorizer
		provider = calendar.NewGoogleProvider(oauthConfig, conf.Google.CalendarID)
	}

	sender := notify.NewSender(notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     conf.Mail.Host,
		Port:     conf.Mail.Port,
		Username: firstNonEmpty(conf.Mail.Username, conf.Mail.From),
		Password: conf.Mail.Password,
		Timeout:  conf.Mail.Timeout(),
	}), conf.Mail.From, conf.Mail.AllowList)

	dir := directory.New(stores.Users)
	booker := calendar.NewBooker(credentials, provider, stores.Meetings, sender, conf.Google.RequestTimeout())
	orchestrator := scheduler.NewOrchestrator(dir, stores.Interviews, stores.Meetings, booker, sender)

	if !conf.Sweep.Disabled {
		stop, err := scheduler.NewStatusTask(stores.Interviews, stores.Meetings).Start(conf.Sweep.IntervalMinutes)
		if err != nil {
			log.Fatalf("schedule status sweep: %v", err)
		}
		defer stop()
	}

	a := &app.App{
		Directory:  dir,
		Interviews: stores.Interviews,
		Meetings:   stores.Meetings,
		Scheduler:  orchestrator,
		Calendar:   calAuth,
	}
	if stores.Pool != nil {
		a.Storage = stores.Pool
	}

	if err := server.Run(ctx, conf.ListenAddr, app.NewRouter(a, conf)); err != nil {
		log.Errorf("http server stopped: %v", err)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
