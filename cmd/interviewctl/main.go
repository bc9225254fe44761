// Command interviewctl administers the scheduler: calendar consent, users
// and database migrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/qiniu/x/log"
	"golang.org/x/oauth2"

	"interview-scheduler/internal/calendar"
	"interview-scheduler/internal/config"
	"interview-scheduler/internal/repo"
)

const usage = `Usage: interviewctl [-f scheduler.toml] <command>

Commands:
  auth                    authorize calendar access and store the token
  auth-status             report whether a usable calendar token is stored
  users add <name> <email>
  users list
  migrate                 apply database migrations
`

func main() {
	configPath := flag.String("f", config.DefaultPath, "configuration file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	explicit := false
	flag.Visit(func(f *flag.Flag) { explicit = explicit || f.Name == "f" })
	conf, err := config.Load(*configPath, explicit)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.SetOutputLevel(conf.DebugLevel)

	c := &cli{conf: conf, in: os.Stdin, out: os.Stdout}
	if err := c.run(context.Background(), flag.Args()); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

type cli struct {
	conf  *config.Config
	in    io.Reader
	out   io.Writer
	oauth *oauth2.Config
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command\n%s", usage)
	}
	stores, err := repo.Open(ctx, c.conf, args[0] == "migrate")
	if err != nil {
		return err
	}
	defer stores.Close()

	switch args[0] {
	case "auth":
		return c.authorize(ctx, stores.Tokens)
	case "auth-status":
		return c.authStatus(ctx, stores.Tokens)
	case "users":
		return c.users(ctx, stores.Users, args[1:])
	case "migrate":
		if stores.Pool == nil {
			return fmt.Errorf("migrate needs a postgres storage or token driver")
		}
		color.New(color.FgGreen).Fprintln(c.out, "✅ migrations applied")
		return nil
	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], usage)
	}
}

func (c *cli) authorizer(tokens repo.TokenStore) (*calendar.Authorizer, error) {
	if c.oauth == nil {
		conf, err := calendar.NewOAuthConfig(calendar.OAuthSettings{
			CredentialsFile: c.conf.Google.CredentialsFile,
			ClientID:        c.conf.Google.ClientID,
			ClientSecret:    c.conf.Google.ClientSecret,
			RedirectURL:     c.conf.Google.RedirectURL,
		})
		if err != nil {
			return nil, err
		}
		c.oauth = conf
	}
	return calendar.NewAuthorizer(c.oauth, tokens, c.conf.Google.Principal), nil
}
