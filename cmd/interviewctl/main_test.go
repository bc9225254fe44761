package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"golang.org/x/oauth2"

	"interview-scheduler/internal/config"
)

func init() {
	color.NoColor = true
}

func testCLI(t *testing.T, in string) (*cli, *bytes.Buffer) {
	t.Helper()
	conf := config.Default()
	conf.Storage.Driver = config.DriverMemory
	conf.Tokens.Driver = config.DriverSQLite
	conf.Tokens.SQLitePath = filepath.Join(t.TempDir(), "tokens.db")
	out := &bytes.Buffer{}
	return &cli{conf: conf, in: strings.NewReader(in), out: out}, out
}

func tokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func oauthFor(srv *httptest.Server) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "cid",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/oauth2callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:   srv.URL + "/auth",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func TestAuthFlow(t *testing.T) {
	srv := tokenServer(t)
	c, out := testCLI(t, "good-code\n")
	c.oauth = oauthFor(srv)
	ctx := context.Background()

	if err := c.run(ctx, []string{"auth-status"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "not authorized") || !strings.Contains(out.String(), srv.URL+"/auth") {
		t.Fatalf("status before auth: %s", out.String())
	}

	out.Reset()
	if err := c.run(ctx, []string{"auth"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "access_type=offline") || !strings.Contains(out.String(), "calendar access stored") {
		t.Fatalf("auth output: %s", out.String())
	}

	out.Reset()
	if err := c.run(ctx, []string{"auth-status"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `authorized as "user"`) {
		t.Fatalf("status after auth: %s", out.String())
	}
}

func TestAuthRejectedCode(t *testing.T) {
	srv := tokenServer(t)
	c, _ := testCLI(t, "bad-code\n")
	c.oauth = oauthFor(srv)
	if err := c.run(context.Background(), []string{"auth"}); err == nil {
		t.Fatal("want exchange error")
	}
}

func TestAuthNotConfigured(t *testing.T) {
	c, _ := testCLI(t, "")
	if err := c.run(context.Background(), []string{"auth-status"}); err == nil {
		t.Fatal("want error without client secrets")
	}
}

func TestUsersCommands(t *testing.T) {
	c, out := testCLI(t, "")
	ctx := context.Background()

	if err := c.run(ctx, []string{"users", "add", "alice", "Alice@Example.com"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "alice <alice@example.com>") {
		t.Fatalf("add output: %s", out.String())
	}
	if err := c.run(ctx, []string{"users", "add", "bob", "not-an-email"}); err == nil {
		t.Fatal("invalid email accepted")
	}
	if err := c.run(ctx, []string{"users", "add", "bob"}); err == nil {
		t.Fatal("missing email accepted")
	}

	out.Reset()
	if err := c.run(ctx, []string{"users", "list"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "no users registered") {
		t.Fatalf("memory storage should start empty: %s", out.String())
	}
}

func TestUnknownCommands(t *testing.T) {
	c, _ := testCLI(t, "")
	ctx := context.Background()
	for _, args := range [][]string{{}, {"frobnicate"}, {"users"}, {"users", "drop"}, {"migrate"}} {
		if err := c.run(ctx, args); err == nil {
			t.Fatalf("%v: want error", args)
		}
	}
}
