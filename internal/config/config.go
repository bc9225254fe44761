// Package config loads the service settings from a TOML file, a .env file
// and the process environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

const DefaultPath = "scheduler.toml"

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
)

type Config struct {
	ListenAddr string `toml:"listen_addr"`
	DebugLevel int    `toml:"debug_level"`

	Storage StorageConfig `toml:"storage"`
	Tokens  TokenConfig   `toml:"tokens"`
	Google  GoogleConfig  `toml:"google"`
	Mail    MailConfig    `toml:"mail"`
	Auth    AuthConfig    `toml:"auth"`
	CORS    CORSConfig    `toml:"cors"`
	Sweep   SweepConfig   `toml:"sweep"`
}

type StorageConfig struct {
	Driver      string `toml:"driver"`
	DatabaseURL string `toml:"database_url"`
}

type TokenConfig struct {
	Driver     string `toml:"driver"`
	SQLitePath string `toml:"sqlite_path"`
}

type GoogleConfig struct {
	CredentialsFile string `toml:"credentials_file"`
	ClientID        string `toml:"client_id"`
	ClientSecret    string `toml:"client_secret"`
	RedirectURL     string `toml:"redirect_url"`
	CalendarID      string `toml:"calendar_id"`
	Principal       string `toml:"principal"`
	RequestTimeoutS int    `toml:"request_timeout_s"`
}

type MailConfig struct {
	From      string   `toml:"from"`
	Host      string   `toml:"host"`
	Port      int      `toml:"port"`
	Username  string   `toml:"username"`
	Password  string   `toml:"password"`
	TimeoutS  int      `toml:"timeout_s"`
	AllowList []string `toml:"allow_list"`
}

type AuthConfig struct {
	StaticTokens []string `toml:"static_tokens"`
	JWTSecret    string   `toml:"jwt_hmac_secret"`
}

type CORSConfig struct {
	AllowOrigins []string `toml:"allow_origins"`
}

type SweepConfig struct {
	Disabled        bool   `toml:"disabled"`
	IntervalMinutes uint64 `toml:"interval_minutes"`
}

func Default() *Config {
	return &Config{
		ListenAddr: ":8080",
		Storage:    StorageConfig{Driver: DriverPostgres},
		Tokens:     TokenConfig{Driver: DriverPostgres, SQLitePath: "tokens.db"},
		Google: GoogleConfig{
			RedirectURL:     "http://localhost:8080/oauth2callback",
			CalendarID:      "primary",
			Principal:       "user",
			RequestTimeoutS: 15,
		},
		Mail: MailConfig{
			From:     "your-email@gmail.com",
			Host:     "smtp.gmail.com",
			Port:     587,
			TimeoutS: 10,
		},
		CORS:  CORSConfig{AllowOrigins: []string{"http://localhost:3000"}},
		Sweep: SweepConfig{IntervalMinutes: 60},
	}
}

// Load reads path on top of the defaults, then applies .env and the
// environment. A missing file is fine unless required is set.
func Load(path string, required bool) (*Config, error) {
	conf := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, conf); err != nil {
			if !errors.Is(err, fs.ErrNotExist) || required {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := conf.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = splitList(v)
		}
	}

	if v, ok := lookup("PORT"); ok && strings.TrimSpace(v) != "" {
		port := strings.TrimSpace(v)
		if _, err := strconv.Atoi(port); err != nil {
			return fmt.Errorf("PORT %q: %w", port, err)
		}
		c.ListenAddr = ":" + port
	}
	str("DATABASE_URL", &c.Storage.DatabaseURL)
	str("GOOGLE_CLIENT_ID", &c.Google.ClientID)
	str("GOOGLE_CLIENT_SECRET", &c.Google.ClientSecret)
	str("GOOGLE_REDIRECT_URL", &c.Google.RedirectURL)
	str("GOOGLE_CREDENTIALS_FILE", &c.Google.CredentialsFile)
	list("STATIC_TOKENS", &c.Auth.StaticTokens)
	str("JWT_HMAC_SECRET", &c.Auth.JWTSecret)
	str("MAIL_FROM", &c.Mail.From)
	str("MAIL_PASSWORD", &c.Mail.Password)
	list("MAIL_ALLOW_LIST", &c.Mail.AllowList)
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) Validate() error {
	err := validation.Errors{
		"listen_addr": validation.Validate(c.ListenAddr, validation.Required),
		"storage.driver": validation.Validate(c.Storage.Driver, validation.Required,
			validation.In(DriverPostgres, DriverMemory)),
		"storage.database_url": validation.Validate(c.Storage.DatabaseURL,
			validation.When(c.Storage.Driver == DriverPostgres || c.Tokens.Driver == DriverPostgres, validation.Required)),
		"tokens.driver": validation.Validate(c.Tokens.Driver, validation.Required,
			validation.In(DriverPostgres, DriverSQLite, DriverMemory)),
		"tokens.sqlite_path": validation.Validate(c.Tokens.SQLitePath,
			validation.When(c.Tokens.Driver == DriverSQLite, validation.Required)),
		"google.principal":         validation.Validate(c.Google.Principal, validation.Required),
		"google.request_timeout_s": validation.Validate(c.Google.RequestTimeoutS, validation.Min(0)),
		"mail.port":                validation.Validate(c.Mail.Port, validation.Min(0), validation.Max(65535)),
	}.Filter()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (g GoogleConfig) RequestTimeout() time.Duration {
	return time.Duration(g.RequestTimeoutS) * time.Second
}

func (m MailConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutS) * time.Second
}
