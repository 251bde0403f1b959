package main

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix scopes the environment overrides, e.g.
// AUTH_SESSION__SIGNING_KEY maps onto session.signing_key.
const envPrefix = "AUTH_"

// ServerConfig is the process-wide configuration. It implements
// auth.Config so the signing secret and session options are injected at
// construction rather than read ad hoc from the environment.
type ServerConfig struct {
	Server struct {
		Addr string `koanf:"addr"`
	} `koanf:"server"`

	Session struct {
		SigningKey      string   `koanf:"signing_key"`
		ContextKey      string   `koanf:"context_key"`
		TokenExpiration int      `koanf:"token_expiration"`
		Issuer          string   `koanf:"issuer"`
		Audience        []string `koanf:"audience"`
	} `koanf:"session"`

	Google struct {
		ClientID     string `koanf:"client_id"`
		ClientSecret string `koanf:"client_secret"`
		CallbackURL  string `koanf:"callback_url"`
	} `koanf:"google"`

	Database struct {
		DSN string `koanf:"dsn"`
	} `koanf:"database"`
}

func (c *ServerConfig) GetSigningKey() string   { return c.Session.SigningKey }
func (c *ServerConfig) GetContextKey() string   { return c.Session.ContextKey }
func (c *ServerConfig) GetTokenExpiration() int { return c.Session.TokenExpiration }
func (c *ServerConfig) GetIssuer() string       { return c.Session.Issuer }
func (c *ServerConfig) GetAudience() []string   { return c.Session.Audience }

// LoadConfig layers an optional YAML file under environment overrides.
func LoadConfig(path string) (*ServerConfig, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".",
		)
	}), nil); err != nil {
		return nil, err
	}

	cfg := &ServerConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if cfg.Session.SigningKey == "" {
		return nil, errors.New("session.signing_key is required")
	}

	return cfg, nil
}

func applyDefaults(cfg *ServerConfig) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":3000"
	}
	if cfg.Session.ContextKey == "" {
		cfg.Session.ContextKey = "app_session"
	}
	if cfg.Session.TokenExpiration == 0 {
		cfg.Session.TokenExpiration = 24
	}
	if cfg.Session.Issuer == "" {
		cfg.Session.Issuer = "auditgrid"
	}
	if len(cfg.Session.Audience) == 0 {
		cfg.Session.Audience = []string{"auditgrid:dashboard"}
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:auditgrid.db?cache=shared&mode=rwc"
	}
}
