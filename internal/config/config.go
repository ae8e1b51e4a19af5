// Package config centralizes every tunable of the dashboard behind a single
// struct loaded from the environment. All upstream endpoints derive from one
// API_BASE_URL so no view ever hardcodes a host.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// ListenAddr is the address the dashboard HTTP server binds to.
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	// PublicBaseURL is the externally reachable base URL of this dashboard,
	// used to build the OAuth redirect URIs handed to providers.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	// APIBaseURL is the base URL of the remote marketing API.
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:5000"`

	// DatabasePath is the SQLite file backing sessions and OAuth state.
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/dashboard.db"`

	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	OAuthStateTTL time.Duration `env:"OAUTH_STATE_TTL" envDefault:"10m"`

	// Rate limit applied to all outbound calls to the marketing API.
	APIRateLimitRPS   float64 `env:"API_RATE_LIMIT_RPS" envDefault:"5"`
	APIRateLimitBurst int     `env:"API_RATE_LIMIT_BURST" envDefault:"10"`

	// SurveyEndpointEnabled switches survey submission to the dedicated
	// /user/survey endpoint. The deployed backend still accepts survey
	// payloads on /user/register, which remains the fallback.
	SurveyEndpointEnabled bool `env:"SURVEY_ENDPOINT_ENABLED" envDefault:"false"`

	LinkedIn  OAuthApp `envPrefix:"LINKEDIN_"`
	Instagram OAuthApp `envPrefix:"INSTAGRAM_"`
}

// OAuthApp holds the provider-side registration for one social platform.
type OAuthApp struct {
	ClientID string `env:"CLIENT_ID"`
	Scopes   string `env:"SCOPES"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if cfg.LinkedIn.Scopes == "" {
		cfg.LinkedIn.Scopes = DefaultLinkedInScopes
	}
	if cfg.Instagram.Scopes == "" {
		cfg.Instagram.Scopes = DefaultInstagramScopes
	}
	return &cfg, nil
}

// Provider scope sets requested during the popup handshake.
const (
	DefaultLinkedInScopes  = "r_basicprofile w_member_social w_organization_social r_organization_social rw_organization_admin"
	DefaultInstagramScopes = "instagram_business_basic,instagram_manage_comments,instagram_business_manage_messages,pages_show_list,pages_read_engagement"
)

// RedirectURI returns the callback URL registered with the given platform.
func (c *Config) RedirectURI(platform string) string {
	return c.PublicBaseURL + "/social/" + platform + "/callback"
}

// OAuthApp returns the provider registration for platform. Unknown platforms
// get a zero value.
func (c *Config) OAuthApp(platform string) OAuthApp {
	switch platform {
	case "linkedin":
		return c.LinkedIn
	case "instagram":
		return c.Instagram
	}
	return OAuthApp{}
}
