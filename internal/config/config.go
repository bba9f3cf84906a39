// Package config holds the runtime configuration handed to the network layer.
// It is built once at process start; nothing below cmd/ reads viper or the
// environment directly.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

type Environment string

const (
	Dev  Environment = "dev"
	Prod Environment = "prod"
	// Test wires the in-process stub feed service instead of the network.
	Test Environment = "test"
)

const (
	DefaultBaseURL    = "https://api.nasa.gov/neo/rest/v1/"
	DefaultAPIKey     = "DEMO_KEY"
	DefaultFeedPath   = "feed"
	DefaultLookupPath = "lookup.php"
)

// ParseEnvironment accepts dev, prod or test (case-insensitive). Empty means dev.
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(strings.ToLower(strings.TrimSpace(s))) {
	case "", Dev:
		return Dev, nil
	case Prod:
		return Prod, nil
	case Test:
		return Test, nil
	default:
		return "", fmt.Errorf("unknown environment %q (available: dev, prod, test)", s)
	}
}

// RootURL is the per-environment API root.
func (e Environment) RootURL() string {
	return DefaultBaseURL
}

// APIKey is the per-environment credential used when none is configured.
func (e Environment) APIKey() string {
	return DefaultAPIKey
}

type Config struct {
	Environment Environment
	BaseURL     string
	APIKey      string
	FeedPath    string
	LookupPath  string
	Proxy       string
}

// New returns the defaults for env.
func New(env Environment) *Config {
	return &Config{
		Environment: env,
		BaseURL:     env.RootURL(),
		APIKey:      env.APIKey(),
		FeedPath:    DefaultFeedPath,
		LookupPath:  DefaultLookupPath,
	}
}

// FromViper folds the nasa.* keys and the proxy flag into a Config.
func FromViper(v *viper.Viper) (*Config, error) {
	env, err := ParseEnvironment(v.GetString("nasa.environment"))
	if err != nil {
		return nil, err
	}
	c := New(env)
	if s := v.GetString("nasa.baseurl"); s != "" {
		c.BaseURL = s
	}
	if s := v.GetString("nasa.apikey"); s != "" {
		c.APIKey = s
	}
	if s := v.GetString("nasa.feedpath"); s != "" {
		c.FeedPath = s
	}
	if s := v.GetString("nasa.lookuppath"); s != "" {
		c.LookupPath = s
	}
	c.Proxy = v.GetString("proxy")
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("nasa.apikey must not be empty")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid nasa.baseurl %q: %w", c.BaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid nasa.baseurl %q: scheme and host are required", c.BaseURL)
	}
	if c.Proxy != "" {
		if _, err := url.Parse(c.Proxy); err != nil {
			return fmt.Errorf("invalid proxy URL: %v", err)
		}
	}
	return nil
}
