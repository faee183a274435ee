// Package config holds the directory endpoint configuration. The compiled-in
// defaults describe the UNSW and CSE directories; a YAML file can override any
// of them.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v2"
)

// Directory describes one LDAP endpoint: where to connect, the base all
// searches are scoped under, and how sessions authenticate.
type Directory struct {
	// URL is the LDAP endpoint, e.g. "ldaps://ad.unsw.edu.au/".
	URL string `yaml:"url"`

	// BaseDN is the distinguished-name suffix every search is scoped under.
	BaseDN string `yaml:"base_dn"`

	// BindSuffix is appended to the authenticating identifier to form the
	// bind name, e.g. "@ad.unsw.edu.au".
	BindSuffix string `yaml:"bind_suffix"`

	// RequireAuth selects an authenticated simple bind. Without it the
	// session stays anonymous.
	RequireAuth bool `yaml:"require_auth"`

	// Timeout bounds dialing and each directory operation.
	Timeout time.Duration `yaml:"-" default:"30s"`
}

// Config pairs the two directories a profile query runs against.
type Config struct {
	Organization Directory `yaml:"organization"`
	Department   Directory `yaml:"department"`
}

// Default returns the stock UNSW/CSE configuration.
func Default() *Config {
	cfg := &Config{
		Organization: Directory{
			URL:         "ldaps://ad.unsw.edu.au/",
			BaseDN:      "OU=IDM,DC=ad,DC=unsw,DC=edu,DC=au",
			BindSuffix:  "@ad.unsw.edu.au",
			RequireAuth: true,
		},
		Department: Directory{
			URL:    "ldaps://bandleader.cse.unsw.edu.au/",
			BaseDN: "dc=cse,dc=unsw,dc=edu,dc=au",
		},
	}
	// The default tags are compile-time constants.
	if err := defaults.Set(cfg); err != nil {
		panic(err)
	}
	return cfg
}

// Load reads a YAML configuration file over the defaults. An empty path
// yields the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}

	if cfg.Organization.URL == "" || cfg.Department.URL == "" {
		return nil, fmt.Errorf("config %s: both directory URLs must be set", path)
	}

	return cfg, nil
}
