// Package config resolves server configuration from a YAML file,
// environment variables, and flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	projectConfigName = "ado-mcp.yaml"
	homeConfigDir     = "ado-mcp"
	homeConfigName    = "config.yaml"
)

// Environment variable names recognized by FromEnv.
const (
	EnvOrganizationURL = "ADO_ORGANIZATION_URL"
	EnvProject         = "ADO_PROJECT"
	EnvTeam            = "ADO_TEAM"
	EnvPAT             = "ADO_PAT"
	EnvAPIVersion      = "ADO_API_VERSION"
)

// Config is the resolved server configuration.
type Config struct {
	// OrganizationURL is the org base, e.g. https://dev.azure.com/contoso.
	OrganizationURL string `yaml:"organization_url"`
	// Project is the default project used when tool calls omit one.
	Project string `yaml:"project,omitempty"`
	// Team is the default team used by board and iteration tools.
	Team string `yaml:"team,omitempty"`
	// PAT is the personal access token. Prefer the ADO_PAT environment
	// variable over putting it in the file.
	PAT string `yaml:"pat,omitempty"`
	// APIVersion overrides the client default api-version.
	APIVersion string `yaml:"api_version,omitempty"`
	// Timeout bounds one HTTP round trip.
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// ProbeSchedule is an optional UTC cron expression for the
	// background connection probe. Empty disables the probe.
	ProbeSchedule string `yaml:"probe_schedule,omitempty"`
}

// DiscoverPath resolves the config file location with first-match
// semantics: explicit path, ado-mcp.yaml in the working directory, then
// the user config directory.
func DiscoverPath(explicitPath string) (string, bool, error) {
	if clean := strings.TrimSpace(explicitPath); clean != "" {
		if _, err := os.Stat(clean); err != nil {
			return "", false, fmt.Errorf("config file %s: %w", clean, err)
		}
		return clean, true, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, fmt.Errorf("resolve working directory: %w", err)
	}
	candidates := []string{filepath.Join(cwd, projectConfigName)}

	if configDir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(configDir, homeConfigDir, homeConfigName))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		}
	}
	return "", false, nil
}

// LoadFile parses a YAML config file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv reads the ADO_* environment variables.
func FromEnv() Config {
	return Config{
		OrganizationURL: os.Getenv(EnvOrganizationURL),
		Project:         os.Getenv(EnvProject),
		Team:            os.Getenv(EnvTeam),
		PAT:             os.Getenv(EnvPAT),
		APIVersion:      os.Getenv(EnvAPIVersion),
	}
}

// Merge overlays override onto base; non-zero override fields win.
func Merge(base, override Config) Config {
	if override.OrganizationURL != "" {
		base.OrganizationURL = override.OrganizationURL
	}
	if override.Project != "" {
		base.Project = override.Project
	}
	if override.Team != "" {
		base.Team = override.Team
	}
	if override.PAT != "" {
		base.PAT = override.PAT
	}
	if override.APIVersion != "" {
		base.APIVersion = override.APIVersion
	}
	if override.Timeout > 0 {
		base.Timeout = override.Timeout
	}
	if override.ProbeSchedule != "" {
		base.ProbeSchedule = override.ProbeSchedule
	}
	return base
}

// Validate checks the fields required to construct a client.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.OrganizationURL) == "" {
		problems = append(problems, "organization URL is required (set organization_url or "+EnvOrganizationURL+")")
	}
	if strings.TrimSpace(c.PAT) == "" {
		problems = append(problems, "personal access token is required (set "+EnvPAT+")")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Redacted returns a copy safe for logging.
func (c Config) Redacted() Config {
	if c.PAT != "" {
		c.PAT = "***"
	}
	return c
}
