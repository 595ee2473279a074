// Package config loads the layered bootstrap configuration: .variables,
// then .local_variables, then .secrets, then BOOTSTRAP_* process variables.
package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/jaspreet-dot-casa/bootstrap/pkg/platform"
)

// Recognized keys.
const (
	KeyHome            = "BOOTSTRAP_HOME"
	KeyOS              = "BOOTSTRAP_OS"
	KeySpecFile        = "BOOTSTRAP_SPEC_FILE"
	KeyInstallTimeout  = "BOOTSTRAP_INSTALL_TIMEOUT"
	KeySudo            = "BOOTSTRAP_SUDO"
	KeyLogLevel        = "BOOTSTRAP_LOG_LEVEL"
	KeyLogFormat       = "BOOTSTRAP_LOG_FORMAT"
	KeyReleaseRepo     = "BOOTSTRAP_RELEASE_REPO"
	KeyNoUpdateCheck   = "BOOTSTRAP_NO_UPDATE_CHECK"
	EnvPrefix          = "BOOTSTRAP_"
	DefaultReleaseRepo = "jaspreet-dot-casa/bootstrap"
)

// Log formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// SourceEnvironment marks values that came from the process environment.
const SourceEnvironment = "environment"

const maskedValue = "********"

// Config is the effective configuration, built once at startup and passed
// explicitly to the components that need it.
type Config struct {
	// BaseDir is the directory the tier files were read from.
	BaseDir string

	// OS overrides platform detection when non-empty ("linux" or "macos").
	OS string

	// SpecFile is a YAML or TOML package spec; empty means embedded defaults.
	SpecFile string

	// InstallTimeout bounds each package manager invocation; 0 disables it.
	InstallTimeout time.Duration

	// UseSudo prefixes Linux package manager commands with sudo.
	UseSudo bool

	LogLevel  string
	LogFormat string

	// ReleaseRepo is the GitHub owner/name checked for newer releases.
	ReleaseRepo string
	UpdateCheck bool

	// Vars holds every merged key, including ones the tool does not interpret.
	Vars map[string]string

	// Sources maps each key in Vars to the tier file (or "environment") that set it last.
	Sources map[string]string

	secret map[string]bool
}

// Default returns a Config with built-in defaults and no variables.
func Default() *Config {
	return &Config{
		UseSudo:     true,
		LogLevel:    "info",
		LogFormat:   LogFormatConsole,
		ReleaseRepo: DefaultReleaseRepo,
		UpdateCheck: true,
		Vars:        make(map[string]string),
		Sources:     make(map[string]string),
		secret:      make(map[string]bool),
	}
}

// ResolveFamily returns the OS override if one is configured, otherwise detected.
func (c *Config) ResolveFamily(detected platform.Family) (platform.Family, error) {
	if c.OS == "" {
		return detected, nil
	}
	family, err := platform.ParseFamily(c.OS)
	if err != nil {
		return platform.Unsupported, fmt.Errorf("%s: %w", KeyOS, err)
	}
	return family, nil
}

// IsSecret reports whether key was last set by the secrets tier.
func (c *Config) IsSecret(key string) bool {
	return c.secret[key]
}

// Setting is one displayable configuration value.
type Setting struct {
	Key    string
	Value  string
	Source string
}

// Settings returns every variable sorted by key, with secret values masked.
func (c *Config) Settings() []Setting {
	keys := make([]string, 0, len(c.Vars))
	for k := range c.Vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	settings := make([]Setting, 0, len(keys))
	for _, k := range keys {
		value := c.Vars[k]
		if c.secret[k] && value != "" {
			value = maskedValue
		}
		settings = append(settings, Setting{Key: k, Value: value, Source: c.Sources[k]})
	}
	return settings
}
