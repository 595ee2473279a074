package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/jaspreet-dot-casa/bootstrap/pkg/envfile"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/logging"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/platform"
)

// Tier is one file in the cascade.
type Tier struct {
	File   string
	Secret bool
}

// Tiers are read in order; later tiers override earlier ones.
var Tiers = []Tier{
	{File: ".variables"},
	{File: ".local_variables"},
	{File: ".secrets", Secret: true},
}

// Reader handles reading configuration files.
type Reader struct {
	BaseDir string

	// Environ supplies process variables; BOOTSTRAP_* entries override the files.
	Environ func() []string
}

// NewReader creates a new config reader rooted at baseDir.
func NewReader(baseDir string) *Reader {
	return &Reader{BaseDir: baseDir, Environ: os.Environ}
}

// ReadAll merges the tier files and BOOTSTRAP_* environment variables into a Config.
// Missing tier files are skipped; malformed ones are an error.
func (r *Reader) ReadAll() (*Config, error) {
	cfg := Default()
	cfg.BaseDir = r.BaseDir

	for _, tier := range Tiers {
		path := filepath.Join(r.BaseDir, tier.File)
		vars, err := envfile.Parse(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", tier.File, err)
		}
		for k, v := range vars {
			cfg.Vars[k] = v
			cfg.Sources[k] = tier.File
			cfg.secret[k] = tier.Secret
		}
	}

	if r.Environ != nil {
		for _, kv := range r.Environ() {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || !strings.HasPrefix(k, EnvPrefix) {
				continue
			}
			cfg.Vars[k] = v
			cfg.Sources[k] = SourceEnvironment
			cfg.secret[k] = false
		}
	}

	if err := cfg.apply(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply interprets the BOOTSTRAP_* keys in c.Vars.
func (c *Config) apply() error {
	c.OS = strings.TrimSpace(c.Vars[KeyOS])
	if _, err := c.ResolveFamily(platform.Unsupported); err != nil {
		return err
	}

	if spec := getStringOrDefault(c.Vars, KeySpecFile, ""); spec != "" {
		expanded, err := homedir.Expand(spec)
		if err != nil {
			return fmt.Errorf("%s: %w", KeySpecFile, err)
		}
		if !filepath.IsAbs(expanded) && c.BaseDir != "" {
			expanded = filepath.Join(c.BaseDir, expanded)
		}
		c.SpecFile = expanded
	}

	if raw := getStringOrDefault(c.Vars, KeyInstallTimeout, ""); raw != "" {
		d, err := parseTimeout(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", KeyInstallTimeout, err)
		}
		c.InstallTimeout = d
	}

	sudo, err := getBoolOrDefault(c.Vars, KeySudo, c.UseSudo)
	if err != nil {
		return err
	}
	c.UseSudo = sudo
	c.LogLevel = getStringOrDefault(c.Vars, KeyLogLevel, c.LogLevel)
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	c.LogFormat = getStringOrDefault(c.Vars, KeyLogFormat, c.LogFormat)
	if c.LogFormat != LogFormatConsole && c.LogFormat != LogFormatJSON {
		return fmt.Errorf("%s: unknown format %q (expected %s or %s)", KeyLogFormat, c.LogFormat, LogFormatConsole, LogFormatJSON)
	}
	c.ReleaseRepo = getStringOrDefault(c.Vars, KeyReleaseRepo, c.ReleaseRepo)
	noCheck, err := getBoolOrDefault(c.Vars, KeyNoUpdateCheck, false)
	if err != nil {
		return err
	}
	c.UpdateCheck = !noCheck

	return nil
}

// parseTimeout accepts Go durations ("90s", "5m") or a bare number of seconds.
func parseTimeout(raw string) (time.Duration, error) {
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("negative timeout %q", raw)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative timeout %q", raw)
	}
	return d, nil
}

// getStringOrDefault returns the value for key or a default if not present.
func getStringOrDefault(envVars map[string]string, key, defaultValue string) string {
	if value, exists := envVars[key]; exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

// getBoolOrDefault returns the boolean value for key or a default if not
// present or blank. Anything else that is not a boolean is an error.
func getBoolOrDefault(envVars map[string]string, key string, defaultValue bool) (bool, error) {
	value := strings.TrimSpace(envVars[key])
	switch strings.ToLower(value) {
	case "":
		return defaultValue, nil
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: invalid boolean %q", key, value)
	}
	return b, nil
}
