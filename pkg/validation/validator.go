// Package validation lints the config tier files and the package spec.
package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/jaspreet-dot-casa/bootstrap/pkg/config"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/envfile"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/platform"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/specs"
)

// Severity represents the severity of a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue represents a validation issue found in a config or spec file.
type Issue struct {
	File     string   `json:"file"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Result holds all validation results.
type Result struct {
	Issues []Issue `json:"issues"`
}

// HasErrors returns true if there are any error-level issues.
func (r *Result) HasErrors() bool {
	return r.ErrorCount() > 0
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	return r.count(SeverityError)
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	return r.count(SeverityWarning)
}

func (r *Result) count(s Severity) int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			count++
		}
	}
	return count
}

var knownKeys = map[string]bool{
	config.KeyHome:           true,
	config.KeyOS:             true,
	config.KeySpecFile:       true,
	config.KeyInstallTimeout: true,
	config.KeySudo:           true,
	config.KeyLogLevel:       true,
	config.KeyLogFormat:      true,
	config.KeyReleaseRepo:    true,
	config.KeyNoUpdateCheck:  true,
}

// Validator validates the files in one config directory.
type Validator struct {
	BaseDir string
	// SpecFile overrides BOOTSTRAP_SPEC_FILE when set.
	SpecFile string
}

// NewValidator creates a new Validator.
func NewValidator(baseDir string) *Validator {
	return &Validator{BaseDir: baseDir}
}

// ValidateAll validates the tier files, the merged settings and the spec.
func (v *Validator) ValidateAll() *Result {
	result := &Result{Issues: []Issue{}}

	for _, tier := range config.Tiers {
		path := filepath.Join(v.BaseDir, tier.File)
		result.Issues = append(result.Issues, v.ValidateTier(path, tier.Secret)...)
	}

	reader := &config.Reader{BaseDir: v.BaseDir}
	cfg, err := reader.ReadAll()
	if err != nil {
		var lineErr *envfile.LineError
		if !errors.As(err, &lineErr) {
			result.Issues = append(result.Issues, Issue{
				File:     v.BaseDir,
				Message:  err.Error(),
				Severity: SeverityError,
			})
		}
		return result
	}

	specFile := cfg.SpecFile
	if v.SpecFile != "" {
		specFile = v.SpecFile
	}
	result.Issues = append(result.Issues, v.ValidateSpec(specFile)...)

	return result
}

// ValidateTier checks one tier file. A missing file is not an issue.
func (v *Validator) ValidateTier(path string, secret bool) []Issue {
	issues := []Issue{}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return issues
	}
	if err != nil {
		return append(issues, Issue{File: path, Message: err.Error(), Severity: SeverityError})
	}

	vars, err := envfile.Parse(path)
	if err != nil {
		issue := Issue{File: path, Message: fmt.Sprintf("failed to parse file: %v", err), Severity: SeverityError}
		var lineErr *envfile.LineError
		if errors.As(err, &lineErr) {
			issue.Field = fmt.Sprintf("line %d", lineErr.Line)
			issue.Message = lineErr.Err.Error()
		}
		return append(issues, issue)
	}

	if secret && runtime.GOOS != "windows" && info.Mode().Perm()&0o077 != 0 {
		issues = append(issues, Issue{
			File:     path,
			Message:  fmt.Sprintf("secrets file is readable by other users (mode %04o); run chmod 600", info.Mode().Perm()),
			Severity: SeverityWarning,
		})
	}

	for _, key := range sortedKeys(vars) {
		if !strings.HasPrefix(key, config.EnvPrefix) {
			continue
		}
		if !knownKeys[key] {
			issues = append(issues, Issue{
				File:     path,
				Field:    key,
				Message:  "unknown setting",
				Severity: SeverityWarning,
			})
			continue
		}
		if secret {
			issues = append(issues, Issue{
				File:     path,
				Field:    key,
				Message:  "not a secret; move it to .variables or .local_variables",
				Severity: SeverityWarning,
			})
		}
	}

	return issues
}

// ValidateSpec loads the spec file, or the embedded defaults when path is
// empty, and checks each supported OS gets at least one package.
func (v *Validator) ValidateSpec(path string) []Issue {
	issues := []Issue{}
	file := path
	if file == "" {
		file = "(embedded defaults)"
	}

	all, err := specs.LoadOrDefault(path)
	if err != nil {
		return append(issues, Issue{File: file, Message: err.Error(), Severity: SeverityError})
	}

	for _, s := range all {
		if s.Required && len(s.Entries) == 0 {
			issues = append(issues, Issue{
				File:     file,
				Field:    s.Name,
				Message:  "required spec is missing or empty",
				Severity: SeverityError,
			})
		}
	}

	for _, family := range []platform.Family{platform.Linux, platform.MacOS} {
		total := 0
		for _, s := range specs.Select(all, family) {
			total += len(s.Entries)
		}
		if total == 0 {
			issues = append(issues, Issue{
				File:     file,
				Message:  fmt.Sprintf("no packages apply to %s", family),
				Severity: SeverityWarning,
			})
		}
	}

	return issues
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
