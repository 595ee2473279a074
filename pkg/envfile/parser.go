// Package envfile parses the shell-style variable files sourced by the
// bootstrap scripts (.variables, .local_variables, .secrets).
package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	errExpectedKeyValue = errors.New("expected KEY=VALUE")
	errUnterminated     = errors.New("unterminated quoted value")
	errTrailingContent  = errors.New("unexpected content after quoted value")
	errInvalidKey       = errors.New("invalid variable name")
)

// LineError reports a malformed line.
type LineError struct {
	File string
	Line int
	Err  error
}

func (e *LineError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Parse parses a shell-style env file and returns key-value pairs.
// It handles:
// - KEY=VALUE and export KEY=VALUE
// - KEY="VALUE" (with \" \\ \n escapes) and KEY='VALUE' (literal)
// - Comments (lines starting with #, or # after a quoted value)
// - Empty lines (skipped)
// - Values containing = signs (only first = is used as delimiter)
func Parse(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	vars, err := ParseReader(file)
	if err != nil {
		var lineErr *LineError
		if errors.As(err, &lineErr) {
			lineErr.File = path
		}
		return nil, err
	}
	return vars, nil
}

// ParseReader parses env content from r.
func ParseReader(r io.Reader) (map[string]string, error) {
	envVars := make(map[string]string)
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		key, value, ok, err := parseLine(scanner.Text())
		if err != nil {
			return nil, &LineError{Line: lineNum, Err: err}
		}
		if !ok {
			continue
		}
		envVars[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading env file: %w", err)
	}
	return envVars, nil
}

// parseLine returns ok=false for blank lines and comments.
func parseLine(raw string) (key, value string, ok bool, err error) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false, nil
	}
	if rest, found := strings.CutPrefix(line, "export "); found {
		line = strings.TrimSpace(rest)
	}

	k, v, found := strings.Cut(line, "=")
	if !found {
		return "", "", false, errExpectedKeyValue
	}
	key = strings.TrimSpace(k)
	if !validKey(key) {
		return "", "", false, fmt.Errorf("%w: %q", errInvalidKey, key)
	}

	value = strings.TrimSpace(v)
	switch {
	case strings.HasPrefix(value, `"`):
		value, err = parseDoubleQuoted(value)
	case strings.HasPrefix(value, `'`):
		value, err = parseSingleQuoted(value)
	}
	if err != nil {
		return "", "", false, err
	}
	return key, value, true, nil
}

func validKey(key string) bool {
	if key == "" {
		return false
	}
	for i, c := range key {
		switch {
		case c == '_', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func parseDoubleQuoted(value string) (string, error) {
	var b strings.Builder
	for i := 1; i < len(value); i++ {
		c := value[i]
		switch {
		case c == '\\' && i+1 < len(value):
			i++
			switch value[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"', '\\', '$', '`':
				b.WriteByte(value[i])
			default:
				b.WriteByte('\\')
				b.WriteByte(value[i])
			}
		case c == '"':
			if err := checkSuffix(value[i+1:]); err != nil {
				return "", err
			}
			return b.String(), nil
		default:
			b.WriteByte(c)
		}
	}
	return "", errUnterminated
}

func parseSingleQuoted(value string) (string, error) {
	end := strings.IndexByte(value[1:], '\'')
	if end < 0 {
		return "", errUnterminated
	}
	end++
	if err := checkSuffix(value[end+1:]); err != nil {
		return "", err
	}
	return value[1:end], nil
}

func checkSuffix(suffix string) error {
	trimmed := strings.TrimSpace(suffix)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}
	return errTrailingContent
}
