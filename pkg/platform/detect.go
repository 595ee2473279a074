package platform

import (
	"bufio"
	"os"
	"runtime"
	"strings"
)

// OSReleasePath is where Linux distributions describe themselves.
const OSReleasePath = "/etc/os-release"

// Info is what Detect learned about the running system.
type Info struct {
	Family Family
	GOOS   string
	Arch   string

	// DistroID and DistroLike come from /etc/os-release (Linux only).
	DistroID   string
	DistroLike []string
	Version    string
}

// Detector reads OS identification. Fields are swappable for tests.
type Detector struct {
	GOOS        string
	Arch        string
	ReadFile    func(path string) ([]byte, error)
	ReleasePath string
}

// NewDetector returns a Detector for the running process.
func NewDetector() *Detector {
	return &Detector{
		GOOS:        runtime.GOOS,
		Arch:        runtime.GOARCH,
		ReadFile:    os.ReadFile,
		ReleasePath: OSReleasePath,
	}
}

// Detect determines the OS family once. The result is meant to be kept for
// the lifetime of the process.
func (d *Detector) Detect() Info {
	info := Info{
		Family: FromGOOS(d.GOOS),
		GOOS:   d.GOOS,
		Arch:   d.Arch,
	}

	if info.Family != Linux || d.ReadFile == nil {
		return info
	}

	data, err := d.ReadFile(d.ReleasePath)
	if err != nil {
		// Minimal containers may lack os-release; GOOS is still enough.
		return info
	}

	fields := ParseOSRelease(string(data))
	info.DistroID = fields["ID"]
	info.Version = fields["VERSION_ID"]
	if like := fields["ID_LIKE"]; like != "" {
		info.DistroLike = strings.Fields(like)
	}
	return info
}

// IsDebianLike reports whether the distro uses apt.
func (i Info) IsDebianLike() bool {
	if i.DistroID == "debian" || i.DistroID == "ubuntu" {
		return true
	}
	for _, like := range i.DistroLike {
		if like == "debian" || like == "ubuntu" {
			return true
		}
	}
	return false
}

// Detect is a shortcut for NewDetector().Detect().
func Detect() Info {
	return NewDetector().Detect()
}

// ParseOSRelease parses the KEY=VALUE lines of an os-release file.
func ParseOSRelease(content string) map[string]string {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"'`)
	}
	return fields
}
