package doctor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/bootstrap/pkg/installer"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/platform"
	"github.com/jaspreet-dot-casa/bootstrap/pkg/specs"
)

// MockResolver is a mock PATH lookup for testing.
type MockResolver struct {
	LookPathFunc func(file string) (string, error)
}

func (m *MockResolver) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

// MockPlanner returns fixed install commands.
type MockPlanner struct {
	CommandForFunc func(entry specs.Entry) ([]string, error)
}

func (m *MockPlanner) CommandFor(entry specs.Entry) ([]string, error) {
	if m.CommandForFunc != nil {
		return m.CommandForFunc(entry)
	}
	return []string{"sudo", "apt-get", "install", "-y", entry.Package}, nil
}

func only(present ...string) *MockResolver {
	set := make(map[string]bool, len(present))
	for _, p := range present {
		set[p] = true
	}
	return &MockResolver{
		LookPathFunc: func(file string) (string, error) {
			if set[file] {
				return "/usr/bin/" + file, nil
			}
			return "", errors.New("not found")
		},
	}
}

func testSpecs() []specs.PackageSpec {
	return []specs.PackageSpec{
		{
			Name:     "common",
			Scope:    specs.ScopeCommon,
			Required: true,
			Entries:  []specs.Entry{{Package: "curl"}, {Package: "git"}},
		},
		{
			Name:    "linux",
			Scope:   specs.ScopeLinux,
			Entries: []specs.Entry{{Package: "ripgrep", Probe: "rg"}},
		},
		{
			Name:    "macos",
			Scope:   specs.ScopeMacOS,
			Entries: []specs.Entry{{Package: "coreutils", Probe: "gls"}},
		},
	}
}

func TestCheckStatus_String(t *testing.T) {
	tests := []struct {
		status CheckStatus
		want   string
	}{
		{StatusOK, "ok"},
		{StatusMissing, "missing"},
		{StatusError, "error"},
		{CheckStatus(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestChecker_CheckAll(t *testing.T) {
	checker := NewCheckerWithResolver(only("curl"), &MockPlanner{})

	groups, err := checker.CheckAll(testSpecs(), platform.Linux)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "common", groups[0].ID)
	assert.Equal(t, "common", groups[0].Scope)
	assert.True(t, groups[0].Required)
	assert.Equal(t, "linux", groups[1].ID)

	curl := groups[0].Checks[0]
	assert.Equal(t, StatusOK, curl.Status)
	assert.Equal(t, "/usr/bin/curl", curl.Message)
	assert.Nil(t, curl.FixCommand)

	git := groups[0].Checks[1]
	assert.Equal(t, StatusMissing, git.Status)
	require.NotNil(t, git.FixCommand)
	assert.True(t, git.FixCommand.Sudo)
	assert.Equal(t, "apt-get", git.FixCommand.Manager)
	assert.Equal(t, "sudo apt-get install -y git", git.FixCommand.Command())

	rg := groups[1].Checks[0]
	assert.Equal(t, "ripgrep", rg.Package)
	assert.Equal(t, "rg", rg.Probe)
	assert.Equal(t, StatusMissing, rg.Status)
}

func TestChecker_CheckAll_MacOSSkipsLinux(t *testing.T) {
	checker := NewCheckerWithResolver(only(), nil)

	groups, err := checker.CheckAll(testSpecs(), platform.MacOS)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "macos", groups[1].ID)
	assert.Nil(t, groups[1].Checks[0].FixCommand)
}

func TestChecker_CheckAll_Unsupported(t *testing.T) {
	checker := NewCheckerWithResolver(only(), nil)

	_, err := checker.CheckAll(testSpecs(), platform.Unsupported)
	assert.ErrorIs(t, err, installer.ErrUnsupportedPlatform)
}

func TestChecker_CheckAll_NoProber(t *testing.T) {
	checker := NewChecker(nil, nil)

	_, err := checker.CheckAll(testSpecs(), platform.Linux)
	assert.ErrorIs(t, err, installer.ErrProbeCapabilityMissing)
}

func TestChecker_CheckAll_MissingRequiredSpec(t *testing.T) {
	checker := NewCheckerWithResolver(only("git"), &MockPlanner{})
	all := []specs.PackageSpec{
		{Name: "common", Scope: specs.ScopeCommon, Entries: []specs.Entry{{Package: "git"}}},
		{Name: "linux", Scope: specs.ScopeLinux, Required: true},
	}

	_, err := checker.CheckAll(all, platform.Linux)
	assert.ErrorIs(t, err, installer.ErrMissingSpec)

	_, err = checker.CheckAllAsync(all, platform.Linux)
	assert.ErrorIs(t, err, installer.ErrMissingSpec)

	groups, err := checker.CheckAll(all, platform.MacOS)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}

func TestChecker_CheckAll_NothingApplies(t *testing.T) {
	checker := NewCheckerWithResolver(only(), nil)
	all := []specs.PackageSpec{{Name: "macos", Scope: specs.ScopeMacOS, Entries: []specs.Entry{{Package: "fd"}}}}

	_, err := checker.CheckAll(all, platform.Linux)
	assert.ErrorIs(t, err, installer.ErrMissingSpec)
}

func TestChecker_PlannerError(t *testing.T) {
	planner := &MockPlanner{
		CommandForFunc: func(entry specs.Entry) ([]string, error) {
			return nil, fmt.Errorf("manager %q is not available", entry.Manager)
		},
	}
	checker := NewChecker(installer.ProberFunc(func(string) bool { return false }), planner)

	group := checker.CheckSpec(specs.PackageSpec{
		Name:    "linux",
		Scope:   specs.ScopeLinux,
		Entries: []specs.Entry{{Package: "fd", Manager: specs.ManagerBrew}},
	})

	require.Len(t, group.Checks, 1)
	assert.Equal(t, StatusError, group.Checks[0].Status)
	assert.Contains(t, group.Checks[0].Message, "not available")
}

func TestChecker_ProberWithoutPaths(t *testing.T) {
	checker := NewChecker(installer.ProberFunc(func(string) bool { return true }), nil)

	group := checker.CheckSpec(testSpecs()[0])
	assert.Equal(t, "installed", group.Checks[0].Message)
}

func TestChecker_CheckAllAsync_MatchesSync(t *testing.T) {
	checker := NewCheckerWithResolver(only("git", "rg"), &MockPlanner{})

	sync, err := checker.CheckAll(testSpecs(), platform.Linux)
	require.NoError(t, err)
	async, err := checker.CheckAllAsync(testSpecs(), platform.Linux)
	require.NoError(t, err)

	assert.Equal(t, sync, async)
}

func TestGetSummary(t *testing.T) {
	groups := []CheckGroup{
		{
			ID: "common",
			Checks: []Check{
				{Status: StatusOK},
				{Status: StatusMissing},
			},
		},
		{
			ID: "linux",
			Checks: []Check{
				{Status: StatusOK},
				{Status: StatusError},
			},
		},
	}

	summary := GetSummary(groups)
	assert.Equal(t, Summary{Total: 4, OK: 2, Missing: 1, Errors: 1}, summary)
	assert.True(t, HasIssues(groups))
}

func TestHasIssues_AllOK(t *testing.T) {
	groups := []CheckGroup{{Checks: []Check{{Status: StatusOK}, {Status: StatusOK}}}}
	assert.False(t, HasIssues(groups))
	assert.False(t, HasIssues(nil))
}

func TestFixCommands(t *testing.T) {
	checker := NewCheckerWithResolver(only("curl"), &MockPlanner{})

	groups, err := checker.CheckAll(testSpecs(), platform.Linux)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"sudo apt-get install -y git",
		"sudo apt-get install -y ripgrep",
	}, FixCommands(groups))
}

func TestFixCommand_Command(t *testing.T) {
	var nilFix *FixCommand
	assert.Empty(t, nilFix.Command())

	fix := &FixCommand{Argv: []string{"brew", "install", "--cask", "my app"}}
	assert.Equal(t, "brew install --cask 'my app'", fix.Command())
}

func TestFixFor_EntryManager(t *testing.T) {
	planner := &MockPlanner{
		CommandForFunc: func(entry specs.Entry) ([]string, error) {
			return []string{"brew", "install", "--cask", entry.Package}, nil
		},
	}

	fix, err := fixFor(planner, specs.Entry{Package: "visual-studio-code", Manager: specs.ManagerCask})
	require.NoError(t, err)
	assert.Equal(t, specs.ManagerCask, fix.Manager)
	assert.False(t, fix.Sudo)
}
