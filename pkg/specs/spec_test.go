package specs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/bootstrap/pkg/platform"
)

func TestScope_AppliesTo(t *testing.T) {
	tests := []struct {
		scope  Scope
		family platform.Family
		want   bool
	}{
		{ScopeCommon, platform.Linux, true},
		{ScopeCommon, platform.MacOS, true},
		{ScopeCommon, platform.Unsupported, false},
		{ScopeLinux, platform.Linux, true},
		{ScopeLinux, platform.MacOS, false},
		{ScopeMacOS, platform.MacOS, true},
		{ScopeMacOS, platform.Linux, false},
		{ScopeMacOS, platform.Unsupported, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.scope)+"_"+tt.family.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scope.AppliesTo(tt.family))
		})
	}
}

func TestScopeForName(t *testing.T) {
	tests := []struct {
		name    string
		want    Scope
		wantErr bool
	}{
		{"common", ScopeCommon, false},
		{"linux", ScopeLinux, false},
		{"macos", ScopeMacOS, false},
		{"linux-desktop", ScopeLinux, false},
		{"macos.work", ScopeMacOS, false},
		{"windows", "", true},
		{"-linux", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScopeForName(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEntry_ProbeCommand(t *testing.T) {
	assert.Equal(t, "rg", Entry{Package: "ripgrep", Probe: "rg"}.ProbeCommand())
	assert.Equal(t, "git", Entry{Package: "git"}.ProbeCommand())
}

func TestPackageSpec_Validate(t *testing.T) {
	ok := PackageSpec{Name: "linux", Entries: []Entry{{Package: "a"}, {Package: "b", Manager: ManagerSnap}}}
	assert.NoError(t, ok.Validate())

	dup := PackageSpec{Name: "linux", Entries: []Entry{{Package: "a"}, {Package: "a"}}}
	assert.ErrorContains(t, dup.Validate(), `duplicate package "a"`)

	empty := PackageSpec{Name: "linux", Entries: []Entry{{Package: " "}}}
	assert.ErrorContains(t, empty.Validate(), "no package name")

	badManager := PackageSpec{Name: "linux", Entries: []Entry{{Package: "a", Manager: "yum"}}}
	assert.ErrorContains(t, badManager.Validate(), `unknown manager "yum"`)
}

func TestSelect(t *testing.T) {
	all := []PackageSpec{
		{Name: "linux", Scope: ScopeLinux},
		{Name: "macos", Scope: ScopeMacOS},
		{Name: "common", Scope: ScopeCommon},
		{Name: "linux-desktop", Scope: ScopeLinux},
	}

	names := func(specs []PackageSpec) []string {
		var out []string
		for _, s := range specs {
			out = append(out, s.Name)
		}
		return out
	}

	assert.Equal(t, []string{"common", "linux", "linux-desktop"}, names(Select(all, platform.Linux)))
	assert.Equal(t, []string{"common", "macos"}, names(Select(all, platform.MacOS)))
	assert.Empty(t, Select(all, platform.Unsupported))
}

func TestFind(t *testing.T) {
	all := []PackageSpec{{Name: "common"}, {Name: "linux"}}

	spec, ok := Find(all, "linux")
	assert.True(t, ok)
	assert.Equal(t, "linux", spec.Name)

	_, ok = Find(all, "macos")
	assert.False(t, ok)
}
