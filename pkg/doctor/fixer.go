package doctor

import (
	"strings"

	"github.com/jaspreet-dot-casa/bootstrap/pkg/specs"
)

// Planner resolves the install command for an entry without running it.
type Planner interface {
	CommandFor(entry specs.Entry) ([]string, error)
}

// fixFor returns the install command for entry, or the reason there is none.
func fixFor(planner Planner, entry specs.Entry) (*FixCommand, error) {
	argv, err := planner.CommandFor(entry)
	if err != nil {
		return nil, err
	}

	manager := entry.Manager
	bin := argv[0]
	if bin == "sudo" && len(argv) > 1 {
		bin = argv[1]
	}
	if manager == "" {
		manager = bin
	}

	return &FixCommand{
		Manager: manager,
		Argv:    argv,
		Sudo:    argv[0] == "sudo",
	}, nil
}

// FixCommands returns the install commands for every missing package in order.
func FixCommands(groups []CheckGroup) []string {
	var cmds []string
	for _, group := range groups {
		for _, check := range group.Checks {
			if check.Status == StatusMissing && check.FixCommand != nil {
				cmds = append(cmds, check.FixCommand.Command())
			}
		}
	}
	return cmds
}

func joinArgv(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		if a == "" || strings.ContainsAny(a, " \t\"'$") {
			a = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		}
		quoted[i] = a
	}
	return strings.Join(quoted, " ")
}
