package specs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// requiredKey lists spec names that must not be empty.
const requiredKey = "required"

// Load reads a spec file; the format follows the extension
// (.yaml, .yml or .toml).
func Load(path string) ([]PackageSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", err)
	}

	var specs []PackageSpec
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		specs, err = ParseYAML(data)
	case ".toml":
		specs, err = ParseTOML(data)
	default:
		return nil, fmt.Errorf("unsupported spec file extension %q (use .yaml, .yml or .toml)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return specs, nil
}

// yamlEntry is the object form of an entry in YAML and TOML documents.
type yamlEntry struct {
	Package string   `yaml:"package" toml:"package"`
	Probe   string   `yaml:"probe" toml:"probe"`
	Manager string   `yaml:"manager" toml:"manager"`
	Args    []string `yaml:"args" toml:"args"`
}

func (y yamlEntry) entry() Entry {
	return Entry{
		Package: strings.TrimSpace(y.Package),
		Probe:   strings.TrimSpace(y.Probe),
		Manager: strings.TrimSpace(y.Manager),
		Args:    y.Args,
	}
}

// ParseYAML parses a YAML spec document. Each top-level key other than
// "required" is a spec; its value is either a mapping of package to probe
// (document order is kept) or a list of entry objects.
//
//	required: [common]
//	common:
//	  git: git
//	  ripgrep: rg
//	linux:
//	  - package: code
//	    manager: snap
//	    args: [--classic]
func ParseYAML(data []byte) ([]PackageSpec, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: top level must be a mapping of spec names", root.Line)
	}

	var specs []PackageSpec
	var required []string
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		name := keyNode.Value

		if name == requiredKey {
			if err := valueNode.Decode(&required); err != nil {
				return nil, fmt.Errorf("line %d: %s must be a list of spec names: %w", valueNode.Line, requiredKey, err)
			}
			continue
		}

		scope, err := ScopeForName(name)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", keyNode.Line, err)
		}

		entries, err := yamlEntries(name, valueNode)
		if err != nil {
			return nil, err
		}

		spec := PackageSpec{Name: name, Scope: scope, Entries: entries}
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	return markRequired(specs, required)
}

func yamlEntries(name string, node *yaml.Node) ([]Entry, error) {
	switch node.Kind {
	case yaml.MappingNode:
		entries := make([]Entry, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			pkgNode, probeNode := node.Content[i], node.Content[i+1]
			e := Entry{Package: strings.TrimSpace(pkgNode.Value)}
			switch probeNode.Kind {
			case yaml.ScalarNode:
				// "pkg:" with no value decodes as null; probe defaults to the package name.
				if probeNode.Tag != "!!null" {
					e.Probe = strings.TrimSpace(probeNode.Value)
				}
			case yaml.MappingNode:
				if err := checkEntryKeys(name, probeNode, false); err != nil {
					return nil, err
				}
				var obj yamlEntry
				if err := probeNode.Decode(&obj); err != nil {
					return nil, fmt.Errorf("spec %q line %d: %w", name, probeNode.Line, err)
				}
				obj.Package = e.Package
				e = obj.entry()
			default:
				return nil, fmt.Errorf("spec %q line %d: probe for %q must be a string or mapping", name, probeNode.Line, e.Package)
			}
			entries = append(entries, e)
		}
		return entries, nil

	case yaml.SequenceNode:
		entries := make([]Entry, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind == yaml.ScalarNode {
				entries = append(entries, Entry{Package: strings.TrimSpace(item.Value)})
				continue
			}
			if err := checkEntryKeys(name, item, true); err != nil {
				return nil, err
			}
			var obj yamlEntry
			if err := item.Decode(&obj); err != nil {
				return nil, fmt.Errorf("spec %q line %d: %w", name, item.Line, err)
			}
			entries = append(entries, obj.entry())
		}
		return entries, nil

	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("spec %q line %d: must be a mapping or a list", name, node.Line)
}

// checkEntryKeys rejects keys an entry object does not have. In the mapping
// form the package is the outer key, so "package" is not allowed inside.
func checkEntryKeys(name string, node *yaml.Node, allowPackage bool) error {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		switch key.Value {
		case "probe", "manager", "args":
			continue
		case "package":
			if allowPackage {
				continue
			}
		}
		return fmt.Errorf("spec %q line %d: unknown field %q", name, key.Line, key.Value)
	}
	return nil
}

// ParseTOML parses a TOML spec document. Each spec is an array of tables;
// array order is the install order.
//
//	required = ["common"]
//
//	[[common]]
//	package = "git"
//
//	[[linux]]
//	package = "code"
//	manager = "snap"
//	args = ["--classic"]
func ParseTOML(data []byte) ([]PackageSpec, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	var required []string
	var specs []PackageSpec
	for _, name := range sortedKeys(raw) {
		value := raw[name]
		if name == requiredKey {
			list, err := stringList(value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", requiredKey, err)
			}
			required = list
			continue
		}

		scope, err := ScopeForName(name)
		if err != nil {
			return nil, err
		}

		tables, err := tableList(value)
		if err != nil {
			return nil, fmt.Errorf("spec %q: %w", name, err)
		}

		spec := PackageSpec{Name: name, Scope: scope}
		for i, table := range tables {
			e, err := tomlEntry(table)
			if err != nil {
				return nil, fmt.Errorf("spec %q entry %d: %w", name, i+1, err)
			}
			spec.Entries = append(spec.Entries, e)
		}
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	sort.SliceStable(specs, func(i, j int) bool {
		return specs[i].Scope == ScopeCommon && specs[j].Scope != ScopeCommon
	})
	return markRequired(specs, required)
}

func tableList(value any) ([]map[string]any, error) {
	switch v := value.(type) {
	case []map[string]any:
		return v, nil
	case []any:
		tables := make([]map[string]any, 0, len(v))
		for _, item := range v {
			table, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("expected an array of tables ([[name]])")
			}
			tables = append(tables, table)
		}
		return tables, nil
	default:
		return nil, fmt.Errorf("expected an array of tables ([[name]])")
	}
}

func tomlEntry(table map[string]any) (Entry, error) {
	var y yamlEntry
	for key, value := range table {
		switch key {
		case "package", "probe", "manager":
			s, ok := value.(string)
			if !ok {
				return Entry{}, fmt.Errorf("%s must be a string", key)
			}
			switch key {
			case "package":
				y.Package = s
			case "probe":
				y.Probe = s
			case "manager":
				y.Manager = s
			}
		case "args":
			args, err := stringList(value)
			if err != nil {
				return Entry{}, fmt.Errorf("args: %w", err)
			}
			y.Args = args
		default:
			return Entry{}, fmt.Errorf("unknown field %q", key)
		}
	}
	return y.entry(), nil
}

func stringList(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a list of strings")
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of strings")
	}
}

func markRequired(specs []PackageSpec, required []string) ([]PackageSpec, error) {
	for _, name := range required {
		found := false
		for i := range specs {
			if specs[i].Name == name {
				specs[i].Required = true
				found = true
			}
		}
		if found {
			continue
		}
		scope, err := ScopeForName(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", requiredKey, err)
		}
		// Absent but required: keep an empty placeholder so the installer
		// reports it as missing on the matching OS.
		specs = append(specs, PackageSpec{Name: name, Scope: scope, Required: true})
	}
	return specs, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
