package specs

import (
	_ "embed"
	"fmt"
)

// defaultSpec is the baseline machine spec shipped with the binary.
//
//go:embed defaults/default.yaml
var defaultSpec []byte

// Default returns the embedded baseline specs.
func Default() ([]PackageSpec, error) {
	specs, err := ParseYAML(defaultSpec)
	if err != nil {
		return nil, fmt.Errorf("embedded default spec: %w", err)
	}
	return specs, nil
}

// LoadOrDefault loads path, or the embedded specs when path is empty.
func LoadOrDefault(path string) ([]PackageSpec, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}
