package survey

import (
	"bytes"
	_ "embed"
)

//go:embed default.yaml
var defaultYAML []byte

// DefaultYAML returns the built-in peanut tasting survey definition.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// Default loads the built-in survey config.
func Default() (*Config, error) {
	return Load(bytes.NewReader(defaultYAML))
}
