package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Unmarshal reads a YAML configuration on top of the defaults. References
// like ${name} are replaced using params before parsing; an unknown name is
// an error.
func Unmarshal(data []byte, params *Params) (Config, error) {
	c := Default()

	var missing []string
	expanded := os.Expand(string(data), func(name string) string {
		value, ok := params.Get(name)
		if !ok {
			missing = append(missing, name)
		}
		return value
	})
	if len(missing) > 0 {
		return c, fmt.Errorf("unresolved config params: %s", strings.Join(missing, ", "))
	}

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("invalid config document format: %w", err)
	}
	return c, nil
}

// Load reads the YAML configuration file at path.
func Load(path string, params *Params) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("reading config: %w", err)
	}
	return Unmarshal(data, params)
}
