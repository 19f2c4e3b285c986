package config

import "os"

const paramEnvPrefix = "CSVSORT_PARAM_"

// Params are values substituted for ${name} references in a configuration
// file. Names not set explicitly fall back to CSVSORT_PARAM_<name>
// environment variables.
type Params struct {
	params map[string]string
}

func NewParams() *Params {
	return &Params{
		params: make(map[string]string),
	}
}

func (p *Params) Set(key, value string) {
	p.params[key] = value
}

// Get retrieves key's value from the params map, falling back to an
// environment variable.
func (p *Params) Get(key string) (string, bool) {
	if p != nil {
		if value, exists := p.params[key]; exists {
			return value, true
		}
	}

	value := os.Getenv(paramEnvPrefix + key)
	if value != "" {
		return value, true
	}

	return "", false
}
