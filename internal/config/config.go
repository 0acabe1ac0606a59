// Package config loads an optional ".eyeling.yaml" defaults file: CLI flags always win, so Defaults
// only fills in fields the caller never set explicitly.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults mirrors the subset of cmd/eyeling's flags a config file may
// set defaults for; unset fields are nil/zero and left alone by ApplyBool.
type Defaults struct {
	EnforceHTTPS    *bool `yaml:"enforce_https"`
	ProofComments   *bool `yaml:"proof_comments"`
	SuperRestricted *bool `yaml:"super_restricted"`
	Stream          *bool `yaml:"stream"`
	Verbose         *bool `yaml:"verbose"`
}

// Load parses a YAML defaults file at path.
func Load(path string) (*Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ApplyBool overrides dst with the config value only when the flag
// was left at its zero value (changed reports whether the caller's
// cobra flag was explicitly set on the command line).
func ApplyBool(dst *bool, changed bool, cfgVal *bool) {
	if changed || cfgVal == nil {
		return
	}
	*dst = *cfgVal
}
