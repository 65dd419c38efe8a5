// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package container

import (
	"github.com/juju/errors"
	"gopkg.in/yaml.v3"
)

// Layer is a declarative service-and-check definition in pebble's layer
// syntax. It is marshalled to YAML before being handed to the supervisor.
type Layer struct {
	Summary  string             `yaml:"summary,omitempty"`
	Services map[string]Service `yaml:"services,omitempty"`
	Checks   map[string]Check   `yaml:"checks,omitempty"`
}

// Service defines one supervised service within a layer.
type Service struct {
	Override       string            `yaml:"override,omitempty"`
	Summary        string            `yaml:"summary,omitempty"`
	Command        string            `yaml:"command,omitempty"`
	Startup        string            `yaml:"startup,omitempty"`
	Environment    map[string]string `yaml:"environment,omitempty"`
	OnCheckFailure map[string]string `yaml:"on-check-failure,omitempty"`
}

// Check defines one health check within a layer.
type Check struct {
	Override  string     `yaml:"override,omitempty"`
	Level     string     `yaml:"level,omitempty"`
	Period    string     `yaml:"period,omitempty"`
	Threshold int        `yaml:"threshold,omitempty"`
	HTTP      *HTTPCheck `yaml:"http,omitempty"`
}

// HTTPCheck is the HTTP variant of a health check.
type HTTPCheck struct {
	URL string `yaml:"url,omitempty"`
}

const (
	// OverrideReplace replaces any previously defined service or check of
	// the same name when the layer is applied.
	OverrideReplace = "replace"

	// StartupEnabled starts the service automatically once the layer is in
	// the plan.
	StartupEnabled = "enabled"

	// CheckLevelReady marks a check as contributing to the ready level.
	CheckLevelReady = "ready"

	// ActionRestart restarts the service when the named check fails.
	ActionRestart = "restart"
)

// Data serialises the layer to pebble's YAML wire form.
func (l Layer) Data() ([]byte, error) {
	data, err := yaml.Marshal(l)
	if err != nil {
		return nil, errors.Annotate(err, "marshalling layer")
	}
	return data, nil
}
