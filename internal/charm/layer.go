// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	"fmt"

	"github.com/canonical/beszel-k8s-operator/internal/beszel"
	"github.com/canonical/beszel-k8s-operator/internal/container"
)

const (
	// ServiceName is the supervised service (and layer label).
	ServiceName = "beszel"

	// CheckName is the readiness health check bound to the service.
	CheckName = "beszel-ready"

	// checkPeriod is how often the supervisor polls the health check.
	checkPeriod = "10s"

	// checkThreshold is how many consecutive failures mark the check down.
	checkThreshold = 3
)

// BuildLayer renders the declarative service-and-check definition applied to
// the supervisor: one service running the hub, restarted by the supervisor
// when its readiness check fails, and one HTTP check against the configured
// port. Deterministic and pure.
func BuildLayer(cfg Config, env map[string]string) container.Layer {
	return container.Layer{
		Summary: "Beszel Hub service",
		Services: map[string]container.Service{
			ServiceName: {
				Override:    container.OverrideReplace,
				Summary:     "Beszel Hub server monitoring service",
				Command:     beszel.BinaryPath + " serve",
				Startup:     container.StartupEnabled,
				Environment: env,
				OnCheckFailure: map[string]string{
					CheckName: container.ActionRestart,
				},
			},
		},
		Checks: map[string]container.Check{
			CheckName: {
				Override:  container.OverrideReplace,
				Level:     container.CheckLevelReady,
				Period:    checkPeriod,
				Threshold: checkThreshold,
				HTTP: &container.HTTPCheck{
					URL: fmt.Sprintf("http://localhost:%d/", cfg.Port),
				},
			},
		},
	}
}
