// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package beszel

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/retry"

	"github.com/canonical/beszel-k8s-operator/internal/container"
)

const (
	// DefaultReadyTimeout bounds a readiness wait.
	DefaultReadyTimeout = 30 * time.Second

	// readyPollInterval is how often readiness is re-checked while waiting.
	readyPollInterval = 1 * time.Second

	// readyGracePeriod is how long to wait after the supervisor reports the
	// services running before declaring them ready. Covers the window where
	// the process is up but not yet accepting connections; ongoing liveness
	// is the supervisor health check's job.
	readyGracePeriod = 2 * time.Second
)

// IsReady reports whether every supervised service is running. The port is
// the one the workload listens on; connection-level liveness on that port is
// left to the supervisor's HTTP check.
func IsReady(ctr container.Container, clk clock.Clock, port int) bool {
	services, err := ctr.Services()
	if err != nil {
		logger.Debugf("unable to query service states: %v", err)
		return false
	}
	for _, svc := range services {
		if !svc.IsRunning() {
			logger.Debugf("service %q is not running", svc.Name)
			return false
		}
	}
	<-clk.After(readyGracePeriod)
	return true
}

// WaitForReady polls IsReady at a fixed interval until it succeeds or the
// timeout expires. It blocks the calling goroutine; the surrounding runtime
// dispatches one event at a time so nothing else is stalled by design of the
// platform, and there is no cancellation once a wait has begun.
func WaitForReady(ctr container.Container, clk clock.Clock, timeout time.Duration, port int) bool {
	attempts := int(timeout / readyPollInterval)
	if attempts < 1 {
		attempts = 1
	}
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			if IsReady(ctr, clk, port) {
				return nil
			}
			return errors.New("beszel is not ready")
		},
		Attempts: attempts,
		Delay:    readyPollInterval,
		Clock:    clk,
	})
	if err != nil {
		logger.Errorf("beszel did not become ready within %v", timeout)
		return false
	}
	return true
}
