// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package charm implements the reconciliation core of the Beszel Hub
// operator: the configuration snapshot, the environment and layer renderers,
// the level-triggered reconciler, and the synchronous action handlers.
package charm

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/canonical/beszel-k8s-operator/core/relation"
	"github.com/canonical/beszel-k8s-operator/core/status"
	"github.com/canonical/beszel-k8s-operator/internal/beszel"
	"github.com/canonical/beszel-k8s-operator/internal/container"
)

var logger = loggo.GetLogger("beszel.charm")

// StorageChecker reports whether the workload's persistent data storage is
// attached. A lookup error is treated the same as unattached storage.
type StorageChecker interface {
	IsAttached() (bool, error)
}

// VersionRecorder records the running workload version with the platform.
type VersionRecorder interface {
	SetWorkloadVersion(version string) error
}

// ReconcilerConfig holds the collaborators a Reconciler needs.
type ReconcilerConfig struct {
	Container       container.Container
	Status          status.Setter
	Storage         StorageChecker
	Ingress         relation.IngressView
	OAuth           relation.OAuthView
	S3              relation.S3View
	VersionRecorder VersionRecorder
	Clock           clock.Clock

	// ReadyTimeout bounds the synchronous readiness wait. Zero means the
	// default.
	ReadyTimeout time.Duration
}

// Validate returns an error if the config is not usable.
func (c ReconcilerConfig) Validate() error {
	if c.Container == nil {
		return errors.NotValidf("nil Container")
	}
	if c.Status == nil {
		return errors.NotValidf("nil Status")
	}
	if c.Storage == nil {
		return errors.NotValidf("nil Storage")
	}
	if c.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	return nil
}

// Reconciler maps charm state onto the workload's desired running
// configuration. It is level-triggered: every pass recomputes desired state
// from scratch and carries no memory beyond the externally observable layer
// and unit status, so re-invoking it with unchanged inputs is a no-op.
type Reconciler struct {
	config ReconcilerConfig
}

// NewReconciler returns a Reconciler driven by the given collaborators.
func NewReconciler(config ReconcilerConfig) (*Reconciler, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if config.Ingress == nil {
		config.Ingress = relation.AbsentIngress
	}
	if config.OAuth == nil {
		config.OAuth = relation.AbsentOAuth
	}
	if config.S3 == nil {
		config.S3 = relation.AbsentS3
	}
	if config.ReadyTimeout == 0 {
		config.ReadyTimeout = beszel.DefaultReadyTimeout
	}
	return &Reconciler{config: config}, nil
}

// Reconcile is the single entry point invoked on every triggering event:
// workload connectivity, config change, upgrade, and any relation change.
// It drives the unit through waiting, blocked, maintenance and active.
func (r *Reconciler) Reconcile(rawConfig map[string]interface{}) error {
	ctr := r.config.Container

	if !ctr.CanConnect() {
		return r.setStatus(status.Waiting, "Waiting for Pebble")
	}

	attached, err := r.config.Storage.IsAttached()
	if err != nil {
		logger.Warningf("storage lookup failed: %v", err)
		attached = false
	}
	if !attached {
		return r.setStatus(status.Blocked, "Storage not attached")
	}

	cfg, err := NewConfig(rawConfig)
	if err != nil {
		return r.setStatus(status.Blocked, "invalid configuration: "+err.Error())
	}

	env := RenderEnvironment(cfg, r.config.OAuth, r.config.S3)
	layer := BuildLayer(cfg, env)

	if err := ctr.AddLayer(ServiceName, layer); err != nil {
		return errors.Annotate(err, "applying layer")
	}
	if err := ctr.Replan(); err != nil {
		return errors.Annotate(err, "replanning")
	}

	if !beszel.WaitForReady(ctr, r.config.Clock, r.config.ReadyTimeout, cfg.Port) {
		return r.setStatus(status.Maintenance, "Waiting for service to start")
	}

	if version := beszel.GetVersion(ctr); version != "" && r.config.VersionRecorder != nil {
		if err := r.config.VersionRecorder.SetWorkloadVersion(version); err != nil {
			// Best effort only; never blocks going active.
			logger.Warningf("cannot record workload version: %v", err)
		}
	}

	return r.setStatus(status.Active, "")
}

// OnCheckFailed handles an asynchronous health-check-failure notification.
// The layer's on-check-failure policy makes the supervisor restart the
// service itself, so this only records the event.
func (r *Reconciler) OnCheckFailed(checkName string) {
	logger.Warningf("pebble check %q failed", checkName)
}

func (r *Reconciler) setStatus(s status.Status, message string) error {
	err := r.config.Status.SetStatus(status.StatusInfo{
		Status:  s,
		Message: message,
	})
	return errors.Annotatef(err, "setting status %q", s)
}
