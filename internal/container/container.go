// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package container provides the seam between the operator and the pebble
// service manager running inside the workload container. All supervisor
// interaction goes through the Container interface so that the reconciler
// and the workload operations can be driven against an in-memory fake.
package container

import (
	"time"
)

// ServiceStatus is the running state pebble reports for a managed service.
type ServiceStatus string

const (
	// StatusActive indicates the service is currently running.
	StatusActive ServiceStatus = "active"

	// StatusInactive indicates the service is not running.
	StatusInactive ServiceStatus = "inactive"

	// StatusBackoff indicates the service is waiting before a restart
	// attempt after a failure.
	StatusBackoff ServiceStatus = "backoff"

	// StatusError indicates the service could not be started.
	StatusError ServiceStatus = "error"
)

// ServiceInfo describes one service managed by the supervisor.
type ServiceInfo struct {
	Name    string
	Startup string
	Current ServiceStatus
}

// IsRunning reports whether the service is in the active state.
func (i ServiceInfo) IsRunning() bool {
	return i.Current == StatusActive
}

// FileInfo describes a file inside the workload container.
type FileInfo struct {
	Name         string
	Path         string
	Size         int64
	LastModified time.Time
}

// Container is the operator's view of the supervised workload container.
//
// Layer application is atomic from the caller's point of view: either the
// whole layer is accepted or the call fails. Re-applying an identical layer
// followed by a replan is a no-op on the supervisor side.
type Container interface {
	// CanConnect reports whether the supervisor is reachable.
	CanConnect() bool

	// AddLayer applies the given layer under label, replacing any prior
	// layer with the same label.
	AddLayer(label string, layer Layer) error

	// Replan asks the supervisor to reconcile running services against the
	// current layered plan.
	Replan() error

	// Services returns the state of every managed service.
	Services() ([]ServiceInfo, error)

	// Exec runs command inside the container with a bounded timeout and
	// returns its combined output.
	Exec(command []string, timeout time.Duration) (string, error)

	// Exists reports whether path exists inside the container.
	Exists(path string) bool

	// MakeDir creates a directory inside the container, optionally creating
	// missing parents.
	MakeDir(path string, makeParents bool) error

	// Pull reads the contents of a file inside the container.
	Pull(path string) ([]byte, error)

	// Push writes data to path inside the container, optionally creating
	// missing parent directories.
	Push(path string, data []byte, makeDirs bool) error

	// ListFiles enumerates the files under dir whose base name matches the
	// given glob pattern.
	ListFiles(dir, pattern string) ([]FileInfo, error)
}
