// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package beszel holds the workload-specific logic for the Beszel Hub
// monitoring server: version probing, readiness checks, agent token minting
// and database backups. Everything here operates through the container seam
// and reports failure through return values rather than panics; callers
// translate missing results into action failures or status messages.
package beszel

import (
	"strings"
	"time"

	"github.com/juju/loggo/v2"

	"github.com/canonical/beszel-k8s-operator/internal/container"
)

var logger = loggo.GetLogger("beszel.workload")

const (
	// BinaryPath is the workload entry point inside the container.
	BinaryPath = "/beszel"

	// DataDir is the persistent data volume mount point.
	DataDir = "/beszel_data"

	// BackupDir is where database backups accumulate.
	BackupDir = DataDir + "/backups"

	// DatabasePath is the workload's persisted database file.
	DatabasePath = DataDir + "/data.db"

	// versionPrefix is the expected prefix of the --version output line.
	versionPrefix = "beszel version "

	// versionTimeout bounds the version query.
	versionTimeout = 5 * time.Second
)

// GetVersion queries the running workload for its version string. It returns
// the empty string if the process does not respond or the output is not in
// the expected format; the caller treats that as "version unknown", not as
// an error.
func GetVersion(ctr container.Container) string {
	out, err := ctr.Exec([]string{BinaryPath, "--version"}, versionTimeout)
	if err != nil {
		logger.Debugf("unable to query beszel version: %v", err)
		return ""
	}
	version := strings.TrimSpace(out)
	version = strings.TrimPrefix(version, versionPrefix)
	return version
}
