// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package beszel

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"

	"github.com/canonical/beszel-k8s-operator/internal/container"
)

const (
	// backupTimeFormat names backups at second resolution; two backups in
	// the same second overwrite each other.
	backupTimeFormat = "20060102-150405"

	// backupPattern matches backup files in the backup directory.
	backupPattern = "beszel-backup-*.db"
)

// BackupInfo describes a freshly created backup.
type BackupInfo struct {
	Path      string
	Timestamp string
	Filename  string
}

// BackupFile describes one existing backup found in the backup directory.
type BackupFile struct {
	Filename string
	Path     string
	Size     int64
	// Modified is the ISO-8601 modification time, or empty if unknown.
	Modified string
}

// CreateBackup copies the beszel database to a timestamped file under the
// backup directory and verifies the copy exists. The copy is a plain full
// file copy, not a consistent point-in-time snapshot if the workload writes
// concurrently. It fails if the database does not exist.
func CreateBackup(ctr container.Container, clk clock.Clock) (*BackupInfo, error) {
	if !ctr.Exists(DatabasePath) {
		logger.Errorf("beszel database not found at %s", DatabasePath)
		return nil, errors.NotFoundf("beszel database")
	}

	if err := ctr.MakeDir(BackupDir, true); err != nil {
		return nil, errors.Annotate(err, "creating backup directory")
	}

	timestamp := clk.Now().Format(backupTimeFormat)
	filename := "beszel-backup-" + timestamp + ".db"
	backupPath := BackupDir + "/" + filename

	data, err := ctr.Pull(DatabasePath)
	if err != nil {
		return nil, errors.Annotate(err, "reading database")
	}
	if err := ctr.Push(backupPath, data, true); err != nil {
		return nil, errors.Annotate(err, "writing backup")
	}

	if !ctr.Exists(backupPath) {
		logger.Errorf("failed to create backup")
		return nil, errors.Errorf("backup %q was not written", backupPath)
	}

	logger.Infof("created backup at %s", backupPath)
	return &BackupInfo{
		Path:      backupPath,
		Timestamp: timestamp,
		Filename:  filename,
	}, nil
}

// ListBackups enumerates the backups accumulated in the backup directory.
// It returns an empty slice if the directory does not exist. No ordering is
// guaranteed beyond what the supervisor's file listing provides.
func ListBackups(ctr container.Container) ([]BackupFile, error) {
	if !ctr.Exists(BackupDir) {
		logger.Infof("backup directory does not exist")
		return []BackupFile{}, nil
	}

	files, err := ctr.ListFiles(BackupDir, backupPattern)
	if err != nil {
		return nil, errors.Annotate(err, "listing backups")
	}

	backups := make([]BackupFile, 0, len(files))
	for _, f := range files {
		modified := ""
		if !f.LastModified.IsZero() {
			modified = f.LastModified.Format(time.RFC3339)
		}
		backups = append(backups, BackupFile{
			Filename: f.Name,
			Path:     f.Path,
			Size:     f.Size,
			Modified: modified,
		})
	}
	return backups, nil
}
