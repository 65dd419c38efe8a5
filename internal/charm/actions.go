// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	"fmt"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/names/v5"

	"github.com/canonical/beszel-k8s-operator/core/relation"
	"github.com/canonical/beszel-k8s-operator/internal/beszel"
	"github.com/canonical/beszel-k8s-operator/internal/container"
)

// ActionResult is the outcome of one synchronous operator action: either a
// set of result values or a failure message. The platform boundary adapter
// is the only place that translates a failure into the platform's native
// failed-action signal.
type ActionResult struct {
	results map[string]interface{}
	failure string
}

// ActionSuccess returns a successful result carrying the given values.
func ActionSuccess(results map[string]interface{}) ActionResult {
	return ActionResult{results: results}
}

// ActionFailedf returns a failed result with a human-readable message.
func ActionFailedf(format string, args ...interface{}) ActionResult {
	return ActionResult{failure: fmt.Sprintf(format, args...)}
}

// Failed reports whether the action failed.
func (r ActionResult) Failed() bool {
	return r.failure != ""
}

// Message returns the failure message, empty on success.
func (r ActionResult) Message() string {
	return r.failure
}

// Results returns the action's result values, nil on failure.
func (r ActionResult) Results() map[string]interface{} {
	return r.results
}

// BackupUploader pushes a verified backup to the related object store.
type BackupUploader interface {
	// Upload stores data under key in the bucket described by conn and
	// returns the resulting object location.
	Upload(conn *relation.S3ConnectionInfo, key string, data []byte) (string, error)
}

// ActionsConfig holds the collaborators the action handlers need.
type ActionsConfig struct {
	Container container.Container
	Clock     clock.Clock
	AppName   string
	Ingress   relation.IngressView
	S3        relation.S3View

	// Uploader is optional; backup-now only needs it when asked to upload.
	Uploader BackupUploader
}

// Validate returns an error if the config is not usable.
func (c ActionsConfig) Validate() error {
	if c.Container == nil {
		return errors.NotValidf("nil Container")
	}
	if c.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if !names.IsValidApplication(c.AppName) {
		return errors.NotValidf("application name %q", c.AppName)
	}
	return nil
}

// Actions implements the operator's synchronous request/response operations.
type Actions struct {
	config ActionsConfig
}

// NewActions returns the action handlers for the given collaborators.
func NewActions(config ActionsConfig) (*Actions, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if config.Ingress == nil {
		config.Ingress = relation.AbsentIngress
	}
	if config.S3 == nil {
		config.S3 = relation.AbsentS3
	}
	return &Actions{config: config}, nil
}

// GetAdminURL resolves the hub's admin URL: the ingress URL when provided,
// else the configured external hostname, else the local application address.
// It never fails.
func (a *Actions) GetAdminURL(rawConfig map[string]interface{}) ActionResult {
	cfg, err := NewConfig(rawConfig)
	if err != nil {
		cfg, _ = NewConfig(nil)
	}

	var url string
	switch {
	case a.config.Ingress.URL() != "":
		url = a.config.Ingress.URL()
	case cfg.ExternalHostname != "":
		url = "https://" + cfg.ExternalHostname
	default:
		url = fmt.Sprintf("http://%s:%d", a.config.AppName, cfg.Port)
	}
	return ActionSuccess(map[string]interface{}{"url": url})
}

// CreateAgentToken mints a universal agent token and returns it along with
// setup instructions embedding the resolved hub URL.
func (a *Actions) CreateAgentToken(description string) ActionResult {
	if !a.config.Container.CanConnect() {
		return ActionFailedf("Container not ready")
	}

	token, err := beszel.CreateAgentToken(a.config.Container, description)
	if err != nil {
		return ActionFailedf("Failed to create agent token")
	}

	hubURL := a.config.Ingress.URL()
	if hubURL == "" {
		hubURL = fmt.Sprintf("http://%s:8090", a.config.AppName)
	}
	instructions := fmt.Sprintf(
		"Use this token when configuring Beszel agents:\n\n"+
			"1. Install the Beszel agent on the system to monitor\n"+
			"2. Configure the agent with:\n"+
			"   HUB_URL=%s\n"+
			"   TOKEN=%s\n"+
			"3. Start the agent service\n\n"+
			"See https://beszel.dev/guide/getting-started for more details.",
		hubURL, token,
	)
	return ActionSuccess(map[string]interface{}{
		"token":        token,
		"instructions": instructions,
	})
}

// BackupNow creates a timestamped database backup. When upload is requested
// and S3 backups are configured, the verified local backup is additionally
// streamed to the related bucket; the local copy stands regardless of the
// upload outcome.
func (a *Actions) BackupNow(rawConfig map[string]interface{}, upload bool) ActionResult {
	if !a.config.Container.CanConnect() {
		return ActionFailedf("Container not ready")
	}

	info, err := beszel.CreateBackup(a.config.Container, a.config.Clock)
	if err != nil {
		return ActionFailedf("Failed to create backup")
	}

	results := map[string]interface{}{
		"backup-path": info.Path,
		"timestamp":   info.Timestamp,
		"filename":    info.Filename,
	}
	if !upload {
		return ActionSuccess(results)
	}

	location, err := a.uploadBackup(rawConfig, info)
	if err != nil {
		return ActionFailedf("Backup created at %s but upload failed: %v", info.Path, err)
	}
	results["uploaded-to"] = location
	return ActionSuccess(results)
}

// ListBackups enumerates the accumulated backups; the result is empty when
// none exist yet.
func (a *Actions) ListBackups() ActionResult {
	if !a.config.Container.CanConnect() {
		return ActionFailedf("Container not ready")
	}

	backups, err := beszel.ListBackups(a.config.Container)
	if err != nil {
		return ActionFailedf("Failed to list backups: %v", err)
	}

	records := make([]map[string]string, len(backups))
	for i, b := range backups {
		records[i] = map[string]string{
			"filename": b.Filename,
			"path":     b.Path,
			"size":     fmt.Sprint(b.Size),
			"modified": b.Modified,
		}
	}
	return ActionSuccess(map[string]interface{}{"backups": records})
}

func (a *Actions) uploadBackup(rawConfig map[string]interface{}, info *beszel.BackupInfo) (string, error) {
	cfg, err := NewConfig(rawConfig)
	if err != nil {
		return "", errors.Trace(err)
	}
	if !cfg.S3BackupEnabled {
		return "", errors.New("s3-backup-enabled is false")
	}
	conn := a.config.S3.ConnectionInfo()
	if conn == nil {
		return "", errors.New("no S3 credentials relation data")
	}
	if a.config.Uploader == nil {
		return "", errors.New("no uploader configured")
	}

	effective := relation.S3ConnectionInfo{
		Endpoint:  withDefault(conn.Endpoint, cfg.S3Endpoint),
		Bucket:    withDefault(conn.Bucket, cfg.S3Bucket),
		Region:    withDefault(conn.Region, cfg.S3Region),
		AccessKey: conn.AccessKey,
		SecretKey: conn.SecretKey,
	}
	data, err := a.config.Container.Pull(info.Path)
	if err != nil {
		return "", errors.Annotate(err, "reading backup")
	}
	location, err := a.config.Uploader.Upload(&effective, info.Filename, data)
	return location, errors.Trace(err)
}
