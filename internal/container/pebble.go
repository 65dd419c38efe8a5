// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package container

import (
	"bytes"
	"time"

	"github.com/canonical/pebble/client"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
)

var logger = loggo.GetLogger("beszel.container")

// pebbleContainer drives a workload container through the pebble API over
// its unix socket.
type pebbleContainer struct {
	client *client.Client
}

// NewPebbleContainer returns a Container backed by the pebble daemon
// listening on socketPath.
func NewPebbleContainer(socketPath string) (Container, error) {
	pc, err := client.New(&client.Config{Socket: socketPath})
	if err != nil {
		return nil, errors.Annotate(err, "connecting to pebble")
	}
	return &pebbleContainer{client: pc}, nil
}

// CanConnect implements Container.
func (c *pebbleContainer) CanConnect() bool {
	if _, err := c.client.SysInfo(); err != nil {
		logger.Debugf("pebble not reachable: %v", err)
		return false
	}
	return true
}

// AddLayer implements Container.
func (c *pebbleContainer) AddLayer(label string, layer Layer) error {
	data, err := layer.Data()
	if err != nil {
		return errors.Trace(err)
	}
	err = c.client.AddLayer(&client.AddLayerOptions{
		Combine:   true,
		Label:     label,
		LayerData: data,
	})
	return errors.Annotatef(err, "adding layer %q", label)
}

// Replan implements Container.
func (c *pebbleContainer) Replan() error {
	changeID, err := c.client.Replan(&client.ServiceOptions{})
	if err != nil {
		return errors.Annotate(err, "replanning services")
	}
	change, err := c.client.WaitChange(changeID, &client.WaitChangeOptions{})
	if err != nil {
		return errors.Annotatef(err, "waiting for replan change %q", changeID)
	}
	if change.Err != "" {
		return errors.Errorf("replan failed: %s", change.Err)
	}
	return nil
}

// Services implements Container.
func (c *pebbleContainer) Services() ([]ServiceInfo, error) {
	infos, err := c.client.Services(&client.ServicesOptions{})
	if err != nil {
		return nil, errors.Annotate(err, "querying services")
	}
	result := make([]ServiceInfo, len(infos))
	for i, info := range infos {
		result[i] = ServiceInfo{
			Name:    info.Name,
			Startup: string(info.Startup),
			Current: ServiceStatus(info.Current),
		}
	}
	return result, nil
}

// Exec implements Container.
func (c *pebbleContainer) Exec(command []string, timeout time.Duration) (string, error) {
	var output bytes.Buffer
	process, err := c.client.Exec(&client.ExecOptions{
		Command: command,
		Timeout: timeout,
		Stdout:  &output,
		Stderr:  &output,
	})
	if err != nil {
		return "", errors.Annotatef(err, "executing %q", command)
	}
	if err := process.Wait(); err != nil {
		return output.String(), errors.Annotatef(err, "waiting for %q", command)
	}
	return output.String(), nil
}

// Exists implements Container.
func (c *pebbleContainer) Exists(path string) bool {
	_, err := c.client.ListFiles(&client.ListFilesOptions{
		Path:   path,
		Itself: true,
	})
	return err == nil
}

// MakeDir implements Container.
func (c *pebbleContainer) MakeDir(path string, makeParents bool) error {
	err := c.client.MakeDir(&client.MakeDirOptions{
		Path:        path,
		MakeParents: makeParents,
	})
	return errors.Annotatef(err, "creating directory %q", path)
}

// Pull implements Container.
func (c *pebbleContainer) Pull(path string) ([]byte, error) {
	var buf bytes.Buffer
	err := c.client.Pull(&client.PullOptions{
		Path:   path,
		Target: &buf,
	})
	if err != nil {
		return nil, errors.Annotatef(err, "pulling %q", path)
	}
	return buf.Bytes(), nil
}

// Push implements Container.
func (c *pebbleContainer) Push(path string, data []byte, makeDirs bool) error {
	err := c.client.Push(&client.PushOptions{
		Path:     path,
		Source:   bytes.NewReader(data),
		MakeDirs: makeDirs,
	})
	return errors.Annotatef(err, "pushing %q", path)
}

// ListFiles implements Container.
func (c *pebbleContainer) ListFiles(dir, pattern string) ([]FileInfo, error) {
	infos, err := c.client.ListFiles(&client.ListFilesOptions{
		Path:    dir,
		Pattern: pattern,
	})
	if err != nil {
		return nil, errors.Annotatef(err, "listing files in %q", dir)
	}
	result := make([]FileInfo, len(infos))
	for i, info := range infos {
		result[i] = FileInfo{
			Name:         info.Name(),
			Path:         info.Path(),
			Size:         info.Size(),
			LastModified: info.ModTime(),
		}
	}
	return result, nil
}
