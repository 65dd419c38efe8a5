// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package containertest provides an in-memory Container implementation for
// driving the reconciler and workload operations in tests.
package containertest

import (
	"path"
	"sort"
	"strings"
	"time"

	"github.com/juju/errors"

	"github.com/canonical/beszel-k8s-operator/internal/container"
)

// AppliedLayer records one AddLayer call.
type AppliedLayer struct {
	Label string
	Layer container.Layer
}

// Container is a scriptable in-memory container.Container.
type Container struct {
	// Connected controls CanConnect.
	Connected bool

	// ServiceList is returned by Services.
	ServiceList []container.ServiceInfo

	// ServicesErr, if set, is returned by Services.
	ServicesErr error

	// ExecOutput maps the first command word to its combined output.
	ExecOutput map[string]string

	// ExecErr, if set, is returned by Exec.
	ExecErr error

	// Files holds the container filesystem contents by path.
	Files map[string][]byte

	// ModTimes optionally records modification times for Files entries.
	ModTimes map[string]time.Time

	// Dirs holds directories created with MakeDir (or pre-seeded).
	Dirs map[string]bool

	// PushErr, if set, is returned by Push.
	PushErr error

	// Applied records every AddLayer call in order.
	Applied []AppliedLayer

	// ReplanCount counts Replan calls.
	ReplanCount int
}

// New returns a connected empty container.
func New() *Container {
	return &Container{
		Connected: true,
		Files:     make(map[string][]byte),
		ModTimes:  make(map[string]time.Time),
		Dirs:      make(map[string]bool),
	}
}

// CanConnect implements container.Container.
func (c *Container) CanConnect() bool {
	return c.Connected
}

// AddLayer implements container.Container.
func (c *Container) AddLayer(label string, layer container.Layer) error {
	if !c.Connected {
		return errors.New("container not reachable")
	}
	c.Applied = append(c.Applied, AppliedLayer{Label: label, Layer: layer})
	return nil
}

// Replan implements container.Container.
func (c *Container) Replan() error {
	if !c.Connected {
		return errors.New("container not reachable")
	}
	c.ReplanCount++
	return nil
}

// Services implements container.Container.
func (c *Container) Services() ([]container.ServiceInfo, error) {
	if c.ServicesErr != nil {
		return nil, c.ServicesErr
	}
	return c.ServiceList, nil
}

// Exec implements container.Container.
func (c *Container) Exec(command []string, timeout time.Duration) (string, error) {
	if c.ExecErr != nil {
		return "", c.ExecErr
	}
	if len(command) == 0 {
		return "", errors.New("empty command")
	}
	return c.ExecOutput[command[0]], nil
}

// Exists implements container.Container.
func (c *Container) Exists(p string) bool {
	if _, ok := c.Files[p]; ok {
		return true
	}
	return c.Dirs[p]
}

// MakeDir implements container.Container.
func (c *Container) MakeDir(p string, makeParents bool) error {
	c.Dirs[p] = true
	if makeParents {
		for dir := path.Dir(p); dir != "/" && dir != "."; dir = path.Dir(dir) {
			c.Dirs[dir] = true
		}
	}
	return nil
}

// Pull implements container.Container.
func (c *Container) Pull(p string) ([]byte, error) {
	data, ok := c.Files[p]
	if !ok {
		return nil, errors.NotFoundf("file %q", p)
	}
	return data, nil
}

// Push implements container.Container.
func (c *Container) Push(p string, data []byte, makeDirs bool) error {
	if c.PushErr != nil {
		return c.PushErr
	}
	if makeDirs {
		if err := c.MakeDir(path.Dir(p), true); err != nil {
			return errors.Trace(err)
		}
	}
	c.Files[p] = data
	return nil
}

// ListFiles implements container.Container.
func (c *Container) ListFiles(dir, pattern string) ([]container.FileInfo, error) {
	if !c.Dirs[dir] {
		return nil, errors.NotFoundf("directory %q", dir)
	}
	var result []container.FileInfo
	for p, data := range c.Files {
		if path.Dir(p) != strings.TrimRight(dir, "/") {
			continue
		}
		name := path.Base(p)
		match, err := path.Match(pattern, name)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if !match {
			continue
		}
		result = append(result, container.FileInfo{
			Name:         name,
			Path:         p,
			Size:         int64(len(data)),
			LastModified: c.ModTimes[p],
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result, nil
}

// LatestLayer returns the most recently applied layer, if any.
func (c *Container) LatestLayer() (container.Layer, bool) {
	if len(c.Applied) == 0 {
		return container.Layer{}, false
	}
	return c.Applied[len(c.Applied)-1].Layer, true
}
