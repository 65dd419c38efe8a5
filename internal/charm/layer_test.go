// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm_test

import (
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/canonical/beszel-k8s-operator/internal/charm"
	"github.com/canonical/beszel-k8s-operator/internal/container"
)

type layerSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&layerSuite{})

func (*layerSuite) TestBuildLayer(c *gc.C) {
	cfg := mustConfig(c, map[string]interface{}{"port": 8091})
	env := charm.RenderEnvironment(cfg, nil, nil)
	layer := charm.BuildLayer(cfg, env)

	c.Assert(layer.Services, gc.HasLen, 1)
	svc := layer.Services[charm.ServiceName]
	c.Check(svc.Command, gc.Equals, "/beszel serve")
	c.Check(svc.Startup, gc.Equals, container.StartupEnabled)
	c.Check(svc.Override, gc.Equals, container.OverrideReplace)
	c.Check(svc.Environment["PORT"], gc.Equals, "8091")
	c.Check(svc.OnCheckFailure, jc.DeepEquals, map[string]string{
		charm.CheckName: container.ActionRestart,
	})

	c.Assert(layer.Checks, gc.HasLen, 1)
	check := layer.Checks[charm.CheckName]
	c.Check(check.Level, gc.Equals, container.CheckLevelReady)
	c.Check(check.HTTP.URL, gc.Equals, "http://localhost:8091/")
	c.Check(check.Period, gc.Equals, "10s")
	c.Check(check.Threshold, gc.Equals, 3)
}

func (*layerSuite) TestBuildLayerIdempotent(c *gc.C) {
	cfg := mustConfig(c, nil)
	env := charm.RenderEnvironment(cfg, nil, nil)

	first := charm.BuildLayer(cfg, env)
	second := charm.BuildLayer(cfg, env)
	c.Check(first, jc.DeepEquals, second)

	firstData, err := first.Data()
	c.Assert(err, jc.ErrorIsNil)
	secondData, err := second.Data()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(string(firstData), gc.Equals, string(secondData))
}
