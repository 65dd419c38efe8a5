// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package beszel_test

import (
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/canonical/beszel-k8s-operator/internal/beszel"
	"github.com/canonical/beszel-k8s-operator/internal/container/containertest"
)

type tokenSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&tokenSuite{})

func (*tokenSuite) TestCreateAgentTokenNoDatabase(c *gc.C) {
	ctr := containertest.New()
	_, err := beszel.CreateAgentToken(ctr, "test")
	c.Assert(err, jc.Satisfies, errors.IsNotFound)
}

func (*tokenSuite) TestCreateAgentToken(c *gc.C) {
	ctr := containertest.New()
	ctr.Files[beszel.DatabasePath] = []byte("db")

	token, err := beszel.CreateAgentToken(ctr, "monitoring host")
	c.Assert(err, jc.ErrorIsNil)
	// 32 bytes of randomness, URL-safe unpadded base64.
	c.Check(token, gc.HasLen, 43)
	c.Check(token, gc.Matches, `[A-Za-z0-9_-]+`)
}

func (*tokenSuite) TestCreateAgentTokenUnique(c *gc.C) {
	ctr := containertest.New()
	ctr.Files[beszel.DatabasePath] = []byte("db")

	first, err := beszel.CreateAgentToken(ctr, "")
	c.Assert(err, jc.ErrorIsNil)
	second, err := beszel.CreateAgentToken(ctr, "")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(first, gc.Not(gc.Equals), second)
}
