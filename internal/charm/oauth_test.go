// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm_test

import (
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/canonical/beszel-k8s-operator/internal/charm"
)

type oauthSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&oauthSuite{})

func (*oauthSuite) TestNoExternalHostname(c *gc.C) {
	cfg := mustConfig(c, nil)
	c.Check(charm.OAuthClientConfigFor(cfg), gc.IsNil)
}

func (*oauthSuite) TestWithExternalHostname(c *gc.C) {
	cfg := mustConfig(c, map[string]interface{}{"external-hostname": "beszel.example.com"})
	clientConfig := charm.OAuthClientConfigFor(cfg)
	c.Assert(clientConfig, gc.NotNil)
	c.Check(clientConfig.RedirectURI, gc.Equals, "https://beszel.example.com/_/#/auth/oidc")
	c.Check(clientConfig.Scope, gc.Equals, "openid profile email")
	c.Check(clientConfig.GrantTypes, jc.DeepEquals, []string{"authorization_code"})
}
