// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm_test

import (
	"github.com/juju/collections/set"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/canonical/beszel-k8s-operator/core/relation"
	"github.com/canonical/beszel-k8s-operator/internal/charm"
)

type environmentSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&environmentSuite{})

func mustConfig(c *gc.C, raw map[string]interface{}) charm.Config {
	cfg, err := charm.NewConfig(raw)
	c.Assert(err, jc.ErrorIsNil)
	return cfg
}

func (*environmentSuite) TestBaseEnvironment(c *gc.C) {
	cfg := mustConfig(c, map[string]interface{}{"port": 8091})
	env := charm.RenderEnvironment(cfg, relation.AbsentOAuth, relation.AbsentS3)
	c.Check(env, jc.DeepEquals, map[string]string{
		"PORT":      "8091",
		"LOG_LEVEL": "INFO",
	})
}

func (*environmentSuite) TestDeterministic(c *gc.C) {
	cfg := mustConfig(c, map[string]interface{}{
		"s3-backup-enabled": true,
		"external-hostname": "hub.example.com",
	})
	oauth := relation.StaticOAuth{
		Created: true,
		Info: &relation.OAuthProviderInfo{
			ClientID:     "id",
			ClientSecret: "secret",
			IssuerURL:    "https://issuer.example.com",
		},
	}
	s3 := relation.StaticS3{Info: &relation.S3ConnectionInfo{
		Endpoint:  "https://s3.example.com",
		Bucket:    "bucket",
		Region:    "eu-west-1",
		AccessKey: "ak",
		SecretKey: "sk",
	}}
	first := charm.RenderEnvironment(cfg, oauth, s3)
	second := charm.RenderEnvironment(cfg, oauth, s3)
	c.Check(first, jc.DeepEquals, second)
}

func (*environmentSuite) TestOAuthEmitted(c *gc.C) {
	cfg := mustConfig(c, map[string]interface{}{"external-hostname": "hub.example.com"})
	oauth := relation.StaticOAuth{
		Created: true,
		Info: &relation.OAuthProviderInfo{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			IssuerURL:    "https://issuer.example.com",
		},
	}
	env := charm.RenderEnvironment(cfg, oauth, relation.AbsentS3)
	c.Check(env["OIDC_CLIENT_ID"], gc.Equals, "client-id")
	c.Check(env["OIDC_CLIENT_SECRET"], gc.Equals, "client-secret")
	c.Check(env["OIDC_ISSUER_URL"], gc.Equals, "https://issuer.example.com")
	c.Check(env["OIDC_REDIRECT_URI"], gc.Equals, "https://hub.example.com/_/#/auth/oidc")
}

func (*environmentSuite) TestOAuthNotCreated(c *gc.C) {
	cfg := mustConfig(c, map[string]interface{}{"external-hostname": "hub.example.com"})
	oauth := relation.StaticOAuth{
		Created: false,
		Info: &relation.OAuthProviderInfo{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
		},
	}
	env := charm.RenderEnvironment(cfg, oauth, relation.AbsentS3)
	for key := range env {
		c.Check(set.NewStrings("PORT", "LOG_LEVEL").Contains(key), jc.IsTrue,
			gc.Commentf("unexpected key %q", key))
	}
}

func (*environmentSuite) TestOAuthEmptyCredentials(c *gc.C) {
	cfg := mustConfig(c, map[string]interface{}{"external-hostname": "hub.example.com"})
	oauth := relation.StaticOAuth{
		Created: true,
		Info:    &relation.OAuthProviderInfo{ClientID: "", ClientSecret: ""},
	}
	env := charm.RenderEnvironment(cfg, oauth, relation.AbsentS3)
	_, ok := env["OIDC_CLIENT_ID"]
	c.Check(ok, jc.IsFalse)
}

func (*environmentSuite) TestOAuthEmptyHostnameRedirect(c *gc.C) {
	// The redirect URI is knowingly built even with no external hostname.
	cfg := mustConfig(c, nil)
	oauth := relation.StaticOAuth{
		Created: true,
		Info: &relation.OAuthProviderInfo{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
		},
	}
	env := charm.RenderEnvironment(cfg, oauth, relation.AbsentS3)
	c.Check(env["OIDC_REDIRECT_URI"], gc.Equals, "https:///_/#/auth/oidc")
}

func (*environmentSuite) TestS3DisabledSuppressed(c *gc.C) {
	cfg := mustConfig(c, nil)
	s3 := relation.StaticS3{Info: &relation.S3ConnectionInfo{
		Endpoint: "https://s3.example.com", Bucket: "b", AccessKey: "ak", SecretKey: "sk",
	}}
	env := charm.RenderEnvironment(cfg, relation.AbsentOAuth, s3)
	_, ok := env["S3_BACKUP_ENABLED"]
	c.Check(ok, jc.IsFalse)
}

func (*environmentSuite) TestS3EnabledRelationAbsent(c *gc.C) {
	cfg := mustConfig(c, map[string]interface{}{"s3-backup-enabled": true})
	env := charm.RenderEnvironment(cfg, relation.AbsentOAuth, relation.AbsentS3)
	for key := range env {
		c.Check(set.NewStrings("PORT", "LOG_LEVEL").Contains(key), jc.IsTrue,
			gc.Commentf("unexpected key %q", key))
	}
}

func (*environmentSuite) TestS3RelationValuesWin(c *gc.C) {
	cfg := mustConfig(c, map[string]interface{}{"s3-backup-enabled": true})
	s3 := relation.StaticS3{Info: &relation.S3ConnectionInfo{
		Endpoint:  "https://s3.example.com",
		Bucket:    "relation-bucket",
		Region:    "eu-central-1",
		AccessKey: "ak",
		SecretKey: "sk",
	}}
	env := charm.RenderEnvironment(cfg, relation.AbsentOAuth, s3)
	c.Check(env["S3_BACKUP_ENABLED"], gc.Equals, "true")
	c.Check(env["S3_ENDPOINT"], gc.Equals, "https://s3.example.com")
	c.Check(env["S3_BUCKET"], gc.Equals, "relation-bucket")
	c.Check(env["S3_REGION"], gc.Equals, "eu-central-1")
	c.Check(env["S3_ACCESS_KEY_ID"], gc.Equals, "ak")
	c.Check(env["S3_SECRET_ACCESS_KEY"], gc.Equals, "sk")
}

func (*environmentSuite) TestS3ConfigFallbacks(c *gc.C) {
	cfg := mustConfig(c, map[string]interface{}{
		"s3-backup-enabled": true,
		"s3-endpoint":       "https://config.example.com",
		"s3-bucket":         "config-bucket",
	})
	s3 := relation.StaticS3{Info: &relation.S3ConnectionInfo{
		AccessKey: "ak",
		SecretKey: "sk",
	}}
	env := charm.RenderEnvironment(cfg, relation.AbsentOAuth, s3)
	c.Check(env["S3_ENDPOINT"], gc.Equals, "https://config.example.com")
	c.Check(env["S3_BUCKET"], gc.Equals, "config-bucket")
	c.Check(env["S3_REGION"], gc.Equals, "us-east-1")
	// Access keys have no config fallback.
	c.Check(env["S3_ACCESS_KEY_ID"], gc.Equals, "ak")
}

func (*environmentSuite) TestS3RelationMissingKeys(c *gc.C) {
	cfg := mustConfig(c, map[string]interface{}{"s3-backup-enabled": true})
	s3 := relation.StaticS3{Info: &relation.S3ConnectionInfo{Bucket: "b"}}
	env := charm.RenderEnvironment(cfg, relation.AbsentOAuth, s3)
	c.Check(env["S3_ACCESS_KEY_ID"], gc.Equals, "")
	c.Check(env["S3_SECRET_ACCESS_KEY"], gc.Equals, "")
}
