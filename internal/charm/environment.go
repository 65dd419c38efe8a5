// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	"strconv"
	"strings"

	"github.com/canonical/beszel-k8s-operator/core/relation"
)

// RenderEnvironment maps a configuration snapshot plus relation data into
// the workload's process environment. Pure; no I/O.
func RenderEnvironment(cfg Config, oauth relation.OAuthView, s3 relation.S3View) map[string]string {
	env := map[string]string{
		"PORT":      strconv.Itoa(cfg.Port),
		"LOG_LEVEL": strings.ToUpper(cfg.LogLevel),
	}

	if oauth != nil && oauth.IsClientCreated() {
		info := oauth.ProviderInfo()
		if info != nil && info.ClientID != "" && info.ClientSecret != "" {
			env["OIDC_CLIENT_ID"] = info.ClientID
			env["OIDC_CLIENT_SECRET"] = info.ClientSecret
			env["OIDC_ISSUER_URL"] = info.IssuerURL
			// Built from external-hostname even when that is empty, which
			// yields https:///_/#/auth/oidc. Deliberately left unvalidated;
			// see the redirect URI note in DESIGN.md.
			env["OIDC_REDIRECT_URI"] = redirectURI(cfg.ExternalHostname)
		}
	}

	if cfg.S3BackupEnabled && s3 != nil {
		if info := s3.ConnectionInfo(); info != nil {
			env["S3_BACKUP_ENABLED"] = "true"
			env["S3_ENDPOINT"] = withDefault(info.Endpoint, cfg.S3Endpoint)
			env["S3_BUCKET"] = withDefault(info.Bucket, cfg.S3Bucket)
			env["S3_REGION"] = withDefault(info.Region, cfg.S3Region)
			env["S3_ACCESS_KEY_ID"] = info.AccessKey
			env["S3_SECRET_ACCESS_KEY"] = info.SecretKey
		}
	}

	return env
}

func redirectURI(hostname string) string {
	return "https://" + hostname + "/_/#/auth/oidc"
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
