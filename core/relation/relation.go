// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package relation defines read-only projections of the data supplied by
// applications related to this operator. The platform-specific relation
// machinery sits behind these interfaces; the reconciler only ever sees a
// point-in-time snapshot.
package relation

// IngressView reports the externally reachable URL provided by an ingress
// relation, if any.
type IngressView interface {
	// URL returns the ingress URL, or the empty string if the relation is
	// absent or has not provided one yet.
	URL() string
}

// OAuthProviderInfo holds the client credentials and issuer published by an
// identity provider once it has created a client for this application.
type OAuthProviderInfo struct {
	ClientID     string
	ClientSecret string
	IssuerURL    string
}

// OAuthView reports the state of the OAuth relation.
type OAuthView interface {
	// IsClientCreated reports whether the provider has registered a client
	// for this application.
	IsClientCreated() bool

	// ProviderInfo returns the provider's client credentials, or nil if the
	// relation is absent or the client has not been created.
	ProviderInfo() *OAuthProviderInfo
}

// S3ConnectionInfo holds the object storage connection parameters published
// by an S3 integrator.
type S3ConnectionInfo struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// S3View reports the state of the S3 credentials relation.
type S3View interface {
	// ConnectionInfo returns the published connection parameters, or nil if
	// the relation is absent or has no data yet.
	ConnectionInfo() *S3ConnectionInfo
}

// StaticIngress is an IngressView backed by a fixed URL; useful as a relation
// snapshot and in tests.
type StaticIngress string

// URL implements IngressView.
func (s StaticIngress) URL() string {
	return string(s)
}

// StaticOAuth is an OAuthView backed by fixed values.
type StaticOAuth struct {
	Created bool
	Info    *OAuthProviderInfo
}

// IsClientCreated implements OAuthView.
func (s StaticOAuth) IsClientCreated() bool {
	return s.Created
}

// ProviderInfo implements OAuthView.
func (s StaticOAuth) ProviderInfo() *OAuthProviderInfo {
	return s.Info
}

// StaticS3 is an S3View backed by fixed values.
type StaticS3 struct {
	Info *S3ConnectionInfo
}

// ConnectionInfo implements S3View.
func (s StaticS3) ConnectionInfo() *S3ConnectionInfo {
	return s.Info
}

// AbsentIngress is an IngressView for an unestablished ingress relation.
var AbsentIngress IngressView = StaticIngress("")

// AbsentOAuth is an OAuthView for an unestablished OAuth relation.
var AbsentOAuth OAuthView = StaticOAuth{}

// AbsentS3 is an S3View for an unestablished S3 relation.
var AbsentS3 S3View = StaticS3{}
