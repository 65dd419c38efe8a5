// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	"github.com/juju/errors"
	"github.com/juju/schema"
	environschema "gopkg.in/juju/environschema.v1"
)

// Charm configuration option names.
const (
	ContainerImageKey   = "container-image"
	PortKey             = "port"
	ExternalHostnameKey = "external-hostname"
	S3BackupEnabledKey  = "s3-backup-enabled"
	S3EndpointKey       = "s3-endpoint"
	S3BucketKey         = "s3-bucket"
	S3RegionKey         = "s3-region"
	LogLevelKey         = "log-level"
)

var configFields = environschema.Fields{
	ContainerImageKey: {
		Description: "OCI image to use for Beszel Hub",
		Type:        environschema.Tstring,
		Group:       environschema.EnvironGroup,
	},
	PortKey: {
		Description: "Port on which Beszel Hub listens",
		Type:        environschema.Tint,
		Group:       environschema.EnvironGroup,
	},
	ExternalHostnameKey: {
		Description: "External hostname for OAuth callbacks",
		Type:        environschema.Tstring,
		Group:       environschema.EnvironGroup,
	},
	S3BackupEnabledKey: {
		Description: "Enable S3 backups",
		Type:        environschema.Tbool,
		Group:       environschema.EnvironGroup,
	},
	S3EndpointKey: {
		Description: "S3 endpoint URL",
		Type:        environschema.Tstring,
		Group:       environschema.EnvironGroup,
	},
	S3BucketKey: {
		Description: "S3 bucket name",
		Type:        environschema.Tstring,
		Group:       environschema.EnvironGroup,
	},
	S3RegionKey: {
		Description: "S3 region",
		Type:        environschema.Tstring,
		Group:       environschema.EnvironGroup,
	},
	LogLevelKey: {
		Description: "Log verbosity level",
		Type:        environschema.Tstring,
		Group:       environschema.EnvironGroup,
	},
}

var configDefaults = schema.Defaults{
	ContainerImageKey:   "henrygd/beszel:latest",
	PortKey:             8090,
	ExternalHostnameKey: "",
	S3BackupEnabledKey:  false,
	S3EndpointKey:       "",
	S3BucketKey:         "",
	S3RegionKey:         "us-east-1",
	LogLevelKey:         "info",
}

// Config is an immutable snapshot of the charm configuration, derived once
// per reconciliation pass and discarded afterwards. Every field is populated
// even from empty input.
type Config struct {
	ContainerImage   string
	Port             int
	ExternalHostname string
	S3BackupEnabled  bool
	S3Endpoint       string
	S3Bucket         string
	S3Region         string
	LogLevel         string
}

// NewConfig derives a Config from raw key/value configuration input.
// Unknown keys are ignored and absent keys take their defaults; a value that
// cannot be coerced to its declared type is a configuration error.
func NewConfig(raw map[string]interface{}) (Config, error) {
	fields, _, err := configFields.ValidationSchema()
	if err != nil {
		return Config{}, errors.Trace(err)
	}
	checker := schema.FieldMap(fields, configDefaults)

	known := make(map[string]interface{})
	for k, v := range raw {
		if _, ok := configFields[k]; ok {
			known[k] = v
		}
	}
	coerced, err := checker.Coerce(known, nil)
	if err != nil {
		return Config{}, errors.NewNotValid(err, "charm configuration")
	}
	attrs := coerced.(map[string]interface{})

	cfg := Config{
		ContainerImage:   attrs[ContainerImageKey].(string),
		Port:             coerceInt(attrs[PortKey]),
		ExternalHostname: attrs[ExternalHostnameKey].(string),
		S3BackupEnabled:  attrs[S3BackupEnabledKey].(bool),
		S3Endpoint:       attrs[S3EndpointKey].(string),
		S3Bucket:         attrs[S3BucketKey].(string),
		S3Region:         attrs[S3RegionKey].(string),
		LogLevel:         attrs[LogLevelKey].(string),
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, errors.NotValidf("port %d", cfg.Port)
	}
	return cfg, nil
}

// coerceInt handles the integer representations the schema coercion
// may produce depending on the input type.
func coerceInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
