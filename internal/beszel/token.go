// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package beszel

import (
	"encoding/base64"

	"github.com/juju/errors"
	"github.com/juju/utils/v4"

	"github.com/canonical/beszel-k8s-operator/internal/container"
)

// tokenEntropyBytes is the amount of randomness behind an agent token.
const tokenEntropyBytes = 32

// CreateAgentToken mints a universal agent authentication token. The token
// is a URL-safe random credential; it is not yet registered with beszel's
// own auth database, pending a real API integration on the workload side.
// It fails if the workload database does not exist yet.
func CreateAgentToken(ctr container.Container, description string) (string, error) {
	if !ctr.Exists(DatabasePath) {
		logger.Errorf("beszel database not found at %s", DatabasePath)
		return "", errors.NotFoundf("beszel database")
	}

	raw, err := utils.RandomBytes(tokenEntropyBytes)
	if err != nil {
		return "", errors.Annotate(err, "generating token")
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	logger.Infof("created agent token with description: %s", description)
	return token, nil
}
