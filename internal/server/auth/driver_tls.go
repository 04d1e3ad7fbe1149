package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/lxc/incus/v6/shared/api"
)

// TLS represents a TLS authorizer.
type TLS struct {
	commonAuthorizer

	trustedFingerprints []string
	adminFingerprints   []string
}

func (t *TLS) load(ctx context.Context, trustedFingerprints []string, adminFingerprints []string, opts Opts) error {
	t.trustedFingerprints = trustedFingerprints
	t.adminFingerprints = adminFingerprints
	return nil
}

// CheckPermission returns an error if the user does not have the given Entitlement on the given Object.
func (t *TLS) CheckPermission(ctx context.Context, r *http.Request, object Object, entitlement Entitlement) error {
	details, err := t.requestDetails(r)
	if err != nil {
		return api.StatusErrorf(http.StatusForbidden, "Failed to extract request details: %v", err)
	}

	// Always allow full access via local unix socket.
	if details.Protocol == "unix" {
		return nil
	}

	if details.Protocol != api.AuthenticationMethodTLS {
		t.logger.Warn("Authentication protocol is not compatible with authorization driver", "protocol", details.Protocol)
		// Return nil. If the server has been configured with an authentication method but no associated authorization driver,
		// the default is to give these authenticated users admin privileges.
		return nil
	}

	if matchFingerprint(t.adminFingerprints, details.Username) {
		// Admin certificates have full, unrestricted access.
		return nil
	}

	if entitlement == EntitlementAdmin {
		return api.StatusErrorf(http.StatusForbidden, "Administrative access required")
	}

	if matchFingerprint(t.trustedFingerprints, details.Username) {
		return nil
	}

	return api.StatusErrorf(http.StatusForbidden, "Client certificate not found")
}

func matchFingerprint(fingerprints []string, username string) bool {
	for _, fingerprint := range fingerprints {
		canonicalFingerprint := strings.ToLower(strings.ReplaceAll(fingerprint, ":", ""))
		if canonicalFingerprint == username {
			return true
		}
	}

	return false
}
