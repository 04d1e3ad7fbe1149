package api

import (
	"fmt"
	"net/http"

	incusAPI "github.com/lxc/incus/v6/shared/api"

	tlsutil "github.com/FuturFusion/compute-manager/internal/server/util"
)

type authenticatorResponse struct {
	trusted  bool
	username string
	protocol string
}

type Authenticator func(d *Daemon, w http.ResponseWriter, r *http.Request) (authenticatorResponse, error)

func unixAuthResponse() authenticatorResponse {
	return authenticatorResponse{trusted: true, protocol: "unix"}
}

func tlsAuthResponse(trusted bool, username string) authenticatorResponse {
	return authenticatorResponse{trusted: trusted, username: username, protocol: incusAPI.AuthenticationMethodTLS}
}

// DefaultAuthenticate validates an incoming http Request
// It will check over what protocol it came, what type of request it is and
// will validate the TLS certificate.
//
// This does not perform authorization, only validates authentication.
// Returns whether trusted or not, the username (or certificate fingerprint) of the trusted client, and the type of
// client that has been authenticated (unix or tls).
func DefaultAuthenticate(d *Daemon, w http.ResponseWriter, r *http.Request) (authenticatorResponse, error) {
	resp, err := UnixAuthenticate(d, w, r)
	if err != nil {
		return resp, err
	}

	if resp.trusted {
		return resp, nil
	}

	trustedFingerprints := d.TrustedFingerprints()
	for _, cert := range r.TLS.PeerCertificates {
		trusted, username := tlsutil.CheckTrustState(*cert, trustedFingerprints)
		if trusted {
			return tlsAuthResponse(trusted, username), nil
		}
	}

	// Reject unauthorized.
	return authenticatorResponse{}, nil
}

// UnixAuthenticate only trusts unix connections, and errors if it receives a non TLS network connection.
func UnixAuthenticate(d *Daemon, w http.ResponseWriter, r *http.Request) (authenticatorResponse, error) {
	// Local unix socket queries.
	if r.RemoteAddr == "@" && r.TLS == nil {
		return unixAuthResponse(), nil
	}

	// Bad query, no TLS found.
	if r.TLS == nil {
		return authenticatorResponse{}, fmt.Errorf("Bad/missing TLS on network query")
	}

	return authenticatorResponse{}, nil
}
