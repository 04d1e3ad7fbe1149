package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/FuturFusion/compute-manager/internal/compute"
	"github.com/FuturFusion/compute-manager/internal/compute/repo/sqlite"
	"github.com/FuturFusion/compute-manager/internal/db"
	"github.com/FuturFusion/compute-manager/internal/hypervisor"
	"github.com/FuturFusion/compute-manager/internal/server/auth"
	"github.com/FuturFusion/compute-manager/internal/testcert"
	"github.com/FuturFusion/compute-manager/internal/transaction"
	"github.com/FuturFusion/compute-manager/shared/api"
)

var seedServerUUID = uuid.MustParse("26fa4eb7-8d4f-4bf8-9a6a-dd95d166dfad")

func TestServersGet(t *testing.T) {
	tests := []struct {
		name string

		query string

		wantHTTPStatus  int
		wantServerCount int64
	}{
		{
			name: "success",

			wantHTTPStatus:  http.StatusOK,
			wantServerCount: 1,
		},
		{
			name: "success - recursion",

			query: "?recursion=1",

			wantHTTPStatus:  http.StatusOK,
			wantServerCount: 1,
		},
		{
			name: "success - filter without match",

			query: `?filter=Name%20==%20%22nope%22`,

			wantHTTPStatus:  http.StatusOK,
			wantServerCount: 0,
		},
		{
			name: "error - invalid filter",

			query: `?filter=Name%20==`,

			wantHTTPStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Setup
			daemon, client, srvURL := daemonSetup(t, []APIEndpoint{serversCmd}, false)
			seedDBWithSingleServer(t, daemon)

			// Execute test
			statusCode, body := probeAPI(t, client, http.MethodGet, srvURL+"/1.0/servers"+tc.query, http.NoBody, nil)

			// Assert results
			require.Equal(t, tc.wantHTTPStatus, statusCode)
			if statusCode == http.StatusOK {
				require.Equal(t, tc.wantServerCount, gjson.Get(body, "metadata.#").Int())
			}
		})
	}
}

func TestServersPost(t *testing.T) {
	tests := []struct {
		name string

		serverJSON string

		wantHTTPStatus int
	}{
		{
			name: "success",

			serverJSON: `{"name": "new", "flavor_id": "m1.small", "image_id": "ubuntu-24.04", "security_groups": ["default"]}`,

			wantHTTPStatus: http.StatusCreated,
		},
		{
			name: "error - name already exists",

			serverJSON: `{"name": "web01", "flavor_id": "m1.small", "image_id": "ubuntu-24.04"}`,

			wantHTTPStatus: http.StatusBadRequest,
		},
		{
			name: "error - flavor missing",

			serverJSON: `{"name": "new", "image_id": "ubuntu-24.04"}`,

			wantHTTPStatus: http.StatusBadRequest,
		},
		{
			name: "error - invalid JSON",

			serverJSON: `{`,

			wantHTTPStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Setup
			daemon, client, srvURL := daemonSetup(t, []APIEndpoint{serversCmd}, false)
			seedDBWithSingleServer(t, daemon)

			// Execute test
			statusCode, _ := probeAPI(t, client, http.MethodPost, srvURL+"/1.0/servers", bytes.NewBufferString(tc.serverJSON), nil)

			// Assert results
			require.Equal(t, tc.wantHTTPStatus, statusCode)
		})
	}
}

func TestServerGet(t *testing.T) {
	tests := []struct {
		name string

		serverUUID string

		wantHTTPStatus int
		wantName       string
	}{
		{
			name: "success",

			serverUUID: seedServerUUID.String(),

			wantHTTPStatus: http.StatusOK,
			wantName:       "web01",
		},
		{
			name: "error - not found",

			serverUUID: "2b8839e3-6e07-4da4-8422-1b9c23bc425c",

			wantHTTPStatus: http.StatusNotFound,
		},
		{
			name: "error - invalid UUID",

			serverUUID: "not-a-uuid",

			wantHTTPStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Setup
			daemon, client, srvURL := daemonSetup(t, []APIEndpoint{serverCmd}, false)
			seedDBWithSingleServer(t, daemon)

			// Execute test
			statusCode, body := probeAPI(t, client, http.MethodGet, srvURL+"/1.0/servers/"+tc.serverUUID, http.NoBody, nil)

			// Assert results
			require.Equal(t, tc.wantHTTPStatus, statusCode)
			if statusCode == http.StatusOK {
				require.Equal(t, tc.wantName, gjson.Get(body, "metadata.name").String())
			}
		})
	}
}

func TestServerPut(t *testing.T) {
	tests := []struct {
		name string

		serverUUID string
		serverJSON string

		wantHTTPStatus int
	}{
		{
			name: "success - rename",

			serverUUID: seedServerUUID.String(),
			serverJSON: `{"name": "web02"}`,

			wantHTTPStatus: http.StatusOK,
		},
		{
			name: "success - replace security groups",

			serverUUID: seedServerUUID.String(),
			serverJSON: `{"security_groups": ["web"]}`,

			wantHTTPStatus: http.StatusOK,
		},
		{
			name: "error - not found",

			serverUUID: "2b8839e3-6e07-4da4-8422-1b9c23bc425c",
			serverJSON: `{"name": "web02"}`,

			wantHTTPStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Setup
			daemon, client, srvURL := daemonSetup(t, []APIEndpoint{serverCmd}, false)
			seedDBWithSingleServer(t, daemon)

			// Execute test
			statusCode, _ := probeAPI(t, client, http.MethodPut, srvURL+"/1.0/servers/"+tc.serverUUID, bytes.NewBufferString(tc.serverJSON), nil)

			// Assert results
			require.Equal(t, tc.wantHTTPStatus, statusCode)
		})
	}
}

func TestServerDelete(t *testing.T) {
	tests := []struct {
		name string

		serverUUID string
		busy       bool

		wantHTTPStatus int
	}{
		{
			name: "success",

			serverUUID: seedServerUUID.String(),

			wantHTTPStatus: http.StatusOK,
		},
		{
			name: "error - busy",

			serverUUID: seedServerUUID.String(),
			busy:       true,

			wantHTTPStatus: http.StatusConflict,
		},
		{
			name: "error - not found",

			serverUUID: "2b8839e3-6e07-4da4-8422-1b9c23bc425c",

			wantHTTPStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Setup
			daemon, client, srvURL := daemonSetup(t, []APIEndpoint{serverCmd}, false)
			seedDBWithSingleServer(t, daemon)

			if tc.busy {
				markSeedServerBusy(t, daemon)
			}

			// Execute test
			statusCode, _ := probeAPI(t, client, http.MethodDelete, srvURL+"/1.0/servers/"+tc.serverUUID, http.NoBody, nil)

			// Assert results
			require.Equal(t, tc.wantHTTPStatus, statusCode)
		})
	}
}

func probeAPI(t *testing.T, client *http.Client, method string, url string, requestBody io.Reader, headers map[string]string) (statusCode int, responseBody string) {
	t.Helper()

	req, err := http.NewRequest(method, url, requestBody)
	require.NoError(t, err)

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

// daemonSetup wires a daemon against a throwaway database and returns a TLS
// test server with a client certificate that is either trusted or admin.
func daemonSetup(t *testing.T, endpoints []APIEndpoint, admin bool) (*Daemon, *http.Client, string) {
	t.Helper()

	var err error

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tmpDir := t.TempDir()

	daemon := NewDaemon()
	if admin {
		daemon.config.Security.AdminTLSClientCertFingerprints = []string{testcert.LocalhostCertFingerprint}
	} else {
		daemon.config.Security.TrustedTLSClientCertFingerprints = []string{testcert.LocalhostCertFingerprint}
	}

	daemon.db, err = db.OpenDatabase(tmpDir)
	require.NoError(t, err)

	dbWithTransaction := transaction.Enable(daemon.db.DB)
	daemon.servers = compute.NewServerService(sqlite.NewServer(dbWithTransaction))
	daemon.migrations = compute.NewMigrationService(sqlite.NewMigration(dbWithTransaction))
	daemon.backend = hypervisor.NewNullBackend(daemon.ShutdownCtx, daemon.reports)
	daemon.dispatcher = compute.NewDispatcher(daemon.servers, daemon.migrations, daemon.backend, compute.DefaultCatalog())

	daemon.authorizer, err = auth.LoadAuthorizer(context.TODO(), auth.DriverTLS, logger,
		daemon.config.Security.TrustedTLSClientCertFingerprints,
		daemon.config.Security.AdminTLSClientCertFingerprints)
	require.NoError(t, err)

	router := http.NewServeMux()
	for _, cmd := range endpoints {
		daemon.createCmd(router, "1.0", cmd)
	}

	// Setup a HTTPS server and configure it to request client TLS certificates.
	srv := httptest.NewTLSServer(router)
	srv.TLS.ClientAuth = tls.RequestClientCert

	// Get a HTTPS client for the test server and configure to use a test client certificate.
	cert, err := tls.X509KeyPair(testcert.LocalhostCert, testcert.LocalhostKey)
	require.NoError(t, err)
	client := srv.Client()
	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	transport.TLSClientConfig.Certificates = []tls.Certificate{cert}

	t.Cleanup(srv.Close)

	return daemon, client, srv.URL
}

func seedDBWithSingleServer(t *testing.T, daemon *Daemon) {
	t.Helper()
	ctx := context.TODO()

	_, err := daemon.servers.Create(ctx, compute.Server{
		UUID:           seedServerUUID,
		Name:           "web01",
		FlavorID:       "m1.small",
		ImageID:        "ubuntu-24.04",
		SecurityGroups: []string{"default"},
	})
	require.NoError(t, err)
}

func markSeedServerBusy(t *testing.T, daemon *Daemon) {
	t.Helper()
	ctx := context.TODO()

	srv, err := daemon.servers.GetByUUID(ctx, seedServerUUID)
	require.NoError(t, err)

	srv.Status = api.SERVERSTATUS_REBOOT
	srv.TaskState = api.TASKSTATE_REBOOTING
	srv.TaskToken = uuid.New()

	_, err = daemon.servers.UpdateByUUID(ctx, srv)
	require.NoError(t, err)
}

func lockSeedServer(t *testing.T, daemon *Daemon) {
	t.Helper()
	ctx := context.TODO()

	srv, err := daemon.servers.GetByUUID(ctx, seedServerUUID)
	require.NoError(t, err)

	srv.Locked = true
	srv.LockedReason = "audit"

	_, err = daemon.servers.UpdateByUUID(ctx, srv)
	require.NoError(t, err)
}
