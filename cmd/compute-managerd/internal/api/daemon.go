package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"slices"
	"sync"
	"time"

	incusTLS "github.com/lxc/incus/v6/shared/tls"
	incusUtil "github.com/lxc/incus/v6/shared/util"
	"golang.org/x/sync/errgroup"

	"github.com/FuturFusion/compute-manager/cmd/compute-managerd/internal/config"
	"github.com/FuturFusion/compute-manager/cmd/compute-managerd/internal/listener"
	"github.com/FuturFusion/compute-manager/internal/compute"
	"github.com/FuturFusion/compute-manager/internal/compute/repo/sqlite"
	"github.com/FuturFusion/compute-manager/internal/db"
	"github.com/FuturFusion/compute-manager/internal/hypervisor"
	"github.com/FuturFusion/compute-manager/internal/logger"
	"github.com/FuturFusion/compute-manager/internal/server/auth"
	"github.com/FuturFusion/compute-manager/internal/server/request"
	"github.com/FuturFusion/compute-manager/internal/server/response"
	"github.com/FuturFusion/compute-manager/internal/server/sys"
	"github.com/FuturFusion/compute-manager/internal/transaction"
	"github.com/FuturFusion/compute-manager/internal/version"
	"github.com/FuturFusion/compute-manager/shared/api"
)

// APIEndpoint represents a URL in our API.
type APIEndpoint struct {
	Path   string // Path pattern for this endpoint.
	Get    APIEndpointAction
	Head   APIEndpointAction
	Put    APIEndpointAction
	Post   APIEndpointAction
	Delete APIEndpointAction
	Patch  APIEndpointAction
}

// APIEndpointAction represents an action on an API endpoint.
type APIEndpointAction struct {
	Handler        func(d *Daemon, r *http.Request) response.Response
	AccessHandler  func(d *Daemon, r *http.Request) response.Response
	Authenticator  Authenticator
	AllowUntrusted bool
}

type Daemon struct {
	db *db.Node
	os *sys.OS

	servers    compute.ServerService
	migrations compute.MigrationService
	dispatcher *compute.Dispatcher

	backend compute.Backend
	reports chan compute.Report

	errgroup *errgroup.Group

	configLock sync.Mutex
	config     api.SystemConfig
	authorizer auth.Authorizer
	serverCert *incusTLS.CertInfo
	listener   net.Listener
	server     *http.Server

	ShutdownCtx    context.Context    // Canceled when shutdown starts.
	ShutdownCancel context.CancelFunc // Cancels the shutdownCtx to indicate shutdown starting.
	ShutdownDoneCh chan error         // Receives the result of the d.Stop() function and tells the daemon to end.
}

func NewDaemon() *Daemon {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	d := &Daemon{
		db:             &db.Node{},
		os:             sys.DefaultOS(),
		reports:        make(chan compute.Report, 16),
		ShutdownCtx:    shutdownCtx,
		ShutdownCancel: shutdownCancel,
		ShutdownDoneCh: make(chan error),
	}

	return d
}

// allowPermission is a wrapper to check access against a given object. Currently server is the only supported object.
func allowPermission(objectType auth.ObjectType, entitlement auth.Entitlement) func(d *Daemon, r *http.Request) response.Response { // nolint:unparam
	return func(d *Daemon, r *http.Request) response.Response {
		if objectType != auth.ObjectTypeServer {
			return response.InternalError(fmt.Errorf("Unsupported object: %s", objectType))
		}

		// Validate whether the user has the needed permission
		authorizer := d.Authorizer()
		err := authorizer.CheckPermission(r.Context(), r, auth.ObjectServer(), entitlement)
		if err != nil {
			return response.SmartError(err)
		}

		return response.EmptySyncResponse
	}
}

// callerForRequest derives the action caller identity from the authenticated
// request.
func (d *Daemon) callerForRequest(r *http.Request) compute.Caller {
	caller := compute.Caller{
		Username: request.Username(r),
	}

	err := d.Authorizer().CheckPermission(r.Context(), r, auth.ObjectServer(), auth.EntitlementAdmin)
	if err == nil {
		caller.Admin = true
	}

	return caller
}

func (d *Daemon) Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	d.config = *cfg

	slog.Info("Starting up", slog.String("version", version.Version))

	// Open the local sqlite database.
	d.db, err = db.OpenDatabase(d.os.LocalDatabaseDir())
	if err != nil {
		slog.Error("Failed to open sqlite database", logger.Err(err))
		return err
	}

	dbWithTransaction := transaction.Enable(d.db.DB)

	d.servers = compute.NewServerService(sqlite.NewServer(dbWithTransaction))
	d.migrations = compute.NewMigrationService(sqlite.NewMigration(dbWithTransaction))

	if d.backend == nil {
		if d.config.Backend.Endpoint != "" {
			incusBackend := hypervisor.NewIncusBackend(d.ShutdownCtx, hypervisor.IncusConfig{
				Endpoint:      d.config.Backend.Endpoint,
				TLSClientCert: d.config.Backend.TLSClientCert,
				TLSClientKey:  d.config.Backend.TLSClientKey,
				TLSServerCert: d.config.Backend.TLSServerCert,
			}, d.reports)

			err = incusBackend.Connect(d.ShutdownCtx)
			if err != nil {
				return fmt.Errorf("Failed to connect to backend: %w", err)
			}

			d.backend = incusBackend
		} else {
			d.backend = hypervisor.NewNullBackend(d.ShutdownCtx, d.reports)
		}
	}

	d.dispatcher = compute.NewDispatcher(d.servers, d.migrations, d.backend, compute.DefaultCatalog())

	// Setup web server
	d.server = restServer(d)

	d.serverCert, err = incusTLS.KeyPairAndCA(d.os.VarDir, "server", incusTLS.CertServer, true)
	if err != nil {
		return err
	}

	group, errgroupCtx := errgroup.WithContext(context.Background())
	d.errgroup = group

	err = d.ReloadConfig(true, d.config)
	if err != nil {
		return err
	}

	group.Go(func() error {
		_, err := net.Dial("unix", d.os.GetUnixSocket())
		if err == nil {
			return fmt.Errorf("Active unix socket found at %q", d.os.GetUnixSocket())
		}

		if incusUtil.PathExists(d.os.GetUnixSocket()) {
			err := os.RemoveAll(d.os.GetUnixSocket())
			if err != nil {
				return fmt.Errorf("Failed to delete stale unix socket at %q: %w", d.os.GetUnixSocket(), err)
			}
		}

		unixListener, err := net.Listen("unix", d.os.GetUnixSocket())
		if err != nil {
			return err
		}

		slog.Info("Start unix socket listener", slog.Any("addr", unixListener.Addr()))

		err = d.server.Serve(unixListener)
		if errors.Is(err, http.ErrServerClosed) {
			// Ignore error from graceful shutdown.
			return nil
		}

		return err
	})

	// Start background workers
	group.Go(func() error {
		d.consumeReports(d.ShutdownCtx)
		return nil
	})

	d.runPeriodicTask(d.ShutdownCtx, "failStuckTasks", d.failStuckTasks, time.Minute)

	select {
	case <-errgroupCtx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer shutdownCancel()
		return d.Stop(shutdownCtx)
	case <-time.After(500 * time.Millisecond):
		// Grace period we wait for potential immediate errors from serving the http server.
	}

	slog.Info("Daemon started")

	return nil
}

func (d *Daemon) Authorizer() auth.Authorizer {
	d.configLock.Lock()
	defer d.configLock.Unlock()

	return d.authorizer
}

func (d *Daemon) ServerCert() *incusTLS.CertInfo {
	d.configLock.Lock()
	defer d.configLock.Unlock()

	cert := *d.serverCert
	return &cert
}

func (d *Daemon) TrustedFingerprints() []string {
	d.configLock.Lock()
	defer d.configLock.Unlock()

	trusted := d.config.Security.TrustedTLSClientCertFingerprints
	admin := d.config.Security.AdminTLSClientCertFingerprints

	fingerprints := make([]string, 0, len(trusted)+len(admin))
	fingerprints = append(fingerprints, trusted...)
	fingerprints = append(fingerprints, admin...)

	return fingerprints
}

func (d *Daemon) updateHTTPListener(address string, port int) <-chan error {
	ch := make(chan error, 1)
	if address == "" {
		var err error
		if d.listener != nil {
			slog.Info("Stopping existing https listener", slog.Any("addr", d.listener.Addr().String()))
			err = d.listener.Close()
			d.listener = nil
		}

		slog.Info("Exiting without listener")
		ch <- err
		return ch
	}

	d.errgroup.Go(func() error {
		if d.listener != nil {
			slog.Info("Stopping existing https listener", slog.Any("addr", d.listener.Addr().String()))
			err := d.listener.Close()
			if err != nil {
				ch <- err
				return err
			}
		}

		listenAddr := net.JoinHostPort(address, fmt.Sprintf("%d", port))
		slog.Info("Start https listener", slog.String("addr", listenAddr))
		tcpListener, err := net.Listen("tcp", listenAddr)
		if err != nil {
			ch <- err
			return err
		}

		d.listener = listener.NewFancyTLSListener(tcpListener, d.serverCert)

		// Unblock the channel here before we block for the server.
		ch <- nil

		if d.server != nil {
			err = d.server.Serve(d.listener)
			if errors.Is(err, http.ErrServerClosed) {
				slog.Info("Shutting down server", slog.String("addr", listenAddr))
				// Ignore error from graceful shutdown.
				return nil
			}

			return err
		}

		return nil
	})

	return ch
}

func (d *Daemon) Stop(ctx context.Context) error {
	d.ShutdownCancel()

	shutdownErr := d.server.Shutdown(ctx)

	errgroupWaitErr := d.errgroup.Wait()

	err := errors.Join(shutdownErr, errgroupWaitErr)

	slog.Info("Daemon stopped")

	return err
}

func (d *Daemon) ReloadConfig(init bool, newCfg api.SystemConfig) (_err error) {
	d.configLock.Lock()
	defer d.configLock.Unlock()

	fullCfg, err := config.SetDefaults(newCfg)
	if err != nil {
		return err
	}

	newCfg = *fullCfg
	oldCfg := d.config
	changedNetwork := init || newCfg.Network != oldCfg.Network
	changedSecurity := init ||
		!slices.Equal(newCfg.Security.TrustedTLSClientCertFingerprints, oldCfg.Security.TrustedTLSClientCertFingerprints) ||
		!slices.Equal(newCfg.Security.AdminTLSClientCertFingerprints, oldCfg.Security.AdminTLSClientCertFingerprints)

	updateHandlers := func(applyCfg api.SystemConfig) error {
		err := config.Validate(applyCfg)
		if err != nil {
			return err
		}

		if changedNetwork {
			errCh := d.updateHTTPListener(applyCfg.Network.Address, applyCfg.Network.Port)
			err := <-errCh
			if err != nil {
				return err
			}
		}

		if changedSecurity {
			d.authorizer, err = auth.LoadAuthorizer(d.ShutdownCtx, auth.DriverTLS, slog.Default(),
				applyCfg.Security.TrustedTLSClientCertFingerprints,
				applyCfg.Security.AdminTLSClientCertFingerprints)
			if err != nil {
				return err
			}
		}

		err = config.SaveConfig(applyCfg)
		if err != nil {
			return err
		}

		d.config = applyCfg

		return nil
	}

	err = updateHandlers(newCfg)
	if err != nil {
		if !init {
			slog.Error("Reverting daemon config change due to error", logger.Err(err))
			revertErr := updateHandlers(oldCfg)
			if revertErr != nil {
				slog.Error("Failed to revert daemon config changes", logger.Err(revertErr))
			}
		}

		return err
	}

	return nil
}

func (d *Daemon) createCmd(restAPI *http.ServeMux, apiVersion string, c APIEndpoint) {
	var uri string
	if c.Path == "" {
		uri = fmt.Sprintf("/%s", apiVersion)
	} else if apiVersion != "" {
		uri = fmt.Sprintf("/%s/%s", apiVersion, c.Path)
	} else {
		uri = fmt.Sprintf("/%s", c.Path)
	}

	restAPI.HandleFunc(uri, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var authenticator Authenticator
		switch r.Method {
		case "GET":
			authenticator = c.Get.Authenticator
		case "HEAD":
			authenticator = c.Head.Authenticator
		case "PUT":
			authenticator = c.Put.Authenticator
		case "POST":
			authenticator = c.Post.Authenticator
		case "DELETE":
			authenticator = c.Delete.Authenticator
		case "PATCH":
			authenticator = c.Patch.Authenticator
		}

		if authenticator == nil {
			authenticator = DefaultAuthenticate
		}

		// Authentication
		authResp, err := authenticator(d, w, r)
		if err != nil {
			_ = response.Unauthorized(err).Render(w)
			return
		}

		untrustedOk := (r.Method == "GET" && c.Get.AllowUntrusted) || (r.Method == "POST" && c.Post.AllowUntrusted)
		if authResp.trusted {
			slog.Debug("Handling API request", slog.String("method", r.Method), slog.String("url", r.URL.RequestURI()), slog.String("ip", r.RemoteAddr))

			// Add authentication/authorization context data.
			ctx := context.WithValue(r.Context(), request.CtxUsername, authResp.username)
			ctx = context.WithValue(ctx, request.CtxProtocol, authResp.protocol)

			r = r.WithContext(ctx)
		} else if untrustedOk && r.Header.Get("X-ComputeManager-authenticated") == "" {
			slog.Debug("Allowing untrusted", slog.String("method", r.Method), slog.Any("url", r.URL), slog.String("ip", r.RemoteAddr))
		} else {
			slog.Warn("Rejecting request from untrusted client", slog.String("ip", r.RemoteAddr), slog.String("path", r.RequestURI), slog.String("method", r.Method))
			_ = response.Forbidden(nil).Render(w)
			return
		}

		// Actually process the request
		var resp response.Response

		// Return Unavailable Error (503) if daemon is shutting down.
		// There are some exceptions:
		// - /1.0 endpoint
		// - GET queries
		allowedDuringShutdown := func() bool {
			if c.Path == "" {
				return true
			}

			if r.Method == "GET" {
				return true
			}

			return false
		}

		if d.ShutdownCtx.Err() == context.Canceled && !allowedDuringShutdown() {
			_ = response.Unavailable(fmt.Errorf("Shutting down")).Render(w)
			return
		}

		handleRequest := func(action APIEndpointAction) response.Response {
			if action.Handler == nil {
				return response.NotImplemented(nil)
			}

			// All APIEndpointActions should have an access handler or should allow untrusted requests.
			if action.AccessHandler == nil && !action.AllowUntrusted {
				return response.InternalError(fmt.Errorf("Access handler not defined for %s %s", r.Method, r.URL.RequestURI()))
			}

			// If the request is not trusted, only call the handler if the action allows it.
			if !authResp.trusted && !action.AllowUntrusted {
				return response.Forbidden(fmt.Errorf("You must be authenticated"))
			}

			// Call the access handler if there is one.
			if action.AccessHandler != nil {
				resp := action.AccessHandler(d, r)
				if resp != response.EmptySyncResponse {
					return resp
				}
			}

			return action.Handler(d, r)
		}

		switch r.Method {
		case "GET":
			resp = handleRequest(c.Get)
		case "HEAD":
			resp = handleRequest(c.Head)
		case "PUT":
			resp = handleRequest(c.Put)
		case "POST":
			resp = handleRequest(c.Post)
		case "DELETE":
			resp = handleRequest(c.Delete)
		case "PATCH":
			resp = handleRequest(c.Patch)
		default:
			resp = response.NotFound(fmt.Errorf("Method %q not found", r.Method))
		}

		// Handle errors
		err = resp.Render(w)
		if err != nil {
			writeErr := response.SmartError(err).Render(w)
			if writeErr != nil {
				slog.Error("Failed writing error for HTTP response", slog.String("url", uri), logger.Err(err), slog.Any("write_err", writeErr))
			}
		}
	})
}
