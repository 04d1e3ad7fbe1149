package hypervisor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Rican7/retry"
	"github.com/Rican7/retry/backoff"
	"github.com/Rican7/retry/strategy"
	incus "github.com/lxc/incus/v6/client"
	incusAPI "github.com/lxc/incus/v6/shared/api"

	"github.com/FuturFusion/compute-manager/internal/compute"
	"github.com/FuturFusion/compute-manager/internal/logger"
	"github.com/FuturFusion/compute-manager/shared/api"
)

// IncusConfig holds the connection details for the Incus backend.
type IncusConfig struct {
	Endpoint      string `yaml:"endpoint"`
	TLSClientCert string `yaml:"tls_client_cert"`
	TLSClientKey  string `yaml:"tls_client_key"`
	TLSServerCert string `yaml:"tls_server_cert"`
}

// IncusBackend executes work orders against an Incus server.
type IncusBackend struct {
	config      IncusConfig
	shutdownCtx context.Context
	reports     chan<- compute.Report

	clientLock sync.Mutex
	client     incus.InstanceServer
}

var _ compute.Backend = &IncusBackend{}

// NewIncusBackend creates a backend delivering its reports on the given
// channel. The shutdown context releases pending deliveries once the report
// consumer is gone.
func NewIncusBackend(shutdownCtx context.Context, config IncusConfig, reports chan<- compute.Report) *IncusBackend {
	return &IncusBackend{
		config:      config,
		shutdownCtx: shutdownCtx,
		reports:     reports,
	}
}

// Connect establishes the client connection, retrying with backoff since the
// Incus server may still be starting up.
func (b *IncusBackend) Connect(ctx context.Context) error {
	b.clientLock.Lock()
	defer b.clientLock.Unlock()

	if b.client != nil {
		return fmt.Errorf("Already connected to endpoint %q", b.config.Endpoint)
	}

	args := &incus.ConnectionArgs{
		AuthType:      incusAPI.AuthenticationMethodTLS,
		TLSClientCert: b.config.TLSClientCert,
		TLSClientKey:  b.config.TLSClientKey,
		TLSServerCert: b.config.TLSServerCert,
	}

	var client incus.InstanceServer

	err := retry.Retry(func(attempt uint) error {
		var err error
		client, err = incus.ConnectIncusWithContext(ctx, b.config.Endpoint, args)
		if err != nil {
			slog.Warn("Failed to connect to Incus", slog.String("endpoint", b.config.Endpoint), slog.Uint64("attempt", uint64(attempt)), logger.Err(err))
		}

		return err
	}, strategy.Limit(5), strategy.Backoff(backoff.Linear(500*time.Millisecond)))
	if err != nil {
		return err
	}

	// Do a quick check to see if our authentication was accepted by the server.
	srv, _, err := client.GetServer()
	if err != nil {
		return err
	}

	if srv.Auth != "trusted" {
		return fmt.Errorf("Failed to connect to endpoint %q: not authorized", b.config.Endpoint)
	}

	b.client = client

	return nil
}

// Disconnect drops the client connection.
func (b *IncusBackend) Disconnect() {
	b.clientLock.Lock()
	defer b.clientLock.Unlock()

	if b.client != nil {
		b.client.Disconnect()
		b.client = nil
	}
}

func (b *IncusBackend) instanceServer() (incus.InstanceServer, error) {
	b.clientLock.Lock()
	defer b.clientLock.Unlock()

	if b.client == nil {
		return nil, fmt.Errorf("Not connected to endpoint %q", b.config.Endpoint)
	}

	return b.client, nil
}

// SubmitWorkOrder runs the work order in the background and delivers the
// completion report once it finishes.
func (b *IncusBackend) SubmitWorkOrder(ctx context.Context, order compute.WorkOrder) error {
	client, err := b.instanceServer()
	if err != nil {
		return err
	}

	go func() {
		err := b.execute(client, order)

		report := compute.Report{
			ServerUUID: order.Server.UUID,
			Token:      order.Token,
			Action:     order.Action,
			Params:     order.Params,
			Success:    err == nil,
		}

		if err != nil {
			report.Message = err.Error()
		}

		select {
		case b.reports <- report:
		case <-b.shutdownCtx.Done():
		}
	}()

	return nil
}

func (b *IncusBackend) execute(client incus.InstanceServer, order compute.WorkOrder) error {
	name := order.Server.Name

	switch order.Action {
	case api.ACTION_START:
		return b.updateInstanceState(client, name, "start", false)

	case api.ACTION_STOP:
		return b.updateInstanceState(client, name, "stop", false)

	case api.ACTION_REBOOT:
		rebootParams, _ := order.Params.(api.ServerActionReboot)
		return b.updateInstanceState(client, name, "restart", rebootParams.Type == api.REBOOTTYPE_HARD)

	case api.ACTION_PAUSE:
		return b.updateInstanceState(client, name, "freeze", false)

	case api.ACTION_UNPAUSE:
		return b.updateInstanceState(client, name, "unfreeze", false)

	case api.ACTION_SUSPEND:
		return b.updateInstanceStateful(client, name, "stop")

	case api.ACTION_RESUME:
		return b.updateInstanceStateful(client, name, "start")

	case api.ACTION_RESCUE:
		rescueParams, _ := order.Params.(api.ServerActionRescue)
		config := map[string]string{"user.rescue": "true", "user.rescue_password": order.AdminPass}
		if rescueParams.RescueImageRef != "" {
			config["user.rescue_image"] = rescueParams.RescueImageRef
		}

		err := b.updateInstanceConfig(client, name, config)
		if err != nil {
			return err
		}

		return b.updateInstanceState(client, name, "restart", true)

	case api.ACTION_UNRESCUE:
		err := b.updateInstanceConfig(client, name, map[string]string{"user.rescue": "", "user.rescue_password": "", "user.rescue_image": ""})
		if err != nil {
			return err
		}

		return b.updateInstanceState(client, name, "restart", true)

	case api.ACTION_REBUILD:
		rebuildParams, _ := order.Params.(api.ServerActionRebuild)
		op, err := client.RebuildInstance(name, incusAPI.InstanceRebuildPost{
			Source: incusAPI.InstanceSource{
				Type:  "image",
				Alias: rebuildParams.ImageRef,
			},
		})
		if err != nil {
			return err
		}

		return op.Wait()

	case api.ACTION_RESIZE:
		resizeParams, _ := order.Params.(api.ServerActionResize)
		return b.updateInstanceConfig(client, name, map[string]string{"user.flavor": resizeParams.FlavorRef})

	case api.ACTION_CONFIRM_RESIZE:
		return b.updateInstanceConfig(client, name, map[string]string{"user.flavor_previous": ""})

	case api.ACTION_REVERT_RESIZE:
		previous := order.Server.FlavorID
		return b.updateInstanceConfig(client, name, map[string]string{"user.flavor": previous, "user.flavor_previous": ""})

	case api.ACTION_CREATE_IMAGE:
		imageParams, _ := order.Params.(api.ServerActionCreateImage)
		op, err := client.CreateInstanceSnapshot(name, incusAPI.InstanceSnapshotsPost{Name: imageParams.Name})
		if err != nil {
			return err
		}

		return op.Wait()

	case api.ACTION_CREATE_BACKUP:
		backupParams, _ := order.Params.(api.ServerActionCreateBackup)
		op, err := client.CreateInstanceBackup(name, incusAPI.InstanceBackupsPost{Name: backupParams.Name})
		if err != nil {
			return err
		}

		return op.Wait()
	}

	return fmt.Errorf("No backend handler for action %q", order.Action)
}

func (b *IncusBackend) updateInstanceState(client incus.InstanceServer, name string, action string, force bool) error {
	req := incusAPI.InstanceStatePut{
		Action:   action,
		Timeout:  -1,
		Force:    force,
		Stateful: false,
	}

	op, err := client.UpdateInstanceState(name, req, "")
	if err != nil {
		return err
	}

	return op.Wait()
}

func (b *IncusBackend) updateInstanceStateful(client incus.InstanceServer, name string, action string) error {
	req := incusAPI.InstanceStatePut{
		Action:   action,
		Timeout:  -1,
		Stateful: true,
	}

	op, err := client.UpdateInstanceState(name, req, "")
	if err != nil {
		return err
	}

	return op.Wait()
}

func (b *IncusBackend) updateInstanceConfig(client incus.InstanceServer, name string, config map[string]string) error {
	instance, etag, err := client.GetInstance(name)
	if err != nil {
		return err
	}

	for key, value := range config {
		if value == "" {
			delete(instance.Config, key)
			continue
		}

		instance.Config[key] = value
	}

	op, err := client.UpdateInstance(name, instance.InstancePut, etag)
	if err != nil {
		return err
	}

	return op.Wait()
}
