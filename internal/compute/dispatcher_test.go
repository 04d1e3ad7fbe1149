package compute_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/FuturFusion/compute-manager/internal/compute"
	"github.com/FuturFusion/compute-manager/internal/compute/repo/mock"
	hvMock "github.com/FuturFusion/compute-manager/internal/hypervisor/mock"
	"github.com/FuturFusion/compute-manager/shared/api"
)

// dispatcherFixture wires a dispatcher against stateful in-memory repos and a
// backend that records submitted work orders.
type dispatcherFixture struct {
	dispatcher *compute.Dispatcher
	backend    *hvMock.BackendMock

	mu         sync.Mutex
	servers    map[uuid.UUID]compute.Server
	migrations []compute.Migration
}

func newDispatcherFixture(t *testing.T, servers []compute.Server, opts ...compute.DispatcherOption) *dispatcherFixture {
	t.Helper()

	f := &dispatcherFixture{
		servers: map[uuid.UUID]compute.Server{},
	}

	for _, server := range servers {
		f.servers[server.UUID] = server
	}

	serverRepo := &mock.ServerRepoMock{
		GetByUUIDFunc: func(ctx context.Context, id uuid.UUID) (compute.Server, error) {
			f.mu.Lock()
			defer f.mu.Unlock()

			server, ok := f.servers[id]
			if !ok {
				return compute.Server{}, fmt.Errorf("Server %q: %w", id, compute.ErrNotFound)
			}

			return server, nil
		},
		GetAllFunc: func(ctx context.Context) (compute.Servers, error) {
			f.mu.Lock()
			defer f.mu.Unlock()

			all := make(compute.Servers, 0, len(f.servers))
			for _, server := range f.servers {
				all = append(all, server)
			}

			return all, nil
		},
		UpdateByUUIDFunc: func(ctx context.Context, server compute.Server) (compute.Server, error) {
			f.mu.Lock()
			defer f.mu.Unlock()

			_, ok := f.servers[server.UUID]
			if !ok {
				return compute.Server{}, fmt.Errorf("Server %q: %w", server.UUID, compute.ErrNotFound)
			}

			f.servers[server.UUID] = server

			return server, nil
		},
	}

	migrationRepo := &mock.MigrationRepoMock{
		CreateFunc: func(ctx context.Context, migration compute.Migration) (compute.Migration, error) {
			f.mu.Lock()
			defer f.mu.Unlock()

			migration.ID = int64(len(f.migrations) + 1)
			f.migrations = append(f.migrations, migration)

			return migration, nil
		},
		GetUnresolvedByServerUUIDFunc: func(ctx context.Context, serverUUID uuid.UUID) (compute.Migration, error) {
			f.mu.Lock()
			defer f.mu.Unlock()

			for i := len(f.migrations) - 1; i >= 0; i-- {
				migration := f.migrations[i]
				if migration.ServerUUID == serverUUID && !migration.IsResolved() {
					return migration, nil
				}
			}

			return compute.Migration{}, fmt.Errorf("No unresolved migration for server %q: %w", serverUUID, compute.ErrNotFound)
		},
		UpdateByUUIDFunc: func(ctx context.Context, migration compute.Migration) (compute.Migration, error) {
			f.mu.Lock()
			defer f.mu.Unlock()

			for i := range f.migrations {
				if f.migrations[i].UUID == migration.UUID {
					f.migrations[i] = migration
					return migration, nil
				}
			}

			return compute.Migration{}, fmt.Errorf("Migration %q: %w", migration.UUID, compute.ErrNotFound)
		},
	}

	f.backend = &hvMock.BackendMock{
		SubmitWorkOrderFunc: func(ctx context.Context, order compute.WorkOrder) error {
			return nil
		},
	}

	f.dispatcher = compute.NewDispatcher(
		compute.NewServerService(serverRepo),
		compute.NewMigrationService(migrationRepo),
		f.backend,
		compute.DefaultCatalog(),
		opts...,
	)

	return f
}

func (f *dispatcherFixture) server(t *testing.T, id uuid.UUID) compute.Server {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	server, ok := f.servers[id]
	require.True(t, ok)

	return server
}

func (f *dispatcherFixture) lastOrder(t *testing.T) compute.WorkOrder {
	t.Helper()

	calls := f.backend.SubmitWorkOrderCalls()
	require.NotEmpty(t, calls)

	return calls[len(calls)-1].Order
}

// report builds a successful completion report for the last submitted work
// order.
func (f *dispatcherFixture) report(t *testing.T) compute.Report {
	t.Helper()

	order := f.lastOrder(t)

	return compute.Report{
		ServerUUID: order.Server.UUID,
		Token:      order.Token,
		Action:     order.Action,
		Params:     order.Params,
		Success:    true,
	}
}

func activeServer() compute.Server {
	return compute.Server{
		ID:             1,
		UUID:           uuid.MustParse("26fa4eb7-8d4f-4bf8-9a6a-dd95d166dfad"),
		Name:           "web01",
		Status:         api.SERVERSTATUS_ACTIVE,
		VMState:        api.VMSTATE_ACTIVE,
		PowerState:     api.POWERSTATE_RUNNING,
		FlavorID:       "m1.small",
		ImageID:        "ubuntu-24.04",
		SecurityGroups: []string{"default"},
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
}

func TestDispatcherDispatch(t *testing.T) {
	serverUUID := activeServer().UUID
	admin := compute.Caller{Username: "admin", Admin: true}
	user := compute.Caller{Username: "user"}

	tests := []struct {
		name string

		server compute.Server
		action string
		params string
		caller compute.Caller

		wantKind      compute.ActionKind
		wantTaskState api.TaskStateType
		wantStatus    api.ServerStatusType
		assertErr     require.ErrorAssertionFunc
	}{
		{
			name: "unknown action",

			server: activeServer(),
			action: "defenestrate",
			caller: user,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				require.ErrorIs(tt, err, compute.ErrNotFound)
			},
		},
		{
			name: "deprecated action",

			server: activeServer(),
			action: api.ACTION_ADD_FLOATING_IP,
			caller: user,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				require.ErrorIs(tt, err, compute.ErrDeprecated)
			},
		},
		{
			name: "deprecated action for admin",

			server: activeServer(),
			action: api.ACTION_REMOVE_FLOATING_IP,
			caller: admin,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				require.ErrorIs(tt, err, compute.ErrDeprecated)
			},
		},
		{
			name: "locked server rejects deprecated action for non-admin",

			server: func() compute.Server {
				s := activeServer()
				s.Locked = true
				return s
			}(),
			action: api.ACTION_ADD_FLOATING_IP,
			caller: user,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				require.ErrorIs(tt, err, compute.ErrOperationNotPermitted)
			},
		},
		{
			name: "confirmResize requires the resized vm_state",

			server: func() compute.Server {
				s := activeServer()
				s.Status = api.SERVERSTATUS_VERIFY_RESIZE
				s.VMState = api.VMSTATE_ACTIVE
				return s
			}(),
			action: api.ACTION_CONFIRM_RESIZE,
			caller: user,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				require.ErrorIs(tt, err, compute.ErrStateConflict)
			},
		},
		{
			name: "confirmResize without a migration record",

			server: func() compute.Server {
				s := activeServer()
				s.Status = api.SERVERSTATUS_VERIFY_RESIZE
				s.VMState = api.VMSTATE_RESIZED
				return s
			}(),
			action: api.ACTION_CONFIRM_RESIZE,
			caller: user,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				require.ErrorIs(tt, err, compute.ErrStateConflict)
			},
		},
		{
			name: "revertResize without a migration record",

			server: func() compute.Server {
				s := activeServer()
				s.Status = api.SERVERSTATUS_VERIFY_RESIZE
				s.VMState = api.VMSTATE_RESIZED
				return s
			}(),
			action: api.ACTION_REVERT_RESIZE,
			caller: user,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				require.ErrorIs(tt, err, compute.ErrStateConflict)
			},
		},
		{
			name: "lock",

			server: activeServer(),
			action: api.ACTION_LOCK,
			params: `{"locked_reason": "billing dispute"}`,
			caller: user,

			wantKind:   compute.ActionSync,
			wantStatus: api.SERVERSTATUS_ACTIVE,
			assertErr:  require.NoError,
		},
		{
			name: "unlock on unlocked server is a no-op",

			server: activeServer(),
			action: api.ACTION_UNLOCK,
			caller: user,

			wantKind:   compute.ActionSync,
			wantStatus: api.SERVERSTATUS_ACTIVE,
			assertErr:  require.NoError,
		},
		{
			name: "locked server rejects non-admin action",

			server: func() compute.Server {
				s := activeServer()
				s.Locked = true
				return s
			}(),
			action: api.ACTION_REBOOT,
			params: `{"type": "HARD"}`,
			caller: user,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				require.ErrorIs(tt, err, compute.ErrOperationNotPermitted)
			},
		},
		{
			name: "locked server rejects non-admin unlock",

			server: func() compute.Server {
				s := activeServer()
				s.Locked = true
				return s
			}(),
			action: api.ACTION_UNLOCK,
			caller: user,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				require.ErrorIs(tt, err, compute.ErrOperationNotPermitted)
			},
		},
		{
			name: "locked server allows admin action",

			server: func() compute.Server {
				s := activeServer()
				s.Locked = true
				return s
			}(),
			action: api.ACTION_STOP,
			caller: admin,

			wantKind:      compute.ActionAsync,
			wantTaskState: api.TASKSTATE_POWERING_OFF,
			wantStatus:    api.SERVERSTATUS_ACTIVE,
			assertErr:     require.NoError,
		},
		{
			name: "createBackup requires admin",

			server: activeServer(),
			action: api.ACTION_CREATE_BACKUP,
			params: `{"name": "web01-weekly", "backup_type": "weekly", "rotation": 2}`,
			caller: user,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				require.ErrorIs(tt, err, compute.ErrOperationNotPermitted)
			},
		},
		{
			name: "createBackup as admin",

			server: activeServer(),
			action: api.ACTION_CREATE_BACKUP,
			params: `{"name": "web01-weekly", "backup_type": "weekly", "rotation": 2}`,
			caller: admin,

			wantKind:      compute.ActionAsync,
			wantTaskState: api.TASKSTATE_IMAGE_BACKUP,
			wantStatus:    api.SERVERSTATUS_ACTIVE,
			assertErr:     require.NoError,
		},
		{
			name: "createBackup with invalid rotation",

			server: activeServer(),
			action: api.ACTION_CREATE_BACKUP,
			params: `{"name": "web01-weekly", "backup_type": "weekly", "rotation": -1}`,
			caller: admin,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				var validationErr compute.ErrValidation
				require.ErrorAs(tt, err, &validationErr)
			},
		},
		{
			name: "busy server rejects async action",

			server: func() compute.Server {
				s := activeServer()
				s.TaskState = api.TASKSTATE_REBOOTING
				return s
			}(),
			action: api.ACTION_STOP,
			caller: user,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				require.ErrorIs(tt, err, compute.ErrStateConflict)
			},
		},
		{
			name: "busy server still accepts sync action",

			server: func() compute.Server {
				s := activeServer()
				s.TaskState = api.TASKSTATE_REBOOTING
				return s
			}(),
			action: api.ACTION_LOCK,
			caller: user,

			wantKind:      compute.ActionSync,
			wantTaskState: api.TASKSTATE_REBOOTING,
			wantStatus:    api.SERVERSTATUS_ACTIVE,
			assertErr:     require.NoError,
		},
		{
			name: "start from SHUTOFF",

			server: func() compute.Server {
				s := activeServer()
				s.Status = api.SERVERSTATUS_SHUTOFF
				s.VMState = api.VMSTATE_STOPPED
				s.PowerState = api.POWERSTATE_SHUTDOWN
				return s
			}(),
			action: api.ACTION_START,
			caller: user,

			wantKind:      compute.ActionAsync,
			wantTaskState: api.TASKSTATE_POWERING_ON,
			wantStatus:    api.SERVERSTATUS_SHUTOFF,
			assertErr:     require.NoError,
		},
		{
			name: "start from ACTIVE is a conflict",

			server: activeServer(),
			action: api.ACTION_START,
			caller: user,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				require.ErrorIs(tt, err, compute.ErrStateConflict)
			},
		},
		{
			name: "soft reboot from SHUTOFF is a conflict",

			server: func() compute.Server {
				s := activeServer()
				s.Status = api.SERVERSTATUS_SHUTOFF
				return s
			}(),
			action: api.ACTION_REBOOT,
			params: `{"type": "SOFT"}`,
			caller: user,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				require.ErrorIs(tt, err, compute.ErrStateConflict)
			},
		},
		{
			name: "hard reboot from SHUTOFF",

			server: func() compute.Server {
				s := activeServer()
				s.Status = api.SERVERSTATUS_SHUTOFF
				return s
			}(),
			action: api.ACTION_REBOOT,
			params: `{"type": "HARD"}`,
			caller: user,

			wantKind:      compute.ActionAsync,
			wantTaskState: api.TASKSTATE_REBOOTING,
			wantStatus:    api.SERVERSTATUS_REBOOT,
			assertErr:     require.NoError,
		},
		{
			name: "reboot with invalid type",

			server: activeServer(),
			action: api.ACTION_REBOOT,
			params: `{"type": "MEDIUM"}`,
			caller: user,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				var validationErr compute.ErrValidation
				require.ErrorAs(tt, err, &validationErr)
			},
		},
		{
			name: "add duplicate security group",

			server: activeServer(),
			action: api.ACTION_ADD_SECURITY_GROUP,
			params: `{"name": "default"}`,
			caller: user,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				var validationErr compute.ErrValidation
				require.ErrorAs(tt, err, &validationErr)
			},
		},
		{
			name: "remove missing security group",

			server: activeServer(),
			action: api.ACTION_REMOVE_SECURITY_GROUP,
			params: `{"name": "web"}`,
			caller: user,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				var validationErr compute.ErrValidation
				require.ErrorAs(tt, err, &validationErr)
			},
		},
		{
			name: "resize to the current flavor",

			server: activeServer(),
			action: api.ACTION_RESIZE,
			params: `{"flavorRef": "m1.small"}`,
			caller: user,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				var validationErr compute.ErrValidation
				require.ErrorAs(tt, err, &validationErr)
			},
		},
		{
			name: "rebuild without image",

			server: activeServer(),
			action: api.ACTION_REBUILD,
			params: `{}`,
			caller: user,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				var validationErr compute.ErrValidation
				require.ErrorAs(tt, err, &validationErr)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fixture := newDispatcherFixture(t, []compute.Server{tc.server})

			outcome, err := fixture.dispatcher.Dispatch(context.Background(), serverUUID, tc.action, json.RawMessage(tc.params), tc.caller)

			tc.assertErr(t, err)
			if err != nil {
				// Rejected actions must not leave any mark on the server.
				require.Equal(t, tc.server, fixture.server(t, serverUUID))
				require.Empty(t, fixture.backend.SubmitWorkOrderCalls())
				return
			}

			require.Equal(t, tc.wantKind, outcome.Kind)

			server := fixture.server(t, serverUUID)
			require.Equal(t, tc.wantTaskState, server.TaskState)
			require.Equal(t, tc.wantStatus, server.Status)

			if tc.wantKind == compute.ActionAsync {
				order := fixture.lastOrder(t)
				require.Equal(t, tc.action, order.Action)
				require.Equal(t, server.TaskToken, order.Token)
				require.NotEqual(t, uuid.Nil, order.Token)
			}
		})
	}
}

func TestDispatcherLockRoundTrip(t *testing.T) {
	ctx := context.Background()
	admin := compute.Caller{Username: "admin", Admin: true}
	user := compute.Caller{Username: "user"}

	fixture := newDispatcherFixture(t, []compute.Server{activeServer()})
	serverUUID := activeServer().UUID

	outcome, err := fixture.dispatcher.Dispatch(ctx, serverUUID, api.ACTION_LOCK, json.RawMessage(`{"locked_reason": "audit"}`), user)
	require.NoError(t, err)
	require.Equal(t, compute.ActionSync, outcome.Kind)

	server := fixture.server(t, serverUUID)
	require.True(t, server.Locked)
	require.Equal(t, "audit", server.LockedReason)

	// Locking an already locked server only refreshes the reason.
	_, err = fixture.dispatcher.Dispatch(ctx, serverUUID, api.ACTION_LOCK, nil, admin)
	require.NoError(t, err)

	_, err = fixture.dispatcher.Dispatch(ctx, serverUUID, api.ACTION_UNLOCK, nil, admin)
	require.NoError(t, err)

	server = fixture.server(t, serverUUID)
	require.False(t, server.Locked)
	require.Empty(t, server.LockedReason)

	// Unlock is idempotent.
	_, err = fixture.dispatcher.Dispatch(ctx, serverUUID, api.ACTION_UNLOCK, nil, user)
	require.NoError(t, err)
	require.False(t, fixture.server(t, serverUUID).Locked)
}

func TestDispatcherSecurityGroupRoundTrip(t *testing.T) {
	ctx := context.Background()
	user := compute.Caller{Username: "user"}

	fixture := newDispatcherFixture(t, []compute.Server{activeServer()})
	serverUUID := activeServer().UUID

	_, err := fixture.dispatcher.Dispatch(ctx, serverUUID, api.ACTION_ADD_SECURITY_GROUP, json.RawMessage(`{"name": "web"}`), user)
	require.NoError(t, err)
	require.Equal(t, []string{"default", "web"}, fixture.server(t, serverUUID).SecurityGroups)

	_, err = fixture.dispatcher.Dispatch(ctx, serverUUID, api.ACTION_REMOVE_SECURITY_GROUP, json.RawMessage(`{"name": "default"}`), user)
	require.NoError(t, err)
	require.Equal(t, []string{"web"}, fixture.server(t, serverUUID).SecurityGroups)
}

func TestDispatcherStartStopRoundTrip(t *testing.T) {
	ctx := context.Background()
	user := compute.Caller{Username: "user"}

	stopped := activeServer()
	stopped.Status = api.SERVERSTATUS_SHUTOFF
	stopped.VMState = api.VMSTATE_STOPPED
	stopped.PowerState = api.POWERSTATE_SHUTDOWN

	fixture := newDispatcherFixture(t, []compute.Server{stopped})

	_, err := fixture.dispatcher.Dispatch(ctx, stopped.UUID, api.ACTION_START, nil, user)
	require.NoError(t, err)
	require.True(t, fixture.server(t, stopped.UUID).IsBusy())

	err = fixture.dispatcher.HandleReport(ctx, fixture.report(t))
	require.NoError(t, err)

	server := fixture.server(t, stopped.UUID)
	require.Equal(t, api.SERVERSTATUS_ACTIVE, server.Status)
	require.Equal(t, api.VMSTATE_ACTIVE, server.VMState)
	require.Equal(t, api.POWERSTATE_RUNNING, server.PowerState)
	require.False(t, server.IsBusy())
	require.Equal(t, uuid.Nil, server.TaskToken)
}

func TestDispatcherStaleReportDiscarded(t *testing.T) {
	ctx := context.Background()
	user := compute.Caller{Username: "user"}

	fixture := newDispatcherFixture(t, []compute.Server{activeServer()})
	serverUUID := activeServer().UUID

	_, err := fixture.dispatcher.Dispatch(ctx, serverUUID, api.ACTION_STOP, nil, user)
	require.NoError(t, err)

	report := fixture.report(t)

	// A report carrying a token from another dispatch is discarded.
	staleReport := report
	staleReport.Token = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	err = fixture.dispatcher.HandleReport(ctx, staleReport)
	require.ErrorIs(t, err, compute.ErrStaleReport)
	require.True(t, fixture.server(t, serverUUID).IsBusy())

	// The matching report lands.
	err = fixture.dispatcher.HandleReport(ctx, report)
	require.NoError(t, err)
	require.Equal(t, api.SERVERSTATUS_SHUTOFF, fixture.server(t, serverUUID).Status)

	// Delivering the same report twice is discarded as well.
	err = fixture.dispatcher.HandleReport(ctx, report)
	require.ErrorIs(t, err, compute.ErrStaleReport)
}

func TestDispatcherFailureReport(t *testing.T) {
	ctx := context.Background()
	user := compute.Caller{Username: "user"}

	fixture := newDispatcherFixture(t, []compute.Server{activeServer()})
	serverUUID := activeServer().UUID

	_, err := fixture.dispatcher.Dispatch(ctx, serverUUID, api.ACTION_STOP, nil, user)
	require.NoError(t, err)

	report := fixture.report(t)
	report.Success = false
	report.Message = "guest did not respond"

	err = fixture.dispatcher.HandleReport(ctx, report)
	require.NoError(t, err)

	server := fixture.server(t, serverUUID)
	require.Equal(t, api.SERVERSTATUS_ERROR, server.Status)
	require.Equal(t, api.VMSTATE_ERROR, server.VMState)
	require.False(t, server.IsBusy())
}

func TestDispatcherResizeConfirm(t *testing.T) {
	ctx := context.Background()
	user := compute.Caller{Username: "user"}

	fixture := newDispatcherFixture(t, []compute.Server{activeServer()})
	serverUUID := activeServer().UUID

	_, err := fixture.dispatcher.Dispatch(ctx, serverUUID, api.ACTION_RESIZE, json.RawMessage(`{"flavorRef": "m1.large"}`), user)
	require.NoError(t, err)

	server := fixture.server(t, serverUUID)
	require.Equal(t, api.SERVERSTATUS_RESIZE, server.Status)
	require.Len(t, fixture.migrations, 1)
	require.Equal(t, api.MIGRATIONSTATUS_PRE_MIGRATING, fixture.migrations[0].Status)
	require.Equal(t, "m1.small", fixture.migrations[0].OldFlavorID)
	require.Equal(t, "m1.large", fixture.migrations[0].NewFlavorID)

	err = fixture.dispatcher.HandleReport(ctx, fixture.report(t))
	require.NoError(t, err)

	server = fixture.server(t, serverUUID)
	require.Equal(t, api.SERVERSTATUS_VERIFY_RESIZE, server.Status)
	require.Equal(t, api.VMSTATE_RESIZED, server.VMState)
	require.Equal(t, "m1.large", server.FlavorID)
	require.Equal(t, api.MIGRATIONSTATUS_FINISHED, fixture.migrations[0].Status)

	_, err = fixture.dispatcher.Dispatch(ctx, serverUUID, api.ACTION_CONFIRM_RESIZE, nil, user)
	require.NoError(t, err)

	err = fixture.dispatcher.HandleReport(ctx, fixture.report(t))
	require.NoError(t, err)

	server = fixture.server(t, serverUUID)
	require.Equal(t, api.SERVERSTATUS_ACTIVE, server.Status)
	require.Equal(t, "m1.large", server.FlavorID)
	require.Equal(t, api.MIGRATIONSTATUS_CONFIRMED, fixture.migrations[0].Status)
}

func TestDispatcherResizeRevert(t *testing.T) {
	ctx := context.Background()
	user := compute.Caller{Username: "user"}

	fixture := newDispatcherFixture(t, []compute.Server{activeServer()})
	serverUUID := activeServer().UUID

	_, err := fixture.dispatcher.Dispatch(ctx, serverUUID, api.ACTION_RESIZE, json.RawMessage(`{"flavorRef": "m1.large"}`), user)
	require.NoError(t, err)

	err = fixture.dispatcher.HandleReport(ctx, fixture.report(t))
	require.NoError(t, err)
	require.Equal(t, "m1.large", fixture.server(t, serverUUID).FlavorID)

	_, err = fixture.dispatcher.Dispatch(ctx, serverUUID, api.ACTION_REVERT_RESIZE, nil, user)
	require.NoError(t, err)

	err = fixture.dispatcher.HandleReport(ctx, fixture.report(t))
	require.NoError(t, err)

	server := fixture.server(t, serverUUID)
	require.Equal(t, api.SERVERSTATUS_ACTIVE, server.Status)
	require.Equal(t, "m1.small", server.FlavorID)
	require.Equal(t, api.MIGRATIONSTATUS_REVERTED, fixture.migrations[0].Status)
}

func TestDispatcherResizeConfirmRestoresShutoff(t *testing.T) {
	ctx := context.Background()
	user := compute.Caller{Username: "user"}

	stopped := activeServer()
	stopped.Status = api.SERVERSTATUS_SHUTOFF
	stopped.VMState = api.VMSTATE_STOPPED
	stopped.PowerState = api.POWERSTATE_SHUTDOWN

	fixture := newDispatcherFixture(t, []compute.Server{stopped})

	_, err := fixture.dispatcher.Dispatch(ctx, stopped.UUID, api.ACTION_RESIZE, json.RawMessage(`{"flavorRef": "m1.large"}`), user)
	require.NoError(t, err)

	err = fixture.dispatcher.HandleReport(ctx, fixture.report(t))
	require.NoError(t, err)

	server := fixture.server(t, stopped.UUID)
	require.Equal(t, api.SERVERSTATUS_VERIFY_RESIZE, server.Status)
	require.Equal(t, "m1.large", server.FlavorID)

	_, err = fixture.dispatcher.Dispatch(ctx, stopped.UUID, api.ACTION_CONFIRM_RESIZE, nil, user)
	require.NoError(t, err)

	err = fixture.dispatcher.HandleReport(ctx, fixture.report(t))
	require.NoError(t, err)

	// The server was resized while shut off, so confirming must bring back
	// SHUTOFF, not ACTIVE.
	server = fixture.server(t, stopped.UUID)
	require.Equal(t, api.SERVERSTATUS_SHUTOFF, server.Status)
	require.Equal(t, api.VMSTATE_STOPPED, server.VMState)
	require.Equal(t, api.POWERSTATE_SHUTDOWN, server.PowerState)
	require.Equal(t, "m1.large", server.FlavorID)
	require.False(t, server.IsBusy())
}

func TestDispatcherResizeRevertRestoresShutoff(t *testing.T) {
	ctx := context.Background()
	user := compute.Caller{Username: "user"}

	stopped := activeServer()
	stopped.Status = api.SERVERSTATUS_SHUTOFF
	stopped.VMState = api.VMSTATE_STOPPED
	stopped.PowerState = api.POWERSTATE_SHUTDOWN

	fixture := newDispatcherFixture(t, []compute.Server{stopped})

	_, err := fixture.dispatcher.Dispatch(ctx, stopped.UUID, api.ACTION_RESIZE, json.RawMessage(`{"flavorRef": "m1.large"}`), user)
	require.NoError(t, err)

	err = fixture.dispatcher.HandleReport(ctx, fixture.report(t))
	require.NoError(t, err)

	_, err = fixture.dispatcher.Dispatch(ctx, stopped.UUID, api.ACTION_REVERT_RESIZE, nil, user)
	require.NoError(t, err)

	err = fixture.dispatcher.HandleReport(ctx, fixture.report(t))
	require.NoError(t, err)

	server := fixture.server(t, stopped.UUID)
	require.Equal(t, api.SERVERSTATUS_SHUTOFF, server.Status)
	require.Equal(t, api.VMSTATE_STOPPED, server.VMState)
	require.Equal(t, api.POWERSTATE_SHUTDOWN, server.PowerState)
	require.Equal(t, "m1.small", server.FlavorID)
	require.Equal(t, api.MIGRATIONSTATUS_REVERTED, fixture.migrations[0].Status)
}

func TestDispatcherRescueReturnsAdminPass(t *testing.T) {
	ctx := context.Background()
	user := compute.Caller{Username: "user"}

	fixture := newDispatcherFixture(t, []compute.Server{activeServer()},
		compute.WithDispatcherPasswordGenerator(func() (string, error) {
			return "6AtCUm2QDxhe", nil
		}),
	)
	serverUUID := activeServer().UUID

	outcome, err := fixture.dispatcher.Dispatch(ctx, serverUUID, api.ACTION_RESCUE, nil, user)
	require.NoError(t, err)
	require.Equal(t, compute.ActionAsync, outcome.Kind)
	require.Equal(t, "6AtCUm2QDxhe", outcome.AdminPass)
	require.Equal(t, "6AtCUm2QDxhe", fixture.lastOrder(t).AdminPass)

	err = fixture.dispatcher.HandleReport(ctx, fixture.report(t))
	require.NoError(t, err)

	server := fixture.server(t, serverUUID)
	require.Equal(t, api.SERVERSTATUS_RESCUE, server.Status)
	require.Equal(t, api.VMSTATE_RESCUED, server.VMState)
}

func TestDispatcherRescueKeepsCallerPassword(t *testing.T) {
	ctx := context.Background()
	user := compute.Caller{Username: "user"}

	fixture := newDispatcherFixture(t, []compute.Server{activeServer()})
	serverUUID := activeServer().UUID

	outcome, err := fixture.dispatcher.Dispatch(ctx, serverUUID, api.ACTION_RESCUE, json.RawMessage(`{"adminPass": "hunter2hunter2"}`), user)
	require.NoError(t, err)
	require.Equal(t, "hunter2hunter2", outcome.AdminPass)
}

func TestDispatcherRebuildAppliesImage(t *testing.T) {
	ctx := context.Background()
	user := compute.Caller{Username: "user"}

	fixture := newDispatcherFixture(t, []compute.Server{activeServer()})
	serverUUID := activeServer().UUID

	_, err := fixture.dispatcher.Dispatch(ctx, serverUUID, api.ACTION_REBUILD, json.RawMessage(`{"imageRef": "debian-13", "name": "web02"}`), user)
	require.NoError(t, err)

	err = fixture.dispatcher.HandleReport(ctx, fixture.report(t))
	require.NoError(t, err)

	server := fixture.server(t, serverUUID)
	require.Equal(t, api.SERVERSTATUS_ACTIVE, server.Status)
	require.Equal(t, "debian-13", server.ImageID)
	require.Equal(t, "web02", server.Name)
}

func TestDispatcherBackendSubmitErrorFailsServer(t *testing.T) {
	ctx := context.Background()
	user := compute.Caller{Username: "user"}

	fixture := newDispatcherFixture(t, []compute.Server{activeServer()})
	serverUUID := activeServer().UUID

	fixture.backend.SubmitWorkOrderFunc = func(ctx context.Context, order compute.WorkOrder) error {
		return fmt.Errorf("backend unreachable")
	}

	_, err := fixture.dispatcher.Dispatch(ctx, serverUUID, api.ACTION_STOP, nil, user)
	require.ErrorContains(t, err, "backend unreachable")

	server := fixture.server(t, serverUUID)
	require.Equal(t, api.SERVERSTATUS_ERROR, server.Status)
	require.False(t, server.IsBusy())
}

func TestDispatcherFailStuck(t *testing.T) {
	ctx := context.Background()
	user := compute.Caller{Username: "user"}

	now := time.Now().UTC()

	fixture := newDispatcherFixture(t, []compute.Server{activeServer()},
		compute.WithDispatcherNow(func() time.Time {
			return now.Add(time.Hour)
		}),
	)
	serverUUID := activeServer().UUID

	_, err := fixture.dispatcher.Dispatch(ctx, serverUUID, api.ACTION_STOP, nil, user)
	require.NoError(t, err)

	err = fixture.dispatcher.FailStuck(ctx, 15*time.Minute)
	require.NoError(t, err)

	server := fixture.server(t, serverUUID)
	require.Equal(t, api.SERVERSTATUS_ERROR, server.Status)
	require.False(t, server.IsBusy())
}

func TestDispatcherFailStuckLeavesFreshTasks(t *testing.T) {
	ctx := context.Background()
	user := compute.Caller{Username: "user"}

	fixture := newDispatcherFixture(t, []compute.Server{activeServer()})
	serverUUID := activeServer().UUID

	_, err := fixture.dispatcher.Dispatch(ctx, serverUUID, api.ACTION_STOP, nil, user)
	require.NoError(t, err)

	err = fixture.dispatcher.FailStuck(ctx, 15*time.Minute)
	require.NoError(t, err)

	require.True(t, fixture.server(t, serverUUID).IsBusy())
}

func TestDispatcherValidateIsPure(t *testing.T) {
	fixture := newDispatcherFixture(t, []compute.Server{activeServer()})

	def, err := fixture.dispatcher.Catalog().Lookup(api.ACTION_STOP)
	require.NoError(t, err)

	server := activeServer()
	before := server

	err = fixture.dispatcher.Validate(server, def, nil, compute.Caller{Username: "user"})
	require.NoError(t, err)

	// Validate must not touch the repos or the backend, nor its inputs.
	require.Equal(t, before, server)
	require.Empty(t, fixture.backend.SubmitWorkOrderCalls())
}
