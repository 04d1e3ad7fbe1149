package compute_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FuturFusion/compute-manager/internal/compute"
	"github.com/FuturFusion/compute-manager/shared/api"
)

func TestCatalogLookup(t *testing.T) {
	catalog := compute.DefaultCatalog()

	tests := []struct {
		name string

		action string

		wantKind  compute.ActionKind
		assertErr require.ErrorAssertionFunc
	}{
		{
			name: "lock is synchronous",

			action: api.ACTION_LOCK,

			wantKind:  compute.ActionSync,
			assertErr: require.NoError,
		},
		{
			name: "os-start is asynchronous",

			action: api.ACTION_START,

			wantKind:  compute.ActionAsync,
			assertErr: require.NoError,
		},
		{
			name: "addFloatingIp is deprecated",

			action: api.ACTION_ADD_FLOATING_IP,

			wantKind:  compute.ActionDeprecated,
			assertErr: require.NoError,
		},
		{
			name: "unknown action",

			action: "migrate",

			assertErr: func(tt require.TestingT, err error, a ...any) {
				require.ErrorIs(tt, err, compute.ErrNotFound)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def, err := catalog.Lookup(tc.action)

			tc.assertErr(t, err)
			if err != nil {
				return
			}

			require.Equal(t, tc.action, def.Name)
			require.Equal(t, tc.wantKind, def.Kind)
		})
	}
}

func TestCatalogNames(t *testing.T) {
	catalog := compute.DefaultCatalog()

	names := catalog.Names()
	require.Len(t, names, 21)
	require.Contains(t, names, api.ACTION_REBOOT)
	require.Contains(t, names, api.ACTION_REMOVE_FLOATING_IP)
}

func TestCatalogAsyncActionsCarryTaskState(t *testing.T) {
	catalog := compute.DefaultCatalog()

	for _, name := range catalog.Names() {
		def, err := catalog.Lookup(name)
		require.NoError(t, err)

		if def.Kind != compute.ActionAsync {
			continue
		}

		require.NotEqual(t, api.TASKSTATE_NONE, def.TaskState, "action %q", name)
		require.NotEmpty(t, def.AllowedFrom, "action %q", name)
	}
}

func TestCatalogDecodeParams(t *testing.T) {
	catalog := compute.DefaultCatalog()

	rebootDef, err := catalog.Lookup(api.ACTION_REBOOT)
	require.NoError(t, err)

	params, err := rebootDef.DecodeParams(json.RawMessage(`{"type": "HARD"}`))
	require.NoError(t, err)
	require.Equal(t, api.ServerActionReboot{Type: api.REBOOTTYPE_HARD}, params)

	// A null body yields zero parameters rather than an error.
	params, err = rebootDef.DecodeParams(json.RawMessage(`null`))
	require.NoError(t, err)
	require.Equal(t, api.ServerActionReboot{}, params)

	_, err = rebootDef.DecodeParams(json.RawMessage(`{"type": 7}`))
	var validationErr compute.ErrValidation
	require.ErrorAs(t, err, &validationErr)
}

func TestCatalogFinalizeTransitions(t *testing.T) {
	catalog := compute.DefaultCatalog()

	tests := []struct {
		name string

		action string
		server compute.Server

		wantStatus     api.ServerStatusType
		wantVMState    api.VMStateType
		wantPowerState api.PowerStateType
	}{
		{
			name: "os-start activates",

			action: api.ACTION_START,
			server: compute.Server{Status: api.SERVERSTATUS_SHUTOFF, VMState: api.VMSTATE_STOPPED, PowerState: api.POWERSTATE_SHUTDOWN},

			wantStatus:     api.SERVERSTATUS_ACTIVE,
			wantVMState:    api.VMSTATE_ACTIVE,
			wantPowerState: api.POWERSTATE_RUNNING,
		},
		{
			name: "os-stop shuts off",

			action: api.ACTION_STOP,
			server: compute.Server{Status: api.SERVERSTATUS_ACTIVE, VMState: api.VMSTATE_ACTIVE, PowerState: api.POWERSTATE_RUNNING},

			wantStatus:     api.SERVERSTATUS_SHUTOFF,
			wantVMState:    api.VMSTATE_STOPPED,
			wantPowerState: api.POWERSTATE_SHUTDOWN,
		},
		{
			name: "pause pauses",

			action: api.ACTION_PAUSE,
			server: compute.Server{Status: api.SERVERSTATUS_ACTIVE, VMState: api.VMSTATE_ACTIVE, PowerState: api.POWERSTATE_RUNNING},

			wantStatus:     api.SERVERSTATUS_PAUSED,
			wantVMState:    api.VMSTATE_PAUSED,
			wantPowerState: api.POWERSTATE_PAUSED,
		},
		{
			name: "suspend suspends",

			action: api.ACTION_SUSPEND,
			server: compute.Server{Status: api.SERVERSTATUS_ACTIVE, VMState: api.VMSTATE_ACTIVE, PowerState: api.POWERSTATE_RUNNING},

			wantStatus:     api.SERVERSTATUS_SUSPENDED,
			wantVMState:    api.VMSTATE_SUSPENDED,
			wantPowerState: api.POWERSTATE_SUSPENDED,
		},
		{
			name: "rescue enters the rescue environment",

			action: api.ACTION_RESCUE,
			server: compute.Server{Status: api.SERVERSTATUS_ACTIVE, VMState: api.VMSTATE_ACTIVE, PowerState: api.POWERSTATE_RUNNING},

			wantStatus:     api.SERVERSTATUS_RESCUE,
			wantVMState:    api.VMSTATE_RESCUED,
			wantPowerState: api.POWERSTATE_RUNNING,
		},
		{
			name: "resize awaits verification",

			action: api.ACTION_RESIZE,
			server: compute.Server{Status: api.SERVERSTATUS_RESIZE, VMState: api.VMSTATE_ACTIVE, PowerState: api.POWERSTATE_RUNNING},

			wantStatus:     api.SERVERSTATUS_VERIFY_RESIZE,
			wantVMState:    api.VMSTATE_RESIZED,
			wantPowerState: api.POWERSTATE_RUNNING,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def, err := catalog.Lookup(tc.action)
			require.NoError(t, err)
			require.NotNil(t, def.Finalize)

			server := tc.server
			def.Finalize(&server)

			require.Equal(t, tc.wantStatus, server.Status)
			require.Equal(t, tc.wantVMState, server.VMState)
			require.Equal(t, tc.wantPowerState, server.PowerState)
		})
	}
}
