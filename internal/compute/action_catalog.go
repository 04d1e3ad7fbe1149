package compute

import (
	"encoding/json"

	"github.com/FuturFusion/compute-manager/shared/api"
)

// ActionKind separates actions that complete within the request from actions
// handed off to the hypervisor backend.
type ActionKind int

const (
	ActionSync ActionKind = iota
	ActionAsync
	ActionDeprecated
)

// ActionDefinition describes one entry of the action catalog.
type ActionDefinition struct {
	Name string
	Kind ActionKind

	// AdminOnly actions require the admin entitlement regardless of lock state.
	AdminOnly bool

	// AllowedFrom lists the statuses the action is admissible from. Empty
	// means any status.
	AllowedFrom []api.ServerStatusType

	// TaskState is set on the server while an asynchronous action is in flight.
	TaskState api.TaskStateType

	// TransientStatus replaces the server status while the action is in
	// flight. Empty keeps the current status.
	TransientStatus api.ServerStatusType

	// DecodeParams parses the action parameters from the request envelope.
	// Nil means the action takes no parameters.
	DecodeParams func(raw json.RawMessage) (any, error)

	// Finalize applies the target state on successful completion.
	Finalize func(s *Server)
}

// Catalog is the immutable set of known actions, keyed by wire name.
type Catalog struct {
	definitions map[string]ActionDefinition
}

// Lookup returns the definition for the given action name.
func (c Catalog) Lookup(name string) (ActionDefinition, error) {
	def, ok := c.definitions[name]
	if !ok {
		return ActionDefinition{}, ErrNotFound
	}

	return def, nil
}

// Names returns the catalog's action names.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c.definitions))
	for name := range c.definitions {
		names = append(names, name)
	}

	return names
}

func decodeParams[T any](raw json.RawMessage) (any, error) {
	var params T
	if len(raw) > 0 && string(raw) != "null" {
		err := json.Unmarshal(raw, &params)
		if err != nil {
			return nil, NewValidationErrf("Invalid action parameters: %v", err)
		}
	}

	return params, nil
}

func activate(s *Server) {
	s.Status = api.SERVERSTATUS_ACTIVE
	s.VMState = api.VMSTATE_ACTIVE
	s.PowerState = api.POWERSTATE_RUNNING
}

// DefaultCatalog builds the action catalog.
func DefaultCatalog() Catalog {
	definitions := map[string]ActionDefinition{
		api.ACTION_LOCK: {
			Name:         api.ACTION_LOCK,
			Kind:         ActionSync,
			DecodeParams: decodeParams[api.ServerActionLock],
		},
		api.ACTION_UNLOCK: {
			Name: api.ACTION_UNLOCK,
			Kind: ActionSync,
		},
		api.ACTION_ADD_SECURITY_GROUP: {
			Name:         api.ACTION_ADD_SECURITY_GROUP,
			Kind:         ActionSync,
			DecodeParams: decodeParams[api.ServerActionSecurityGroup],
		},
		api.ACTION_REMOVE_SECURITY_GROUP: {
			Name:         api.ACTION_REMOVE_SECURITY_GROUP,
			Kind:         ActionSync,
			DecodeParams: decodeParams[api.ServerActionSecurityGroup],
		},
		api.ACTION_START: {
			Name:        api.ACTION_START,
			Kind:        ActionAsync,
			AllowedFrom: []api.ServerStatusType{api.SERVERSTATUS_SHUTOFF},
			TaskState:   api.TASKSTATE_POWERING_ON,
			Finalize:    activate,
		},
		api.ACTION_STOP: {
			Name:        api.ACTION_STOP,
			Kind:        ActionAsync,
			AllowedFrom: []api.ServerStatusType{api.SERVERSTATUS_ACTIVE, api.SERVERSTATUS_ERROR},
			TaskState:   api.TASKSTATE_POWERING_OFF,
			Finalize: func(s *Server) {
				s.Status = api.SERVERSTATUS_SHUTOFF
				s.VMState = api.VMSTATE_STOPPED
				s.PowerState = api.POWERSTATE_SHUTDOWN
			},
		},
		api.ACTION_REBOOT: {
			Name:            api.ACTION_REBOOT,
			Kind:            ActionAsync,
			AllowedFrom:     []api.ServerStatusType{api.SERVERSTATUS_ACTIVE, api.SERVERSTATUS_SHUTOFF, api.SERVERSTATUS_ERROR},
			TaskState:       api.TASKSTATE_REBOOTING,
			TransientStatus: api.SERVERSTATUS_REBOOT,
			DecodeParams:    decodeParams[api.ServerActionReboot],
			Finalize:        activate,
		},
		api.ACTION_PAUSE: {
			Name:        api.ACTION_PAUSE,
			Kind:        ActionAsync,
			AllowedFrom: []api.ServerStatusType{api.SERVERSTATUS_ACTIVE},
			TaskState:   api.TASKSTATE_PAUSING,
			Finalize: func(s *Server) {
				s.Status = api.SERVERSTATUS_PAUSED
				s.VMState = api.VMSTATE_PAUSED
				s.PowerState = api.POWERSTATE_PAUSED
			},
		},
		api.ACTION_UNPAUSE: {
			Name:        api.ACTION_UNPAUSE,
			Kind:        ActionAsync,
			AllowedFrom: []api.ServerStatusType{api.SERVERSTATUS_PAUSED},
			TaskState:   api.TASKSTATE_UNPAUSING,
			Finalize:    activate,
		},
		api.ACTION_SUSPEND: {
			Name:        api.ACTION_SUSPEND,
			Kind:        ActionAsync,
			AllowedFrom: []api.ServerStatusType{api.SERVERSTATUS_ACTIVE},
			TaskState:   api.TASKSTATE_SUSPENDING,
			Finalize: func(s *Server) {
				s.Status = api.SERVERSTATUS_SUSPENDED
				s.VMState = api.VMSTATE_SUSPENDED
				s.PowerState = api.POWERSTATE_SUSPENDED
			},
		},
		api.ACTION_RESUME: {
			Name:        api.ACTION_RESUME,
			Kind:        ActionAsync,
			AllowedFrom: []api.ServerStatusType{api.SERVERSTATUS_SUSPENDED},
			TaskState:   api.TASKSTATE_RESUMING,
			Finalize:    activate,
		},
		api.ACTION_RESCUE: {
			Name:         api.ACTION_RESCUE,
			Kind:         ActionAsync,
			AllowedFrom:  []api.ServerStatusType{api.SERVERSTATUS_ACTIVE, api.SERVERSTATUS_SHUTOFF},
			TaskState:    api.TASKSTATE_RESCUING,
			DecodeParams: decodeParams[api.ServerActionRescue],
			Finalize: func(s *Server) {
				s.Status = api.SERVERSTATUS_RESCUE
				s.VMState = api.VMSTATE_RESCUED
				s.PowerState = api.POWERSTATE_RUNNING
			},
		},
		api.ACTION_UNRESCUE: {
			Name:        api.ACTION_UNRESCUE,
			Kind:        ActionAsync,
			AllowedFrom: []api.ServerStatusType{api.SERVERSTATUS_RESCUE},
			TaskState:   api.TASKSTATE_UNRESCUING,
			Finalize:    activate,
		},
		api.ACTION_REBUILD: {
			Name:            api.ACTION_REBUILD,
			Kind:            ActionAsync,
			AllowedFrom:     []api.ServerStatusType{api.SERVERSTATUS_ACTIVE, api.SERVERSTATUS_SHUTOFF, api.SERVERSTATUS_ERROR},
			TaskState:       api.TASKSTATE_REBUILDING,
			TransientStatus: api.SERVERSTATUS_REBUILD,
			DecodeParams:    decodeParams[api.ServerActionRebuild],
			Finalize:        activate,
		},
		api.ACTION_RESIZE: {
			Name:            api.ACTION_RESIZE,
			Kind:            ActionAsync,
			AllowedFrom:     []api.ServerStatusType{api.SERVERSTATUS_ACTIVE, api.SERVERSTATUS_SHUTOFF},
			TaskState:       api.TASKSTATE_RESIZE_PREP,
			TransientStatus: api.SERVERSTATUS_RESIZE,
			DecodeParams:    decodeParams[api.ServerActionResize],
			Finalize: func(s *Server) {
				s.Status = api.SERVERSTATUS_VERIFY_RESIZE
				s.VMState = api.VMSTATE_RESIZED
				s.PowerState = api.POWERSTATE_RUNNING
			},
		},
		// Confirm and revert carry no Finalize, the dispatcher restores the
		// state recorded on the migration record instead.
		api.ACTION_CONFIRM_RESIZE: {
			Name:        api.ACTION_CONFIRM_RESIZE,
			Kind:        ActionAsync,
			AllowedFrom: []api.ServerStatusType{api.SERVERSTATUS_VERIFY_RESIZE},
			TaskState:   api.TASKSTATE_RESIZE_CONFIRMING,
		},
		api.ACTION_REVERT_RESIZE: {
			Name:            api.ACTION_REVERT_RESIZE,
			Kind:            ActionAsync,
			AllowedFrom:     []api.ServerStatusType{api.SERVERSTATUS_VERIFY_RESIZE},
			TaskState:       api.TASKSTATE_RESIZE_REVERTING,
			TransientStatus: api.SERVERSTATUS_REVERT_RESIZE,
		},
		api.ACTION_CREATE_IMAGE: {
			Name:         api.ACTION_CREATE_IMAGE,
			Kind:         ActionAsync,
			AllowedFrom:  []api.ServerStatusType{api.SERVERSTATUS_ACTIVE, api.SERVERSTATUS_SHUTOFF, api.SERVERSTATUS_PAUSED, api.SERVERSTATUS_SUSPENDED},
			TaskState:    api.TASKSTATE_IMAGE_SNAPSHOT,
			DecodeParams: decodeParams[api.ServerActionCreateImage],
		},
		api.ACTION_CREATE_BACKUP: {
			Name:         api.ACTION_CREATE_BACKUP,
			Kind:         ActionAsync,
			AdminOnly:    true,
			AllowedFrom:  []api.ServerStatusType{api.SERVERSTATUS_ACTIVE, api.SERVERSTATUS_SHUTOFF},
			TaskState:    api.TASKSTATE_IMAGE_BACKUP,
			DecodeParams: decodeParams[api.ServerActionCreateBackup],
		},
		api.ACTION_ADD_FLOATING_IP: {
			Name: api.ACTION_ADD_FLOATING_IP,
			Kind: ActionDeprecated,
		},
		api.ACTION_REMOVE_FLOATING_IP: {
			Name: api.ACTION_REMOVE_FLOATING_IP,
			Kind: ActionDeprecated,
		},
	}

	return Catalog{definitions: definitions}
}
