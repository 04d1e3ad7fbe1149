package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ServerStatusType is the primary lifecycle status of a server.
type ServerStatusType string

const (
	SERVERSTATUS_ACTIVE        ServerStatusType = "ACTIVE"
	SERVERSTATUS_BUILD         ServerStatusType = "BUILD"
	SERVERSTATUS_SHUTOFF       ServerStatusType = "SHUTOFF"
	SERVERSTATUS_PAUSED        ServerStatusType = "PAUSED"
	SERVERSTATUS_SUSPENDED     ServerStatusType = "SUSPENDED"
	SERVERSTATUS_RESCUE        ServerStatusType = "RESCUE"
	SERVERSTATUS_REBOOT        ServerStatusType = "REBOOT"
	SERVERSTATUS_HARD_REBOOT   ServerStatusType = "HARD_REBOOT"
	SERVERSTATUS_REBUILD       ServerStatusType = "REBUILD"
	SERVERSTATUS_RESIZE        ServerStatusType = "RESIZE"
	SERVERSTATUS_VERIFY_RESIZE ServerStatusType = "VERIFY_RESIZE"
	SERVERSTATUS_REVERT_RESIZE ServerStatusType = "REVERT_RESIZE"
	SERVERSTATUS_ERROR         ServerStatusType = "ERROR"
	SERVERSTATUS_DELETED       ServerStatusType = "DELETED"
)

// Validate ensures the status is a member of the closed status set.
func (s ServerStatusType) Validate() error {
	switch s {
	case SERVERSTATUS_ACTIVE,
		SERVERSTATUS_BUILD,
		SERVERSTATUS_SHUTOFF,
		SERVERSTATUS_PAUSED,
		SERVERSTATUS_SUSPENDED,
		SERVERSTATUS_RESCUE,
		SERVERSTATUS_REBOOT,
		SERVERSTATUS_HARD_REBOOT,
		SERVERSTATUS_REBUILD,
		SERVERSTATUS_RESIZE,
		SERVERSTATUS_VERIFY_RESIZE,
		SERVERSTATUS_REVERT_RESIZE,
		SERVERSTATUS_ERROR,
		SERVERSTATUS_DELETED:
		return nil
	default:
		return fmt.Errorf("%q is not a valid server status", string(s))
	}
}

// TaskStateType is the transient marker set on a server while an asynchronous
// action is in flight. An empty value means no task is running.
type TaskStateType string

const (
	TASKSTATE_NONE              TaskStateType = ""
	TASKSTATE_POWERING_ON       TaskStateType = "powering-on"
	TASKSTATE_POWERING_OFF      TaskStateType = "powering-off"
	TASKSTATE_REBOOTING         TaskStateType = "rebooting"
	TASKSTATE_REBOOTING_HARD    TaskStateType = "rebooting_hard"
	TASKSTATE_PAUSING           TaskStateType = "pausing"
	TASKSTATE_UNPAUSING         TaskStateType = "unpausing"
	TASKSTATE_SUSPENDING        TaskStateType = "suspending"
	TASKSTATE_RESUMING          TaskStateType = "resuming"
	TASKSTATE_RESCUING          TaskStateType = "rescuing"
	TASKSTATE_UNRESCUING        TaskStateType = "unrescuing"
	TASKSTATE_REBUILDING        TaskStateType = "rebuilding"
	TASKSTATE_RESIZE_PREP       TaskStateType = "resize_prep"
	TASKSTATE_RESIZE_CONFIRMING TaskStateType = "resize_confirming"
	TASKSTATE_RESIZE_REVERTING  TaskStateType = "resize_reverting"
	TASKSTATE_IMAGE_SNAPSHOT    TaskStateType = "image_snapshot"
	TASKSTATE_IMAGE_BACKUP      TaskStateType = "image_backup"
)

// Validate ensures the task state is a member of the closed task state set.
func (t TaskStateType) Validate() error {
	switch t {
	case TASKSTATE_NONE,
		TASKSTATE_POWERING_ON,
		TASKSTATE_POWERING_OFF,
		TASKSTATE_REBOOTING,
		TASKSTATE_REBOOTING_HARD,
		TASKSTATE_PAUSING,
		TASKSTATE_UNPAUSING,
		TASKSTATE_SUSPENDING,
		TASKSTATE_RESUMING,
		TASKSTATE_RESCUING,
		TASKSTATE_UNRESCUING,
		TASKSTATE_REBUILDING,
		TASKSTATE_RESIZE_PREP,
		TASKSTATE_RESIZE_CONFIRMING,
		TASKSTATE_RESIZE_REVERTING,
		TASKSTATE_IMAGE_SNAPSHOT,
		TASKSTATE_IMAGE_BACKUP:
		return nil
	default:
		return fmt.Errorf("%q is not a valid task state", string(t))
	}
}

// VMStateType is the hypervisor-facing state paired with the status.
type VMStateType string

const (
	VMSTATE_ACTIVE    VMStateType = "active"
	VMSTATE_STOPPED   VMStateType = "stopped"
	VMSTATE_PAUSED    VMStateType = "paused"
	VMSTATE_SUSPENDED VMStateType = "suspended"
	VMSTATE_RESCUED   VMStateType = "rescued"
	VMSTATE_RESIZED   VMStateType = "resized"
	VMSTATE_ERROR     VMStateType = "error"
)

// PowerStateType mirrors the raw power state reported by the hypervisor.
type PowerStateType int

const (
	POWERSTATE_NOSTATE   PowerStateType = 0
	POWERSTATE_RUNNING   PowerStateType = 1
	POWERSTATE_PAUSED    PowerStateType = 3
	POWERSTATE_SHUTDOWN  PowerStateType = 4
	POWERSTATE_CRASHED   PowerStateType = 6
	POWERSTATE_SUSPENDED PowerStateType = 7
)

// Server is the wire representation of a compute server.
//
// swagger:model
type Server struct {
	// UUID for this server, used across all compute manager operations
	// Example: 26fa4eb7-8d4f-4bf8-9a6a-dd95d166dfad
	UUID uuid.UUID `json:"uuid" yaml:"uuid"`

	// Human-friendly name for this server
	// Example: web01
	Name string `json:"name" yaml:"name"`

	// The lifecycle status of this server
	// Example: ACTIVE
	Status ServerStatusType `json:"status" yaml:"status"`

	// Transient marker set while an asynchronous action is in flight
	// Example: rebooting
	TaskState TaskStateType `json:"task_state" yaml:"task_state"`

	// Hypervisor-facing state paired with the status
	// Example: active
	VMState VMStateType `json:"vm_state" yaml:"vm_state"`

	// Raw power state reported by the hypervisor
	// Example: 1
	PowerState PowerStateType `json:"power_state" yaml:"power_state"`

	// Whether the server is locked against non-admin actions
	// Example: false
	Locked bool `json:"locked" yaml:"locked"`

	// Optional free-form reason recorded when the server was locked
	// Example: "billing dispute"
	LockedReason string `json:"locked_reason,omitempty" yaml:"locked_reason,omitempty"`

	// The flavor (resource sizing preset) this server runs with
	// Example: m1.small
	FlavorID string `json:"flavor_id" yaml:"flavor_id"`

	// The image this server was built or last rebuilt from
	// Example: ubuntu-24.04
	ImageID string `json:"image_id" yaml:"image_id"`

	// Security groups attached to this server
	// Example: ["default", "web"]
	SecurityGroups []string `json:"security_groups" yaml:"security_groups"`

	// Creation time of this server
	// Example: 2024-11-12 16:15:00 +0000 UTC
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Last modification time of this server
	// Example: 2024-11-12 16:15:00 +0000 UTC
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// ServerPut is the subset of server fields accepted on creation.
//
// swagger:model
type ServerPut struct {
	// Human-friendly name for this server
	// Example: web01
	Name string `json:"name" yaml:"name"`

	// The flavor (resource sizing preset) to build the server with
	// Example: m1.small
	FlavorID string `json:"flavor_id" yaml:"flavor_id"`

	// The image to build the server from
	// Example: ubuntu-24.04
	ImageID string `json:"image_id" yaml:"image_id"`

	// Security groups to attach to this server
	// Example: ["default"]
	SecurityGroups []string `json:"security_groups" yaml:"security_groups"`
}
