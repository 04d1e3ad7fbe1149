package api

// Action names accepted by the server action endpoint.
const (
	ACTION_LOCK                  = "lock"
	ACTION_UNLOCK                = "unlock"
	ACTION_ADD_SECURITY_GROUP    = "addSecurityGroup"
	ACTION_REMOVE_SECURITY_GROUP = "removeSecurityGroup"
	ACTION_START                 = "os-start"
	ACTION_STOP                  = "os-stop"
	ACTION_REBOOT                = "reboot"
	ACTION_PAUSE                 = "pause"
	ACTION_UNPAUSE               = "unpause"
	ACTION_SUSPEND               = "suspend"
	ACTION_RESUME                = "resume"
	ACTION_RESCUE                = "rescue"
	ACTION_UNRESCUE              = "unrescue"
	ACTION_REBUILD               = "rebuild"
	ACTION_RESIZE                = "resize"
	ACTION_CONFIRM_RESIZE        = "confirmResize"
	ACTION_REVERT_RESIZE         = "revertResize"
	ACTION_CREATE_IMAGE          = "createImage"
	ACTION_CREATE_BACKUP         = "createBackup"
	ACTION_ADD_FLOATING_IP       = "addFloatingIp"
	ACTION_REMOVE_FLOATING_IP    = "removeFloatingIp"
)

// RebootType selects between a soft (guest-cooperative) and a hard
// (power-cycle) reboot.
type RebootType string

const (
	REBOOTTYPE_SOFT RebootType = "SOFT"
	REBOOTTYPE_HARD RebootType = "HARD"
)

// ServerActionReboot holds the parameters of a reboot action.
//
// swagger:model
type ServerActionReboot struct {
	// Reboot flavor, SOFT or HARD
	// Example: SOFT
	Type RebootType `json:"type" yaml:"type"`
}

// ServerActionLock holds the parameters of a lock action.
//
// swagger:model
type ServerActionLock struct {
	// Optional free-form reason to record with the lock
	// Example: "billing dispute"
	LockedReason string `json:"locked_reason,omitempty" yaml:"locked_reason,omitempty"`
}

// ServerActionSecurityGroup holds the parameters of the security group
// attach and detach actions.
//
// swagger:model
type ServerActionSecurityGroup struct {
	// Name of the security group
	// Example: web
	Name string `json:"name" yaml:"name"`
}

// ServerActionRescue holds the parameters of a rescue action.
//
// swagger:model
type ServerActionRescue struct {
	// Admin password for the rescue environment, generated when omitted
	// Example: 6AtCUm2QDxhe
	AdminPass string `json:"adminPass,omitempty" yaml:"adminPass,omitempty"`

	// Optional alternate image to boot the rescue environment from
	// Example: rescue-tools
	RescueImageRef string `json:"rescue_image_ref,omitempty" yaml:"rescue_image_ref,omitempty"`
}

// ServerActionRescueResponse is the body returned by a rescue action.
//
// swagger:model
type ServerActionRescueResponse struct {
	// Admin password for the rescue environment
	// Example: 6AtCUm2QDxhe
	AdminPass string `json:"adminPass" yaml:"adminPass"`
}

// ServerActionRebuild holds the parameters of a rebuild action.
//
// swagger:model
type ServerActionRebuild struct {
	// Image to rebuild the server from
	// Example: ubuntu-24.04
	ImageRef string `json:"imageRef" yaml:"imageRef"`

	// Optional new name for the server
	// Example: web01
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Optional admin password, generated when omitted
	// Example: 6AtCUm2QDxhe
	AdminPass string `json:"adminPass,omitempty" yaml:"adminPass,omitempty"`
}

// ServerActionResize holds the parameters of a resize action.
//
// swagger:model
type ServerActionResize struct {
	// Target flavor to resize to
	// Example: m1.large
	FlavorRef string `json:"flavorRef" yaml:"flavorRef"`
}

// ServerActionCreateImage holds the parameters of a createImage action.
//
// swagger:model
type ServerActionCreateImage struct {
	// Name of the image to create
	// Example: web01-snapshot
	Name string `json:"name" yaml:"name"`

	// Optional metadata to attach to the image
	// Example: {"purpose": "golden"}
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// ServerActionCreateBackup holds the parameters of a createBackup action.
//
// swagger:model
type ServerActionCreateBackup struct {
	// Name of the backup to create
	// Example: web01-weekly
	Name string `json:"name" yaml:"name"`

	// Rotation schedule identifier, daily or weekly
	// Example: weekly
	BackupType string `json:"backup_type" yaml:"backup_type"`

	// Number of backups of this type to retain
	// Example: 2
	Rotation int `json:"rotation" yaml:"rotation"`
}
