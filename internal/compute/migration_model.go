package compute

import (
	"time"

	"github.com/google/uuid"

	"github.com/FuturFusion/compute-manager/shared/api"
)

type Migration struct {
	ID          int64
	UUID        uuid.UUID `db:"primary=yes"`
	ServerUUID  uuid.UUID
	Status      api.MigrationStatusType
	OldFlavorID string
	NewFlavorID string

	// Snapshot of the server state taken before the resize started, restored
	// when the resize is confirmed or reverted.
	PreResizeStatus     api.ServerStatusType
	PreResizeVMState    api.VMStateType
	PreResizePowerState api.PowerStateType

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Migrations []Migration

func (m Migration) Validate() error {
	if m.UUID == uuid.Nil {
		return NewValidationErrf("Invalid migration, UUID can not be empty")
	}

	if m.ServerUUID == uuid.Nil {
		return NewValidationErrf("Invalid migration, server UUID can not be empty")
	}

	if m.OldFlavorID == "" || m.NewFlavorID == "" {
		return NewValidationErrf("Invalid migration, flavors can not be empty")
	}

	err := m.Status.Validate()
	if err != nil {
		return NewValidationErrf("Invalid migration status: %v", err)
	}

	if m.PreResizeStatus != "" {
		err := m.PreResizeStatus.Validate()
		if err != nil {
			return NewValidationErrf("Invalid pre-resize status: %v", err)
		}
	}

	return nil
}

// IsResolved reports whether the migration has reached a terminal status.
func (m Migration) IsResolved() bool {
	switch m.Status {
	case api.MIGRATIONSTATUS_CONFIRMED, api.MIGRATIONSTATUS_REVERTED, api.MIGRATIONSTATUS_ERROR:
		return true
	default:
		return false
	}
}

// ToAPI converts the migration to its wire representation.
func (m Migration) ToAPI() api.Migration {
	return api.Migration{
		UUID:        m.UUID,
		ServerUUID:  m.ServerUUID,
		Status:      m.Status,
		OldFlavorID: m.OldFlavorID,
		NewFlavorID: m.NewFlavorID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
