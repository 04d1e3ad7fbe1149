package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MigrationStatusType tracks the lifecycle of a resize migration record.
type MigrationStatusType string

const (
	MIGRATIONSTATUS_PRE_MIGRATING MigrationStatusType = "pre-migrating"
	MIGRATIONSTATUS_MIGRATING     MigrationStatusType = "migrating"
	MIGRATIONSTATUS_FINISHED      MigrationStatusType = "finished"
	MIGRATIONSTATUS_CONFIRMED     MigrationStatusType = "confirmed"
	MIGRATIONSTATUS_REVERTED      MigrationStatusType = "reverted"
	MIGRATIONSTATUS_ERROR         MigrationStatusType = "error"
)

// Validate ensures the migration status is a member of the closed set.
func (m MigrationStatusType) Validate() error {
	switch m {
	case MIGRATIONSTATUS_PRE_MIGRATING,
		MIGRATIONSTATUS_MIGRATING,
		MIGRATIONSTATUS_FINISHED,
		MIGRATIONSTATUS_CONFIRMED,
		MIGRATIONSTATUS_REVERTED,
		MIGRATIONSTATUS_ERROR:
		return nil
	default:
		return fmt.Errorf("%q is not a valid migration status", string(m))
	}
}

// Migration is the wire representation of a resize migration record.
//
// swagger:model
type Migration struct {
	// UUID for this migration record
	// Example: 1e01e47c-7a74-4f54-a0c5-43dd17e4e0b5
	UUID uuid.UUID `json:"uuid" yaml:"uuid"`

	// UUID of the server being resized
	// Example: 26fa4eb7-8d4f-4bf8-9a6a-dd95d166dfad
	ServerUUID uuid.UUID `json:"server_uuid" yaml:"server_uuid"`

	// Status of this migration
	// Example: finished
	Status MigrationStatusType `json:"status" yaml:"status"`

	// Flavor the server had before the resize
	// Example: m1.small
	OldFlavorID string `json:"old_flavor_id" yaml:"old_flavor_id"`

	// Flavor the server is being resized to
	// Example: m1.large
	NewFlavorID string `json:"new_flavor_id" yaml:"new_flavor_id"`

	// Creation time of this record
	// Example: 2024-11-12 16:15:00 +0000 UTC
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Last modification time of this record
	// Example: 2024-11-12 16:15:00 +0000 UTC
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}
