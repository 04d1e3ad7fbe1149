package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/FuturFusion/compute-manager/internal/compute"
	"github.com/FuturFusion/compute-manager/internal/transaction"
	"github.com/FuturFusion/compute-manager/shared/api"
)

type migration struct {
	db transaction.DBTX
}

var _ compute.MigrationRepo = &migration{}

func NewMigration(db transaction.DBTX) *migration {
	return &migration{
		db: db,
	}
}

const migrationColumns = `id, uuid, server_uuid, status, old_flavor_id, new_flavor_id, pre_resize_status, pre_resize_vm_state, pre_resize_power_state, created_at, updated_at`

func (m migration) Create(ctx context.Context, in compute.Migration) (compute.Migration, error) {
	tx := transaction.GetDBTX(ctx, m.db)

	const q = `
INSERT INTO migrations (uuid, server_uuid, status, old_flavor_id, new_flavor_id, pre_resize_status, pre_resize_vm_state, pre_resize_power_state, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

	result, err := tx.ExecContext(ctx, q,
		in.UUID, in.ServerUUID, in.Status, in.OldFlavorID, in.NewFlavorID,
		in.PreResizeStatus, in.PreResizeVMState, in.PreResizePowerState,
		in.CreatedAt, in.UpdatedAt,
	)
	if err != nil {
		return compute.Migration{}, mapErr(err)
	}

	in.ID, err = result.LastInsertId()
	if err != nil {
		return compute.Migration{}, err
	}

	return in, nil
}

func (m migration) GetAll(ctx context.Context) (compute.Migrations, error) {
	tx := transaction.GetDBTX(ctx, m.db)

	const q = `SELECT ` + migrationColumns + ` FROM migrations ORDER BY id`

	rows, err := tx.QueryContext(ctx, q)
	if err != nil {
		return nil, mapErr(err)
	}

	defer func() { _ = rows.Close() }()

	var migrations compute.Migrations
	for rows.Next() {
		mig, err := scanMigration(rows)
		if err != nil {
			return nil, err
		}

		migrations = append(migrations, mig)
	}

	err = rows.Err()
	if err != nil {
		return nil, mapErr(err)
	}

	return migrations, nil
}

func (m migration) GetByUUID(ctx context.Context, id uuid.UUID) (compute.Migration, error) {
	tx := transaction.GetDBTX(ctx, m.db)

	const q = `SELECT ` + migrationColumns + ` FROM migrations WHERE uuid = ?`

	row := tx.QueryRowContext(ctx, q, id)

	mig, err := scanMigration(row)
	if err != nil {
		return compute.Migration{}, fmt.Errorf("Failed to get migration %q: %w", id, err)
	}

	return mig, nil
}

func (m migration) GetUnresolvedByServerUUID(ctx context.Context, serverUUID uuid.UUID) (compute.Migration, error) {
	tx := transaction.GetDBTX(ctx, m.db)

	const q = `
SELECT ` + migrationColumns + `
FROM migrations
WHERE server_uuid = ? AND status NOT IN (?, ?, ?)
ORDER BY id DESC LIMIT 1
`

	row := tx.QueryRowContext(ctx, q, serverUUID,
		api.MIGRATIONSTATUS_CONFIRMED, api.MIGRATIONSTATUS_REVERTED, api.MIGRATIONSTATUS_ERROR,
	)

	mig, err := scanMigration(row)
	if err != nil {
		return compute.Migration{}, fmt.Errorf("Failed to get unresolved migration for server %q: %w", serverUUID, err)
	}

	return mig, nil
}

func (m migration) UpdateByUUID(ctx context.Context, in compute.Migration) (compute.Migration, error) {
	tx := transaction.GetDBTX(ctx, m.db)

	const q = `
UPDATE migrations
SET status = ?, old_flavor_id = ?, new_flavor_id = ?, updated_at = ?
WHERE uuid = ?
`

	result, err := tx.ExecContext(ctx, q, in.Status, in.OldFlavorID, in.NewFlavorID, in.UpdatedAt, in.UUID)
	if err != nil {
		return compute.Migration{}, mapErr(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return compute.Migration{}, err
	}

	if affected == 0 {
		return compute.Migration{}, fmt.Errorf("Failed to update migration %q: %w", in.UUID, compute.ErrNotFound)
	}

	return m.GetByUUID(ctx, in.UUID)
}

func scanMigration(row rowScanner) (compute.Migration, error) {
	var mig compute.Migration

	err := row.Scan(
		&mig.ID, &mig.UUID, &mig.ServerUUID, &mig.Status,
		&mig.OldFlavorID, &mig.NewFlavorID,
		&mig.PreResizeStatus, &mig.PreResizeVMState, &mig.PreResizePowerState,
		&mig.CreatedAt, &mig.UpdatedAt,
	)
	if err != nil {
		return compute.Migration{}, mapErr(err)
	}

	return mig, nil
}
