package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/FuturFusion/compute-manager/internal/compute"
	"github.com/FuturFusion/compute-manager/internal/transaction"
)

type server struct {
	db transaction.DBTX
}

var _ compute.ServerRepo = &server{}

func NewServer(db transaction.DBTX) *server {
	return &server{
		db: db,
	}
}

const serverColumns = `id, uuid, name, status, task_state, vm_state, power_state, task_token, locked, locked_reason, flavor_id, image_id, security_groups, created_at, updated_at`

func (s server) Create(ctx context.Context, in compute.Server) (compute.Server, error) {
	tx := transaction.GetDBTX(ctx, s.db)

	securityGroups, err := json.Marshal(in.SecurityGroups)
	if err != nil {
		return compute.Server{}, err
	}

	const q = `
INSERT INTO servers (uuid, name, status, task_state, vm_state, power_state, task_token, locked, locked_reason, flavor_id, image_id, security_groups, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

	result, err := tx.ExecContext(ctx, q,
		in.UUID, in.Name, in.Status, in.TaskState, in.VMState, in.PowerState,
		in.TaskToken, in.Locked, in.LockedReason, in.FlavorID, in.ImageID,
		string(securityGroups), in.CreatedAt, in.UpdatedAt,
	)
	if err != nil {
		return compute.Server{}, mapErr(err)
	}

	in.ID, err = result.LastInsertId()
	if err != nil {
		return compute.Server{}, err
	}

	return in, nil
}

func (s server) GetAll(ctx context.Context) (compute.Servers, error) {
	tx := transaction.GetDBTX(ctx, s.db)

	const q = `SELECT ` + serverColumns + ` FROM servers ORDER BY name`

	rows, err := tx.QueryContext(ctx, q)
	if err != nil {
		return nil, mapErr(err)
	}

	defer func() { _ = rows.Close() }()

	var servers compute.Servers
	for rows.Next() {
		srv, err := scanServer(rows)
		if err != nil {
			return nil, err
		}

		servers = append(servers, srv)
	}

	err = rows.Err()
	if err != nil {
		return nil, mapErr(err)
	}

	return servers, nil
}

func (s server) GetByUUID(ctx context.Context, id uuid.UUID) (compute.Server, error) {
	tx := transaction.GetDBTX(ctx, s.db)

	const q = `SELECT ` + serverColumns + ` FROM servers WHERE uuid = ?`

	row := tx.QueryRowContext(ctx, q, id)

	srv, err := scanServer(row)
	if err != nil {
		return compute.Server{}, fmt.Errorf("Failed to get server %q: %w", id, mapErr(err))
	}

	return srv, nil
}

func (s server) UpdateByUUID(ctx context.Context, in compute.Server) (compute.Server, error) {
	tx := transaction.GetDBTX(ctx, s.db)

	securityGroups, err := json.Marshal(in.SecurityGroups)
	if err != nil {
		return compute.Server{}, err
	}

	const q = `
UPDATE servers
SET name = ?, status = ?, task_state = ?, vm_state = ?, power_state = ?, task_token = ?, locked = ?, locked_reason = ?, flavor_id = ?, image_id = ?, security_groups = ?, updated_at = ?
WHERE uuid = ?
`

	result, err := tx.ExecContext(ctx, q,
		in.Name, in.Status, in.TaskState, in.VMState, in.PowerState,
		in.TaskToken, in.Locked, in.LockedReason, in.FlavorID, in.ImageID,
		string(securityGroups), in.UpdatedAt, in.UUID,
	)
	if err != nil {
		return compute.Server{}, mapErr(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return compute.Server{}, err
	}

	if affected == 0 {
		return compute.Server{}, fmt.Errorf("Failed to update server %q: %w", in.UUID, compute.ErrNotFound)
	}

	return s.GetByUUID(ctx, in.UUID)
}

func (s server) DeleteByUUID(ctx context.Context, id uuid.UUID) error {
	tx := transaction.GetDBTX(ctx, s.db)

	const q = `DELETE FROM servers WHERE uuid = ?`

	result, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return mapErr(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return fmt.Errorf("Failed to delete server %q: %w", id, compute.ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanServer(row rowScanner) (compute.Server, error) {
	var srv compute.Server
	var securityGroups string

	err := row.Scan(
		&srv.ID, &srv.UUID, &srv.Name, &srv.Status, &srv.TaskState, &srv.VMState,
		&srv.PowerState, &srv.TaskToken, &srv.Locked, &srv.LockedReason,
		&srv.FlavorID, &srv.ImageID, &securityGroups, &srv.CreatedAt, &srv.UpdatedAt,
	)
	if err != nil {
		return compute.Server{}, mapErr(err)
	}

	err = json.Unmarshal([]byte(securityGroups), &srv.SecurityGroups)
	if err != nil {
		return compute.Server{}, err
	}

	return srv, nil
}
