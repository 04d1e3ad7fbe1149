//go:build linux && cgo

package db

import (
	"context"
	"database/sql"

	"github.com/FuturFusion/compute-manager/internal/db/schema"
)

// freshSchema is the complete schema dump applied to a brand new database. It
// must describe the same end state as applying every update in order.
const freshSchema = `
CREATE TABLE servers (
	id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
	uuid TEXT NOT NULL,
	name TEXT NOT NULL,
	status TEXT NOT NULL,
	task_state TEXT NOT NULL,
	vm_state TEXT NOT NULL,
	power_state INTEGER NOT NULL,
	task_token TEXT NOT NULL,
	locked INTEGER NOT NULL,
	locked_reason TEXT NOT NULL,
	flavor_id TEXT NOT NULL,
	image_id TEXT NOT NULL,
	security_groups TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE (uuid),
	UNIQUE (name)
);

CREATE TABLE migrations (
	id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
	uuid TEXT NOT NULL,
	server_uuid TEXT NOT NULL,
	status TEXT NOT NULL,
	old_flavor_id TEXT NOT NULL,
	new_flavor_id TEXT NOT NULL,
	pre_resize_status TEXT NOT NULL,
	pre_resize_vm_state TEXT NOT NULL,
	pre_resize_power_state INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE (uuid),
	FOREIGN KEY (server_uuid) REFERENCES servers (uuid) ON DELETE CASCADE
);

INSERT INTO schema (version, updated_at) VALUES (1, strftime("%s"))
`

// Schema for the local database.
func Schema() *schema.Schema {
	schema := schema.NewFromMap(updates)
	schema.Fresh(freshSchema)
	return schema
}

/* Database updates are one-time actions that are needed to move an
   existing database from one version of the schema to the next.

   Those updates are applied at startup time before anything else
   is initialized. This means that they should be entirely
   self-contained and not touch anything but the database.

   Only append to the updates list, never remove entries and never re-order them.
*/

var updates = map[int]schema.Update{
	1: updateFromV0,
}

func updateFromV0(ctx context.Context, tx *sql.Tx) error {
	stmt := `
CREATE TABLE servers (
	id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
	uuid TEXT NOT NULL,
	name TEXT NOT NULL,
	status TEXT NOT NULL,
	task_state TEXT NOT NULL,
	vm_state TEXT NOT NULL,
	power_state INTEGER NOT NULL,
	task_token TEXT NOT NULL,
	locked INTEGER NOT NULL,
	locked_reason TEXT NOT NULL,
	flavor_id TEXT NOT NULL,
	image_id TEXT NOT NULL,
	security_groups TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE (uuid),
	UNIQUE (name)
);

CREATE TABLE migrations (
	id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
	uuid TEXT NOT NULL,
	server_uuid TEXT NOT NULL,
	status TEXT NOT NULL,
	old_flavor_id TEXT NOT NULL,
	new_flavor_id TEXT NOT NULL,
	pre_resize_status TEXT NOT NULL,
	pre_resize_vm_state TEXT NOT NULL,
	pre_resize_power_state INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE (uuid),
	FOREIGN KEY (server_uuid) REFERENCES servers (uuid) ON DELETE CASCADE
);
`
	_, err := tx.Exec(stmt)
	return err
}
