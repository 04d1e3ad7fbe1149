package compute

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/FuturFusion/compute-manager/internal/logger"
	"github.com/FuturFusion/compute-manager/internal/transaction"
	"github.com/FuturFusion/compute-manager/internal/util"
	"github.com/FuturFusion/compute-manager/shared/api"
)

// Caller identifies the client requesting an action.
type Caller struct {
	Username string
	Admin    bool
}

// DispatchOutcome tells the API layer how an admitted action should be
// acknowledged.
type DispatchOutcome struct {
	Kind ActionKind

	// AdminPass is set for actions that hand a generated password back to
	// the caller.
	AdminPass string
}

type Dispatcher struct {
	server    ServerService
	migration MigrationService
	backend   Backend
	catalog   Catalog

	serverLock util.IDLock[uuid.UUID]

	now         func() time.Time
	randomUUID  func() (uuid.UUID, error)
	genPassword func() (string, error)
}

type DispatcherOption func(d *Dispatcher)

func WithDispatcherNow(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		d.now = now
	}
}

func WithDispatcherRandomUUID(randomUUID func() (uuid.UUID, error)) DispatcherOption {
	return func(d *Dispatcher) {
		d.randomUUID = randomUUID
	}
}

func WithDispatcherPasswordGenerator(gen func() (string, error)) DispatcherOption {
	return func(d *Dispatcher) {
		d.genPassword = gen
	}
}

func NewDispatcher(server ServerService, migration MigrationService, backend Backend, catalog Catalog, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		server:      server,
		migration:   migration,
		backend:     backend,
		catalog:     catalog,
		serverLock:  util.NewIDLock[uuid.UUID](),
		now:         time.Now,
		randomUUID:  uuid.NewRandom,
		genPassword: GenerateAdminPassword,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Catalog returns the dispatcher's action catalog.
func (d *Dispatcher) Catalog() Catalog {
	return d.catalog
}

// Validate checks whether the action is admissible for the server in its
// current state. It inspects its arguments only and never mutates state.
func (d *Dispatcher) Validate(server Server, def ActionDefinition, params any, caller Caller) error {
	// The lock shields the server from any non-admin action, deprecated
	// ones included, so it is checked first.
	if server.Locked && !caller.Admin {
		return fmt.Errorf("Server %q is locked: %w", server.Name, ErrOperationNotPermitted)
	}

	if def.AdminOnly && !caller.Admin {
		return fmt.Errorf("Action %q requires administrative access: %w", def.Name, ErrOperationNotPermitted)
	}

	if def.Kind == ActionDeprecated {
		return fmt.Errorf("Action %q: %w", def.Name, ErrDeprecated)
	}

	if def.Kind == ActionAsync && server.IsBusy() {
		return fmt.Errorf("Server %q has task %q in flight: %w", server.Name, server.TaskState, ErrStateConflict)
	}

	if len(def.AllowedFrom) > 0 {
		allowed := false
		for _, status := range def.AllowedFrom {
			if server.Status == status {
				allowed = true
				break
			}
		}

		if !allowed {
			return fmt.Errorf("Action %q is not admissible while server %q has status %q: %w", def.Name, server.Name, server.Status, ErrStateConflict)
		}
	}

	// Confirm and revert require the VERIFY_RESIZE status to be paired with
	// the resized vm_state.
	if def.Name == api.ACTION_CONFIRM_RESIZE || def.Name == api.ACTION_REVERT_RESIZE {
		if server.VMState != api.VMSTATE_RESIZED {
			return fmt.Errorf("Action %q requires server %q to be in vm_state %q, not %q: %w", def.Name, server.Name, api.VMSTATE_RESIZED, server.VMState, ErrStateConflict)
		}
	}

	return d.validateParams(server, def, params)
}

func (d *Dispatcher) validateParams(server Server, def ActionDefinition, params any) error {
	switch def.Name {
	case api.ACTION_REBOOT:
		rebootParams, ok := params.(api.ServerActionReboot)
		if !ok {
			return NewValidationErrf("Invalid reboot parameters")
		}

		switch rebootParams.Type {
		case api.REBOOTTYPE_SOFT:
			if server.Status != api.SERVERSTATUS_ACTIVE {
				return fmt.Errorf("Soft reboot requires a running server: %w", ErrStateConflict)
			}

		case api.REBOOTTYPE_HARD:
		default:
			return NewValidationErrf("Invalid reboot type %q, must be SOFT or HARD", string(rebootParams.Type))
		}

	case api.ACTION_ADD_SECURITY_GROUP:
		groupParams, ok := params.(api.ServerActionSecurityGroup)
		if !ok || groupParams.Name == "" {
			return NewValidationErrf("Invalid security group parameters, name can not be empty")
		}

		if server.HasSecurityGroup(groupParams.Name) {
			return NewValidationErrf("Security group %q is already attached to server %q", groupParams.Name, server.Name)
		}

	case api.ACTION_REMOVE_SECURITY_GROUP:
		groupParams, ok := params.(api.ServerActionSecurityGroup)
		if !ok || groupParams.Name == "" {
			return NewValidationErrf("Invalid security group parameters, name can not be empty")
		}

		if !server.HasSecurityGroup(groupParams.Name) {
			return NewValidationErrf("Security group %q is not attached to server %q", groupParams.Name, server.Name)
		}

	case api.ACTION_RESIZE:
		resizeParams, ok := params.(api.ServerActionResize)
		if !ok || resizeParams.FlavorRef == "" {
			return NewValidationErrf("Invalid resize parameters, flavorRef can not be empty")
		}

		if resizeParams.FlavorRef == server.FlavorID {
			return NewValidationErrf("Server %q already has flavor %q", server.Name, resizeParams.FlavorRef)
		}

	case api.ACTION_REBUILD:
		rebuildParams, ok := params.(api.ServerActionRebuild)
		if !ok || rebuildParams.ImageRef == "" {
			return NewValidationErrf("Invalid rebuild parameters, imageRef can not be empty")
		}

	case api.ACTION_CREATE_IMAGE:
		imageParams, ok := params.(api.ServerActionCreateImage)
		if !ok || imageParams.Name == "" {
			return NewValidationErrf("Invalid createImage parameters, name can not be empty")
		}

	case api.ACTION_CREATE_BACKUP:
		backupParams, ok := params.(api.ServerActionCreateBackup)
		if !ok || backupParams.Name == "" {
			return NewValidationErrf("Invalid createBackup parameters, name can not be empty")
		}

		if backupParams.BackupType != "daily" && backupParams.BackupType != "weekly" {
			return NewValidationErrf("Invalid createBackup parameters, backup_type must be daily or weekly")
		}

		if backupParams.Rotation < 0 {
			return NewValidationErrf("Invalid createBackup parameters, rotation can not be negative")
		}
	}

	return nil
}

// Dispatch admits the named action against the server. Synchronous actions
// are applied before it returns; asynchronous actions are marked on the
// server and handed to the backend.
func (d *Dispatcher) Dispatch(ctx context.Context, serverUUID uuid.UUID, action string, raw json.RawMessage, caller Caller) (DispatchOutcome, error) {
	def, err := d.catalog.Lookup(action)
	if err != nil {
		return DispatchOutcome{}, fmt.Errorf("Unknown action %q: %w", action, ErrNotFound)
	}

	var params any
	if def.DecodeParams != nil {
		params, err = def.DecodeParams(raw)
		if err != nil {
			return DispatchOutcome{}, err
		}
	}

	d.serverLock.Lock(serverUUID)
	defer d.serverLock.Unlock(serverUUID)

	server, err := d.server.GetByUUID(ctx, serverUUID)
	if err != nil {
		return DispatchOutcome{}, err
	}

	err = d.Validate(server, def, params, caller)
	if err != nil {
		return DispatchOutcome{}, err
	}

	// Confirm and revert need an unresolved migration record to resolve once
	// they complete.
	if def.Name == api.ACTION_CONFIRM_RESIZE || def.Name == api.ACTION_REVERT_RESIZE {
		_, err := d.migration.GetUnresolvedByServerUUID(ctx, server.UUID)
		if err != nil {
			if isNotFound(err) {
				return DispatchOutcome{}, fmt.Errorf("Server %q has no unresolved resize migration: %w", server.Name, ErrStateConflict)
			}

			return DispatchOutcome{}, err
		}
	}

	if def.Kind == ActionSync {
		err := d.applySync(ctx, server, def, params)
		if err != nil {
			return DispatchOutcome{}, err
		}

		return DispatchOutcome{Kind: ActionSync}, nil
	}

	return d.dispatchAsync(ctx, server, def, params)
}

func (d *Dispatcher) applySync(ctx context.Context, server Server, def ActionDefinition, params any) error {
	switch def.Name {
	case api.ACTION_LOCK:
		lockParams, _ := params.(api.ServerActionLock)
		server.Locked = true
		server.LockedReason = lockParams.LockedReason

	case api.ACTION_UNLOCK:
		// Unlocking an unlocked server is a no-op.
		server.Locked = false
		server.LockedReason = ""

	case api.ACTION_ADD_SECURITY_GROUP:
		groupParams := params.(api.ServerActionSecurityGroup)
		server.SecurityGroups = append(server.SecurityGroups, groupParams.Name)

	case api.ACTION_REMOVE_SECURITY_GROUP:
		groupParams := params.(api.ServerActionSecurityGroup)
		groups := make([]string, 0, len(server.SecurityGroups))
		for _, group := range server.SecurityGroups {
			if group != groupParams.Name {
				groups = append(groups, group)
			}
		}

		server.SecurityGroups = groups

	default:
		return fmt.Errorf("No synchronous handler for action %q", def.Name)
	}

	_, err := d.server.UpdateByUUID(ctx, server)

	return err
}

func (d *Dispatcher) dispatchAsync(ctx context.Context, server Server, def ActionDefinition, params any) (DispatchOutcome, error) {
	token, err := d.randomUUID()
	if err != nil {
		return DispatchOutcome{}, err
	}

	adminPass := ""
	switch def.Name {
	case api.ACTION_RESCUE:
		rescueParams := params.(api.ServerActionRescue)
		adminPass = rescueParams.AdminPass

	case api.ACTION_REBUILD:
		rebuildParams := params.(api.ServerActionRebuild)
		adminPass = rebuildParams.AdminPass
	}

	if (def.Name == api.ACTION_RESCUE || def.Name == api.ACTION_REBUILD) && adminPass == "" {
		adminPass, err = d.genPassword()
		if err != nil {
			return DispatchOutcome{}, err
		}
	}

	// Snapshot taken before the transient state is applied, so confirm and
	// revert can put the server back where the resize found it.
	preResize := server

	err = transaction.Do(ctx, func(ctx context.Context) error {
		server.TaskState = def.TaskState
		server.TaskToken = token
		if def.TransientStatus != "" {
			server.Status = def.TransientStatus
		}

		server, err = d.server.UpdateByUUID(ctx, server)
		if err != nil {
			return err
		}

		if def.Name == api.ACTION_RESIZE {
			resizeParams := params.(api.ServerActionResize)
			_, err := d.migration.Create(ctx, Migration{
				ServerUUID:          server.UUID,
				Status:              api.MIGRATIONSTATUS_PRE_MIGRATING,
				OldFlavorID:         preResize.FlavorID,
				NewFlavorID:         resizeParams.FlavorRef,
				PreResizeStatus:     preResize.Status,
				PreResizeVMState:    preResize.VMState,
				PreResizePowerState: preResize.PowerState,
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return DispatchOutcome{}, err
	}

	err = d.backend.SubmitWorkOrder(ctx, WorkOrder{
		Server:    server,
		Action:    def.Name,
		Params:    params,
		Token:     token,
		AdminPass: adminPass,
	})
	if err != nil {
		// The work never reached the backend, so no completion report will
		// ever clear the task. Fail the server immediately.
		failErr := d.failServer(ctx, server, fmt.Sprintf("Failed to hand %q to the backend: %v", def.Name, err))
		if failErr != nil {
			slog.Error("Failed to mark server after backend submit error", slog.String("server", server.Name), logger.Err(failErr))
		}

		return DispatchOutcome{}, err
	}

	outcome := DispatchOutcome{Kind: ActionAsync}
	if def.Name == api.ACTION_RESCUE {
		outcome.AdminPass = adminPass
	}

	return outcome, nil
}

// HandleReport applies a completion report delivered by the backend. Reports
// whose token does not match the task currently recorded on the server are
// discarded with ErrStaleReport.
func (d *Dispatcher) HandleReport(ctx context.Context, report Report) error {
	d.serverLock.Lock(report.ServerUUID)
	defer d.serverLock.Unlock(report.ServerUUID)

	server, err := d.server.GetByUUID(ctx, report.ServerUUID)
	if err != nil {
		return err
	}

	if !server.IsBusy() || server.TaskToken != report.Token {
		return fmt.Errorf("Report for action %q on server %q does not match the current task: %w", report.Action, server.Name, ErrStaleReport)
	}

	def, err := d.catalog.Lookup(report.Action)
	if err != nil {
		return fmt.Errorf("Unknown action %q in completion report: %w", report.Action, ErrNotFound)
	}

	if !report.Success {
		return d.failServer(ctx, server, report.Message)
	}

	return transaction.Do(ctx, func(ctx context.Context) error {
		if def.Finalize != nil {
			def.Finalize(&server)
		}

		server.TaskState = api.TASKSTATE_NONE
		server.TaskToken = uuid.Nil

		switch def.Name {
		case api.ACTION_RESIZE:
			migration, err := d.migration.Resolve(ctx, server.UUID, api.MIGRATIONSTATUS_FINISHED)
			if err != nil {
				return err
			}

			server.FlavorID = migration.NewFlavorID

		case api.ACTION_CONFIRM_RESIZE:
			migration, err := d.migration.Resolve(ctx, server.UUID, api.MIGRATIONSTATUS_CONFIRMED)
			if err != nil {
				return err
			}

			restorePreResize(&server, migration)

		case api.ACTION_REVERT_RESIZE:
			migration, err := d.migration.Resolve(ctx, server.UUID, api.MIGRATIONSTATUS_REVERTED)
			if err != nil {
				return err
			}

			server.FlavorID = migration.OldFlavorID
			restorePreResize(&server, migration)

		case api.ACTION_REBUILD:
			rebuildParams, ok := report.Params.(api.ServerActionRebuild)
			if ok && rebuildParams.ImageRef != "" {
				server.ImageID = rebuildParams.ImageRef
				if rebuildParams.Name != "" {
					server.Name = rebuildParams.Name
				}
			}
		}

		_, err = d.server.UpdateByUUID(ctx, server)

		return err
	})
}

// restorePreResize returns the server to the state recorded on the migration
// record before the resize started. Records without a snapshot fall back to
// ACTIVE.
func restorePreResize(server *Server, migration Migration) {
	if migration.PreResizeStatus == "" {
		activate(server)
		return
	}

	server.Status = migration.PreResizeStatus
	server.VMState = migration.PreResizeVMState
	server.PowerState = migration.PreResizePowerState
}

// failServer moves the server to ERROR and resolves any in-flight migration
// record accordingly.
func (d *Dispatcher) failServer(ctx context.Context, server Server, message string) error {
	return transaction.Do(ctx, func(ctx context.Context) error {
		if message != "" {
			slog.Warn("Failing server", slog.String("server", server.Name), slog.String("reason", message))
		}

		server.Status = api.SERVERSTATUS_ERROR
		server.VMState = api.VMSTATE_ERROR
		server.TaskState = api.TASKSTATE_NONE
		server.TaskToken = uuid.Nil

		_, err := d.migration.Resolve(ctx, server.UUID, api.MIGRATIONSTATUS_ERROR)
		if err != nil && !isNotFound(err) {
			return err
		}

		_, err = d.server.UpdateByUUID(ctx, server)

		return err
	})
}

// FailStuck fails every server whose task has been in flight for longer than
// the given duration. It is run periodically by the daemon.
func (d *Dispatcher) FailStuck(ctx context.Context, olderThan time.Duration) error {
	servers, err := d.server.GetAll(ctx)
	if err != nil {
		return err
	}

	deadline := d.now().UTC().Add(-olderThan)

	var stuck Servers
	for _, server := range servers {
		if server.IsBusy() && server.UpdatedAt.Before(deadline) {
			stuck = append(stuck, server)
		}
	}

	return util.RunConcurrentList(stuck, func(server Server) error {
		d.serverLock.Lock(server.UUID)
		defer d.serverLock.Unlock(server.UUID)

		// Re-read under the lock, a report may have landed meanwhile.
		current, err := d.server.GetByUUID(ctx, server.UUID)
		if err != nil {
			return err
		}

		if !current.IsBusy() || current.TaskToken != server.TaskToken {
			return nil
		}

		return d.failServer(ctx, current, fmt.Sprintf("Task %q exceeded its deadline", current.TaskState))
	})
}

const adminPasswordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateAdminPassword returns a random password suitable for rescue and
// rebuild environments.
func GenerateAdminPassword() (string, error) {
	password := make([]byte, 16)
	for i := range password {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(adminPasswordAlphabet))))
		if err != nil {
			return "", err
		}

		password[i] = adminPasswordAlphabet[idx.Int64()]
	}

	return string(password), nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
