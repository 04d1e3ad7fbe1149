package cmds

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/FuturFusion/compute-manager/shared/api"
)

// serverActionCommands returns the per-action subcommands attached to the
// server command.
func serverActionCommands(global *CmdGlobal) []*cobra.Command {
	commands := []*cobra.Command{}

	simple := []cmdServerSimpleAction{
		{global: global, action: api.ACTION_START, use: "start <uuid>", short: "Start the server"},
		{global: global, action: api.ACTION_STOP, use: "stop <uuid>", short: "Stop the server"},
		{global: global, action: api.ACTION_PAUSE, use: "pause <uuid>", short: "Pause the server"},
		{global: global, action: api.ACTION_UNPAUSE, use: "unpause <uuid>", short: "Unpause the server"},
		{global: global, action: api.ACTION_SUSPEND, use: "suspend <uuid>", short: "Suspend the server"},
		{global: global, action: api.ACTION_RESUME, use: "resume <uuid>", short: "Resume the server"},
		{global: global, action: api.ACTION_UNRESCUE, use: "unrescue <uuid>", short: "Leave rescue mode"},
		{global: global, action: api.ACTION_CONFIRM_RESIZE, use: "confirm-resize <uuid>", short: "Confirm a pending resize"},
		{global: global, action: api.ACTION_REVERT_RESIZE, use: "revert-resize <uuid>", short: "Revert a pending resize"},
		{global: global, action: api.ACTION_UNLOCK, use: "unlock <uuid>", short: "Unlock the server"},
	}

	for i := range simple {
		commands = append(commands, simple[i].Command())
	}

	rebootCmd := cmdServerReboot{global: global}
	commands = append(commands, rebootCmd.Command())

	lockCmd := cmdServerLock{global: global}
	commands = append(commands, lockCmd.Command())

	securityGroupAddCmd := cmdServerSecurityGroup{global: global, action: api.ACTION_ADD_SECURITY_GROUP, use: "add-security-group <uuid> <group>", short: "Attach a security group"}
	commands = append(commands, securityGroupAddCmd.Command())

	securityGroupRemoveCmd := cmdServerSecurityGroup{global: global, action: api.ACTION_REMOVE_SECURITY_GROUP, use: "remove-security-group <uuid> <group>", short: "Detach a security group"}
	commands = append(commands, securityGroupRemoveCmd.Command())

	rescueCmd := cmdServerRescue{global: global}
	commands = append(commands, rescueCmd.Command())

	rebuildCmd := cmdServerRebuild{global: global}
	commands = append(commands, rebuildCmd.Command())

	resizeCmd := cmdServerResize{global: global}
	commands = append(commands, resizeCmd.Command())

	createImageCmd := cmdServerCreateImage{global: global}
	commands = append(commands, createImageCmd.Command())

	createBackupCmd := cmdServerCreateBackup{global: global}
	commands = append(commands, createBackupCmd.Command())

	return commands
}

// Actions carrying no parameters.
type cmdServerSimpleAction struct {
	global *CmdGlobal

	action string
	use    string
	short  string
}

func (c *cmdServerSimpleAction) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = c.use
	cmd.Short = c.short

	cmd.RunE = c.Run

	return cmd
}

func (c *cmdServerSimpleAction) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 1, 1)
	if exit {
		return err
	}

	_, err = c.global.doServerActionV1(args[0], c.action, nil)
	if err != nil {
		return err
	}

	cmd.Printf("Successfully requested '%s' on server '%s'.\n", c.action, args[0])
	return nil
}

// Reboot the server.
type cmdServerReboot struct {
	global *CmdGlobal

	flagHard bool
}

func (c *cmdServerReboot) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "reboot <uuid>"
	cmd.Short = "Reboot the server"
	cmd.Long = `Description:
  Reboot the server

  Requests a soft, guest-cooperative reboot by default. Pass --hard to
  power-cycle the server instead.
`

	cmd.RunE = c.Run
	cmd.Flags().BoolVar(&c.flagHard, "hard", false, "Power-cycle instead of a guest-cooperative reboot")

	return cmd
}

func (c *cmdServerReboot) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 1, 1)
	if exit {
		return err
	}

	rebootType := api.REBOOTTYPE_SOFT
	if c.flagHard {
		rebootType = api.REBOOTTYPE_HARD
	}

	_, err = c.global.doServerActionV1(args[0], api.ACTION_REBOOT, api.ServerActionReboot{Type: rebootType})
	if err != nil {
		return err
	}

	cmd.Printf("Successfully requested '%s' on server '%s'.\n", api.ACTION_REBOOT, args[0])
	return nil
}

// Lock the server.
type cmdServerLock struct {
	global *CmdGlobal

	flagReason string
}

func (c *cmdServerLock) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "lock <uuid>"
	cmd.Short = "Lock the server"
	cmd.Long = `Description:
  Lock the server

  Locks the server against non-admin actions until it is unlocked again.
`

	cmd.RunE = c.Run
	cmd.Flags().StringVar(&c.flagReason, "reason", "", "Free-form reason to record with the lock")

	return cmd
}

func (c *cmdServerLock) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 1, 1)
	if exit {
		return err
	}

	_, err = c.global.doServerActionV1(args[0], api.ACTION_LOCK, api.ServerActionLock{LockedReason: c.flagReason})
	if err != nil {
		return err
	}

	cmd.Printf("Successfully locked server '%s'.\n", args[0])
	return nil
}

// Attach or detach a security group.
type cmdServerSecurityGroup struct {
	global *CmdGlobal

	action string
	use    string
	short  string
}

func (c *cmdServerSecurityGroup) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = c.use
	cmd.Short = c.short

	cmd.RunE = c.Run

	return cmd
}

func (c *cmdServerSecurityGroup) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 2, 2)
	if exit {
		return err
	}

	_, err = c.global.doServerActionV1(args[0], c.action, api.ServerActionSecurityGroup{Name: args[1]})
	if err != nil {
		return err
	}

	cmd.Printf("Successfully requested '%s' on server '%s'.\n", c.action, args[0])
	return nil
}

// Rescue the server.
type cmdServerRescue struct {
	global *CmdGlobal

	flagImage     string
	flagAdminPass string
}

func (c *cmdServerRescue) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "rescue <uuid>"
	cmd.Short = "Boot the server into a rescue environment"
	cmd.Long = `Description:
  Boot the server into a rescue environment

  The admin password for the rescue environment is generated by the server
  when not provided and printed on success.
`

	cmd.RunE = c.Run
	cmd.Flags().StringVar(&c.flagImage, "image", "", "Alternate image to boot the rescue environment from")
	cmd.Flags().StringVar(&c.flagAdminPass, "admin-pass", "", "Admin password for the rescue environment")

	return cmd
}

func (c *cmdServerRescue) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 1, 1)
	if exit {
		return err
	}

	body, err := c.global.doServerActionV1(args[0], api.ACTION_RESCUE, api.ServerActionRescue{
		AdminPass:      c.flagAdminPass,
		RescueImageRef: c.flagImage,
	})
	if err != nil {
		return err
	}

	result := api.ServerActionRescueResponse{}

	err = json.Unmarshal(body, &result)
	if err != nil {
		return err
	}

	cmd.Printf("Successfully requested rescue of server '%s'.\n", args[0])
	cmd.Printf("Admin password: %s\n", result.AdminPass)
	return nil
}

// Rebuild the server.
type cmdServerRebuild struct {
	global *CmdGlobal

	flagName string
}

func (c *cmdServerRebuild) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "rebuild <uuid> <image>"
	cmd.Short = "Rebuild the server from an image"
	cmd.Long = `Description:
  Rebuild the server from an image

  Re-provisions the server from the given image, keeping its identity.
`

	cmd.RunE = c.Run
	cmd.Flags().StringVar(&c.flagName, "name", "", "New name for the server")

	return cmd
}

func (c *cmdServerRebuild) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 2, 2)
	if exit {
		return err
	}

	_, err = c.global.doServerActionV1(args[0], api.ACTION_REBUILD, api.ServerActionRebuild{
		ImageRef: args[1],
		Name:     c.flagName,
	})
	if err != nil {
		return err
	}

	cmd.Printf("Successfully requested rebuild of server '%s' from image '%s'.\n", args[0], args[1])
	return nil
}

// Resize the server.
type cmdServerResize struct {
	global *CmdGlobal
}

func (c *cmdServerResize) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "resize <uuid> <flavor>"
	cmd.Short = "Resize the server to a new flavor"
	cmd.Long = `Description:
  Resize the server to a new flavor

  The resize must be confirmed with confirm-resize or rolled back with
  revert-resize once the server reaches VERIFY_RESIZE.
`

	cmd.RunE = c.Run

	return cmd
}

func (c *cmdServerResize) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 2, 2)
	if exit {
		return err
	}

	_, err = c.global.doServerActionV1(args[0], api.ACTION_RESIZE, api.ServerActionResize{FlavorRef: args[1]})
	if err != nil {
		return err
	}

	cmd.Printf("Successfully requested resize of server '%s' to flavor '%s'.\n", args[0], args[1])
	return nil
}

// Snapshot the server into an image.
type cmdServerCreateImage struct {
	global *CmdGlobal
}

func (c *cmdServerCreateImage) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "create-image <uuid> <name>"
	cmd.Short = "Create an image from the server"

	cmd.RunE = c.Run

	return cmd
}

func (c *cmdServerCreateImage) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 2, 2)
	if exit {
		return err
	}

	_, err = c.global.doServerActionV1(args[0], api.ACTION_CREATE_IMAGE, api.ServerActionCreateImage{Name: args[1]})
	if err != nil {
		return err
	}

	cmd.Printf("Successfully requested image '%s' of server '%s'.\n", args[1], args[0])
	return nil
}

// Back up the server.
type cmdServerCreateBackup struct {
	global *CmdGlobal

	flagRotation int
}

func (c *cmdServerCreateBackup) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "create-backup <uuid> <name> <daily|weekly>"
	cmd.Short = "Create a backup of the server"
	cmd.Long = `Description:
  Create a backup of the server

  Requires admin access. The rotation flag bounds how many backups of the
  given type are retained.
`

	cmd.RunE = c.Run
	cmd.Flags().IntVar(&c.flagRotation, "rotation", 1, "Number of backups of this type to retain")

	return cmd
}

func (c *cmdServerCreateBackup) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 3, 3)
	if exit {
		return err
	}

	if args[2] != "daily" && args[2] != "weekly" {
		return fmt.Errorf("Invalid backup type %q; must be %q or %q", args[2], "daily", "weekly")
	}

	_, err = c.global.doServerActionV1(args[0], api.ACTION_CREATE_BACKUP, api.ServerActionCreateBackup{
		Name:       args[1],
		BackupType: args[2],
		Rotation:   c.flagRotation,
	})
	if err != nil {
		return err
	}

	cmd.Printf("Successfully requested backup '%s' (%s, rotation %s) of server '%s'.\n", args[1], args[2], strconv.Itoa(c.flagRotation), args[0])
	return nil
}
