// ABOUTME: Charm sync subcommand router
// ABOUTME: Dispatches sync link, status, now, auto and reset
package cli

import (
	"fmt"

	"github.com/harperreed/acctnotes/charm"
)

// SyncCommand routes sync subcommands to the charm backend
func SyncCommand(args []string) error {
	if len(args) == 0 {
		printSyncUsage()
		return nil
	}

	switch args[0] {
	case "link":
		return charm.SyncLinkCommand(args[1:])
	case "status":
		return charm.SyncStatusCommand(args[1:])
	case "now":
		return charm.SyncNowCommand(args[1:])
	case "auto":
		return charm.SyncAutoCommand(args[1:])
	case "reset":
		return charm.SyncResetCommand(args[1:])
	default:
		printSyncUsage()
		return fmt.Errorf("unknown sync command: %s", args[0])
	}
}

func printSyncUsage() {
	_, _ = fmt.Fprintln(stdout, `Usage: acctnotes sync <command>

Commands:
  link [--host HOST]        Link this device to a Charm account
  status                    Show sync settings and stored customers
  now                       Sync immediately
  auto --enable|--disable   Toggle sync after every save
  reset --confirm           Delete the stored workspace`)
}
