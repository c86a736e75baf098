// ABOUTME: CLI commands for the charm sync backend
// ABOUTME: Link, status, manual sync, auto-sync toggle and reset of the stored workspace

package charm

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
)

// SyncLinkCommand links this device to a charm account. Authentication uses
// the device's SSH keys, so linking is a sync plus an ID lookup.
func SyncLinkCommand(args []string) error {
	fs := flag.NewFlagSet("sync link", flag.ExitOnError)
	host := fs.String("host", "", "Charm server host")
	_ = fs.Parse(args)

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *host != "" {
		if err := cfg.SetHost(*host); err != nil {
			return fmt.Errorf("failed to save host: %w", err)
		}
	}

	fmt.Printf("Linking to Charm (%s)...\n\n", cfg.Host)

	c, err := GetClient()
	if err != nil {
		return fmt.Errorf("failed to initialize client: %w", err)
	}
	if err := c.Sync(); err != nil {
		return fmt.Errorf("link failed: %w", err)
	}

	if id, err := c.ID(); err != nil {
		fmt.Println("✓ Device linked (ID unavailable)")
	} else {
		fmt.Printf("✓ Linked to account: %s\n", id)
	}
	fmt.Printf("✓ Auto-sync: %v\n", cfg.AutoSync)
	return nil
}

// SyncStatusCommand shows the sync configuration and what is stored.
func SyncStatusCommand(args []string) error {
	fs := flag.NewFlagSet("sync status", flag.ExitOnError)
	_ = fs.Parse(args)

	c, err := GetClient()
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}
	return WriteStatus(os.Stdout, c)
}

// WriteStatus prints the connection settings and the stored customer count.
func WriteStatus(w io.Writer, c *Client) error {
	cfg := c.Config()
	fmt.Fprintln(w, "Charm Sync Status")
	fmt.Fprintln(w, "─────────────────")
	fmt.Fprintf(w, "Server:    %s\n", cfg.Host)
	fmt.Fprintf(w, "Auto-sync: %v\n", cfg.AutoSync)

	if id, err := c.ID(); err == nil {
		fmt.Fprintf(w, "ID:        %s\n", id)
	}

	doc, err := NewPersister(c).Load(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Customers: %d\n", len(doc.Customers))
	if !doc.LastSaved.IsZero() {
		fmt.Fprintf(w, "Saved:     %s\n", doc.LastSaved.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// SyncNowCommand performs an immediate sync.
func SyncNowCommand(args []string) error {
	fs := flag.NewFlagSet("sync now", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "Show verbose output")
	_ = fs.Parse(args)

	c, err := GetClient()
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}

	if *verbose {
		fmt.Println("Syncing with server...")
	}
	if err := c.Sync(); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	fmt.Println("✓ Synced")
	return nil
}

// SyncAutoCommand enables or disables auto-sync.
func SyncAutoCommand(args []string) error {
	fs := flag.NewFlagSet("sync auto", flag.ExitOnError)
	enable := fs.Bool("enable", false, "Enable auto-sync")
	disable := fs.Bool("disable", false, "Disable auto-sync")
	_ = fs.Parse(args)

	if *enable == *disable {
		fmt.Println("Usage: acctnotes sync auto --enable|--disable")
		return nil
	}

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.SetAutoSync(*enable); err != nil {
		return fmt.Errorf("failed to save auto-sync: %w", err)
	}
	if *enable {
		fmt.Println("✓ Auto-sync enabled")
	} else {
		fmt.Println("✓ Auto-sync disabled")
	}
	return nil
}

// SyncResetCommand deletes the stored workspace.
func SyncResetCommand(args []string) error {
	fs := flag.NewFlagSet("sync reset", flag.ExitOnError)
	confirm := fs.Bool("confirm", false, "Confirm data reset")
	_ = fs.Parse(args)

	if !*confirm {
		fmt.Println("WARNING: This will delete every stored customer!")
		fmt.Println()
		fmt.Println("To confirm, run:")
		fmt.Println("  acctnotes sync reset --confirm")
		return nil
	}

	c, err := GetClient()
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}
	if err := c.Reset(); err != nil {
		return fmt.Errorf("failed to reset KV store: %w", err)
	}

	fmt.Println("✓ All data reset")
	return nil
}
