// ABOUTME: Config CLI command
// ABOUTME: Shows the effective settings and persists changes to the settings file
package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/acctnotes/config"
)

// ConfigCommand prints settings, or with "set KEY VALUE" updates and saves one
func ConfigCommand(cfg *config.Config, args []string) error {
	if len(args) == 0 || args[0] == "show" {
		w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "File:\t%s\n", config.Path())
		_, _ = fmt.Fprintf(w, "Backend:\t%s\n", cfg.Backend)
		_, _ = fmt.Fprintf(w, "Database:\t%s\n", cfg.DBPath)
		_, _ = fmt.Fprintf(w, "Listen:\t%s\n", cfg.ListenAddr)
		_, _ = fmt.Fprintf(w, "Log level:\t%s\n", cfg.LogLevel)
		_, _ = fmt.Fprintf(w, "Debounce:\t%s\n", cfg.Debounce)
		_, _ = fmt.Fprintf(w, "Open delays:\t%s / %s\n", cfg.InitialDelay, cfg.BootstrapDelay)
		return w.Flush()
	}

	if args[0] != "set" || len(args) != 3 {
		return fmt.Errorf("usage: acctnotes config [show | set KEY VALUE]")
	}

	key, value := args[1], args[2]
	switch key {
	case "backend":
		cfg.Backend = value
	case "db_path":
		cfg.DBPath = value
	case "listen_addr":
		cfg.ListenAddr = value
	case "log_level":
		cfg.LogLevel = value
	default:
		return fmt.Errorf("unknown setting: %s", key)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "✓ %s = %s\n", key, value)
	return nil
}
