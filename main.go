// ABOUTME: Entry point for the acctnotes CLI, web bridge and MCP server
// ABOUTME: Loads settings, opens the workspace and routes to subcommands
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/harperreed/acctnotes/cli"
	"github.com/harperreed/acctnotes/config"
	"github.com/harperreed/acctnotes/observability"
	"github.com/harperreed/acctnotes/tui"
)

const version = "0.2.0"

type subcommands map[string]func(args []string) error

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/acctnotes/acctnotes.db)")
	backend := flag.String("backend", "", "Storage backend: sqlite or charm")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("acctnotes version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *backend != "" {
		cfg.Backend = *backend
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Error: %v", err)
		}
	}

	command := args[0]
	commandArgs := args[1:]

	// Commands that never touch customer data.
	switch command {
	case "sync":
		if err := cli.SyncCommand(commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	case "config":
		if err := cli.ConfigCommand(cfg, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	case "help", "-h", "--help":
		printUsage()
		return
	}

	logger := observability.NewLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ws, err := cli.OpenWorkspace(ctx, cfg, logger, metrics)
	if err != nil {
		log.Fatalf("Failed to open workspace: %v", err)
	}
	defer func() {
		if err := ws.Close(); err != nil {
			logger.Warn("failed to close workspace", zap.Error(err))
		}
	}()
	st, session := ws.Store, ws.Session

	switch command {
	case "customer":
		err = route("customer", commandArgs, subcommands{
			"add":    func(a []string) error { return cli.AddCustomerCommand(st, a) },
			"list":   func(a []string) error { return cli.ListCustomersCommand(st, a) },
			"show":   func(a []string) error { return cli.ShowCustomerCommand(st, a) },
			"delete": func(a []string) error { return cli.DeleteCustomerCommand(st, a) },
			"rename": func(a []string) error { return cli.RenameCustomerCommand(st, a) },
			"set":    func(a []string) error { return cli.SetCustomerCommand(st, a) },
		})
	case "module":
		err = route("module", commandArgs, subcommands{
			"set":     func(a []string) error { return cli.ModuleSetCommand(st, a) },
			"remove":  func(a []string) error { return cli.ModuleRemoveCommand(st, a) },
			"promote": func(a []string) error { return cli.ModulePromoteCommand(st, a) },
			"reorder": func(a []string) error { return cli.ModuleReorderCommand(st, a) },
		})
	case "thirdparty":
		err = route("thirdparty", commandArgs, subcommands{
			"add":    func(a []string) error { return cli.ThirdPartyAddCommand(st, a) },
			"remove": func(a []string) error { return cli.ThirdPartyRemoveCommand(st, a) },
		})
	case "analyzer":
		err = route("analyzer", commandArgs, subcommands{
			"project": func(a []string) error { return cli.AnalyzerProjectCommand(st, a) },
			"apply":   func(a []string) error { return cli.AnalyzerApplyCommand(st, session, a) },
			"log":     func(a []string) error { return cli.AnalyzerLogCommand(ws.DB, st, a) },
		})
	case "export":
		err = cli.ExportCommand(st, commandArgs)
	case "import":
		err = cli.ImportCommand(st, commandArgs)
	case "serve":
		err = cli.ServeCommand(ctx, st, session, logger, metrics, cfg.ListenAddr, commandArgs)
	case "mcp":
		err = cli.MCPCommand(ctx, st, session, logger, version)
	case "tui":
		err = tui.Run(st)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		// log.Fatalf would skip the deferred close and lose a pending save.
		log.Printf("Error: %v", err)
		_ = ws.Close()
		os.Exit(1)
	}
	if saveErr := st.LastSaveError(); saveErr != nil {
		logger.Error("last save failed", zap.Error(saveErr))
	}
}

func route(group string, args []string, cmds subcommands) error {
	if len(args) == 0 {
		printUsage()
		return fmt.Errorf("%s requires a subcommand", group)
	}
	run, ok := cmds[args[0]]
	if !ok {
		printUsage()
		return fmt.Errorf("unknown %s command: %s", group, args[0])
	}
	return run(args[1:])
}

func printUsage() {
	fmt.Printf(`acctnotes v%s - Account notes workspace and license analyzer bridge

USAGE:
  acctnotes [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/acctnotes/acctnotes.db)
  --backend <name>       Storage backend: sqlite (default) or charm

CUSTOMER COMMANDS:
  acctnotes customer add --name <name> [--no-defaults]
  acctnotes customer list [--query <text>]
  acctnotes customer show <customer>
  acctnotes customer rename --name <new name> <customer>
  acctnotes customer set [--notes <text>] <customer> [key=value ...]
  acctnotes customer delete <customer>

MODULE COMMANDS:
  acctnotes module set --status <status> [--area <area>] [--qty <n>] <customer> <module>
  acctnotes module remove <customer> <module>
  acctnotes module promote <customer> <module>
  acctnotes module reorder <customer>

THIRD-PARTY COMMANDS:
  acctnotes thirdparty add --name <name> [--purpose <p>] [--connected <state>] [--connector <c>] <customer>
  acctnotes thirdparty remove --name <name> [--purpose <p>] <customer>

ANALYZER COMMANDS:
  acctnotes analyzer project <customer>        Print the messages sent to the analyzer
  acctnotes analyzer apply [--file <f>] <customer>
                                               Apply an inbound analyzer message (stdin by default)
  acctnotes analyzer log [--customer <c>] [--limit <n>]

DATA:
  acctnotes export [--output <file>]           Write a JSON backup
  acctnotes import [--yes] <file>              Restore a .json backup or import .xlsx/.csv

SERVERS:
  acctnotes serve [--addr <host:port>]         HTTP API and analyzer websocket bridge
  acctnotes mcp                                MCP server on stdio
  acctnotes tui                                Interactive customer browser

SETTINGS:
  acctnotes config [show | set KEY VALUE]
  acctnotes sync link|status|now|auto|reset    Charm sync backend

<customer> is a customer id or its exact name (case-insensitive).
`, version)
}
