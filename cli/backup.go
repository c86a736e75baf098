// ABOUTME: Export and import CLI commands
// ABOUTME: JSON backups restore the whole workspace; spreadsheets append new customers
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harperreed/acctnotes/importer"
	"github.com/harperreed/acctnotes/store"
)

// ExportCommand writes every customer to a JSON backup file
func ExportCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default customer-notes-<date>.json)")
	_ = fs.Parse(args)

	now := time.Now()
	path := *output
	if path == "" {
		path = importer.BackupFileName(now)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	customers := st.List()
	if err := importer.ExportJSON(f, customers, now); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "✓ Exported %d customer(s) to %s\n", len(customers), path)
	return nil
}

// ImportCommand restores a JSON backup or imports a spreadsheet
func ImportCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	yes := fs.Bool("yes", false, "Do not ask before replacing data or importing duplicates")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("file to import is required")
	}
	path := fs.Arg(0)

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return importBackup(st, path, *yes)
	}
	return importSpreadsheet(st, path, *yes)
}

func importBackup(st *store.Store, path string, yes bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	customers, err := importer.ImportJSON(f)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}

	if existing := len(st.List()); existing > 0 && !yes {
		if !confirm(fmt.Sprintf("Replace %d existing customer(s) with %d from %s?", existing, len(customers), path)) {
			_, _ = fmt.Fprintln(stdout, "Import cancelled")
			return nil
		}
	}

	if err := st.ReplaceAll(context.Background(), customers); err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "✓ Restored %d customer(s) from %s\n", len(customers), path)
	return nil
}

func importSpreadsheet(st *store.Store, path string, yes bool) error {
	res, err := importer.ImportSpreadsheet(path, st.List(), time.Now())
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}

	for _, name := range res.Skipped {
		_, _ = fmt.Fprintln(stdout, dimStyle.Render(fmt.Sprintf("  skipped %s (no Active row)", name)))
	}
	if len(res.Customers) == 0 {
		_, _ = fmt.Fprintln(stdout, "No customers found in spreadsheet")
		return nil
	}

	if len(res.Duplicates) > 0 && !yes {
		_, _ = fmt.Fprintf(stdout, "Found %d customer(s) that already exist:\n", len(res.Duplicates))
		for _, d := range res.Duplicates {
			_, _ = fmt.Fprintf(stdout, "  - %s (%s)\n", d.Name, orDash(d.Number))
		}
		if !confirm("Import anyway?") {
			_, _ = fmt.Fprintln(stdout, "Import cancelled")
			return nil
		}
	}

	if err := st.Append(context.Background(), res.Customers); err != nil {
		return fmt.Errorf("failed to add customers: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "✓ Imported %d customer(s) from %s\n", len(res.Customers), path)
	return nil
}
