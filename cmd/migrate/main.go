// ABOUTME: Migration utility that copies the customer workspace between the sqlite and charm backends.
// ABOUTME: Provides dry-run and backup capabilities so the target is never overwritten by accident.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/harperreed/acctnotes/charm"
	"github.com/harperreed/acctnotes/config"
	"github.com/harperreed/acctnotes/db"
	"github.com/harperreed/acctnotes/store"
)

func main() {
	from := flag.String("from", config.BackendSQLite, "Source backend: sqlite or charm")
	to := flag.String("to", config.BackendCharm, "Target backend: sqlite or charm")
	dbPath := flag.String("db", db.DefaultPath(), "Path to the sqlite database")
	dryRun := flag.Bool("dry-run", false, "Show what would happen without making changes")
	backup := flag.Bool("backup", true, "Back up the sqlite file before overwriting it")
	force := flag.Bool("force", false, "Overwrite a target that already holds customers")
	flag.Parse()

	if *from == *to {
		log.Fatal("Error: -from and -to must differ")
	}

	if err := migrate(context.Background(), *from, *to, *dbPath, *dryRun, *backup, *force); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migration completed successfully")
}

// backendPersister opens a persister for name and returns a func releasing it.
func backendPersister(name, dbPath string) (store.Persister, func(), error) {
	switch name {
	case config.BackendSQLite:
		database, err := db.OpenDatabase(dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		return db.NewPersister(database), func() { _ = database.Close() }, nil
	case config.BackendCharm:
		client, err := charm.GetClient()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open charm store: %w", err)
		}
		return charm.NewPersister(client), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend: %s", name)
	}
}

func migrate(ctx context.Context, from, to, dbPath string, dryRun, createBackup, force bool) error {
	src, closeSrc, err := backendPersister(from, dbPath)
	if err != nil {
		return err
	}
	defer closeSrc()

	if to == config.BackendSQLite && createBackup && !dryRun {
		if err := backupFile(dbPath); err != nil {
			return err
		}
	}

	dst, closeDst, err := backendPersister(to, dbPath)
	if err != nil {
		return err
	}
	defer closeDst()

	return copyDocument(ctx, src, dst, dryRun, force)
}

func copyDocument(ctx context.Context, src, dst store.Persister, dryRun, force bool) error {
	doc, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}
	existing, err := dst.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to read target: %w", err)
	}

	log.Printf("Source holds %d customer(s); target holds %d", len(doc.Customers), len(existing.Customers))

	if len(existing.Customers) > 0 && !force {
		log.Printf("WARNING: Migration will replace the customers in the target")
		log.Printf("Use -force flag to proceed with migration")
		return fmt.Errorf("migration requires -force flag")
	}

	if dryRun {
		log.Printf("[DRY RUN] Would copy %d customer(s)", len(doc.Customers))
		return nil
	}

	if err := dst.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to write target: %w", err)
	}
	log.Printf("Copied %d customer(s)", len(doc.Customers))
	return nil
}

func backupFile(path string) error {
	input, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read database: %w", err)
	}

	backupPath := fmt.Sprintf("%s.backup.%s", path, time.Now().Format("20060102-150405"))
	log.Printf("Creating backup: %s", backupPath)
	if err := os.WriteFile(backupPath, input, 0600); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	return nil
}
