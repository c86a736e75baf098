// ABOUTME: JSON backup export and import of the whole customer list
// ABOUTME: Backups are {customers, exportDate}; imports are lenient about legacy id and attribute types

package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/acctnotes/models"
)

// ErrNoCustomers is returned when a backup has no customers array.
var ErrNoCustomers = errors.New("backup has no customers")

// Backup is the on-disk export layout.
type Backup struct {
	Customers  []models.CustomerRecord `json:"customers"`
	ExportDate time.Time               `json:"exportDate"`
}

// BackupFileName returns the conventional file name for a backup taken at now.
func BackupFileName(now time.Time) string {
	return fmt.Sprintf("customer-notes-%s.json", now.UTC().Format(models.DateLayout))
}

// ExportJSON writes customers as an indented backup.
func ExportJSON(w io.Writer, customers []models.CustomerRecord, now time.Time) error {
	if customers == nil {
		customers = []models.CustomerRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Backup{Customers: customers, ExportDate: now.UTC()}); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// ImportJSON decodes a backup. Records without an id get a fresh one.
func ImportJSON(r io.Reader) ([]models.CustomerRecord, error) {
	var raw struct {
		Customers *[]models.CustomerRecord `json:"customers"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse backup: %w", err)
	}
	if raw.Customers == nil {
		return nil, ErrNoCustomers
	}

	out := make([]models.CustomerRecord, 0, len(*raw.Customers))
	for _, c := range *raw.Customers {
		if c.ID == "" {
			c.ID = models.RecordID(uuid.New().String())
		}
		if c.Data.General == nil {
			c.Data.General = models.Attributes{}
		}
		out = append(out, c.Clone())
	}
	return out, nil
}
