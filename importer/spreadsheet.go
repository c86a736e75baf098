// ABOUTME: Builds customer records from account exports in .xlsx or .csv form
// ABOUTME: Rows are grouped by company and only the Active row of each group is imported

package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/harperreed/acctnotes/catalog"
	"github.com/harperreed/acctnotes/models"
)

// ErrUnsupportedFormat is returned for files that are neither .xlsx nor .csv.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// NSRecordURL is the record link template filled with the row's Internal ID.
const NSRecordURL = "https://nlcorp.app.netsuite.com/app/common/entity/custjob.nl?id=%s"

// Row is one spreadsheet row keyed by trimmed header.
type Row map[string]string

// get returns the first non-empty value among keys.
func (r Row) get(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r[k]); v != "" {
			return v
		}
	}
	return ""
}

// Duplicate is an imported customer that matches an existing one by name and number.
type Duplicate struct {
	Name   string
	Number string
}

// Result is what a spreadsheet import produced.
type Result struct {
	Customers  []models.CustomerRecord
	Duplicates []Duplicate
	// Skipped lists companies with no Active row.
	Skipped []string
}

// ImportSpreadsheet reads path and builds records. existing is only used to
// report duplicates; nothing is merged.
func ImportSpreadsheet(path string, existing []models.CustomerRecord, now time.Time) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var rows []Row
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = ReadXLSX(f)
	case ".csv":
		rows, err = ReadCSV(f)
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return Result{}, err
	}
	return FromRows(rows, existing, now), nil
}

// ReadXLSX reads the first sheet. Cells keep their raw values so dates arrive
// as Excel serial numbers.
func ReadXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	cells, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return toRows(cells), nil
}

// ReadCSV reads a header row followed by data rows.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	cells, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return toRows(cells), nil
}

func toRows(cells [][]string) []Row {
	if len(cells) == 0 {
		return nil
	}
	header := make([]string, len(cells[0]))
	for i, h := range cells[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rows := make([]Row, 0, len(cells)-1)
	for _, line := range cells[1:] {
		row := Row{}
		for i, h := range header {
			if h == "" || i >= len(line) {
				continue
			}
			row[h] = line[i]
		}
		rows = append(rows, row)
	}
	return rows
}

// FromRows groups rows by company name in first-seen order and builds one
// record per company from its Active row.
func FromRows(rows []Row, existing []models.CustomerRecord, now time.Time) Result {
	var order []string
	groups := map[string][]Row{}
	for _, row := range rows {
		name := row.get("Company Name", "Customer Name")
		if name == "" {
			continue
		}
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], row)
	}

	res := Result{Customers: []models.CustomerRecord{}}
	for _, fullName := range order {
		active, ok := activeRow(groups[fullName])
		if !ok {
			res.Skipped = append(res.Skipped, fullName)
			continue
		}

		rec := buildRecord(fullName, active, now)
		number := rec.Data.General.Get(models.AttrCustomerNumber)
		if isDuplicate(existing, rec.Name, number) {
			res.Duplicates = append(res.Duplicates, Duplicate{Name: rec.Name, Number: number})
		}
		res.Customers = append(res.Customers, rec)
	}
	return res
}

func activeRow(rows []Row) (Row, bool) {
	for _, r := range rows {
		if strings.EqualFold(strings.TrimSpace(r["Status"]), "active") {
			return r, true
		}
	}
	return nil, false
}

func isDuplicate(existing []models.CustomerRecord, name, number string) bool {
	for _, c := range existing {
		if strings.EqualFold(c.Name, name) && c.Data.General.Get(models.AttrCustomerNumber) == number {
			return true
		}
	}
	return false
}

func buildRecord(fullName string, row Row, now time.Time) models.CustomerRecord {
	rec := models.NewCustomerRecord(cleanCompanyName(fullName), now)

	general := models.Attributes{
		models.AttrIndustry:       row.get("Industry"),
		models.AttrAnnualBudget:   parseBudget(row.get("Annual Budget", "Budget")),
		models.AttrEmployees:      parseEmployees(row.get("# of Employees", "Employees")),
		models.AttrCustomerNumber: row.get("Customer #", "Customer Number"),
		models.AttrAcquisition:    parseDate(row.get("Acquisition", "Acquisition Date")),
		models.AttrARR:            roundARR(row.get("ARR")),
		models.AttrTier:           row.get("Tier"),
		models.AttrSubs:           parseSubs(row.get("Multi-Subsidiary Customer Flag")),
		models.AttrCC:             row.get("C/C", "CC"),
	}
	for k, v := range general {
		if v == "" {
			delete(general, k)
		}
	}
	rec.Data.General = general

	if id := row.get("Internal ID"); id != "" {
		rec.Data.Links.NSRecord = fmt.Sprintf(NSRecordURL, id)
	}
	rec.Data.Links.Website = row.get("Website")
	rec.Data.Links.LinkedIn = row.get("LinkedIn", "LinkedIn Profile")

	rec.Data.Modules = catalog.DefaultModules()
	rec.Data.Meetings = []models.Meeting{{
		AccountManagerName:  reverseName(row.get("Account Manager Name", "Account Manager")),
		TaskUpdateSC:        models.TaskNotStarted,
		TaskConfirmOpps:     models.TaskNotStarted,
		TaskUploadDiscovery: models.TaskNotStarted,
		TaskLastTellEmail:   models.TaskNotStarted,
		TaskFollowUps:       models.TaskNotStarted,
	}}
	return rec
}
