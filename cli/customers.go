// ABOUTME: Customer CLI commands
// ABOUTME: Add, list, show, delete, rename and edit customer records
package cli

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/acctnotes/catalog"
	"github.com/harperreed/acctnotes/models"
	"github.com/harperreed/acctnotes/store"
)

// AddCustomerCommand adds a new customer
func AddCustomerCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("customer add", flag.ExitOnError)
	name := fs.String("name", "", "Customer name (required)")
	noDefaults := fs.Bool("no-defaults", false, "Start without the default licensed modules")
	_ = fs.Parse(args)

	if strings.TrimSpace(*name) == "" {
		return fmt.Errorf("--name is required")
	}

	var modules []models.ProductEntry
	if !*noDefaults {
		modules = catalog.DefaultModules()
	}

	rec, err := st.Create(context.Background(), *name, modules)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "✓ Customer created: %s (ID: %s)\n", rec.Name, rec.ID)
	_, _ = fmt.Fprintf(stdout, "  Modules: %d\n", len(rec.Data.Modules))
	return nil
}

// ListCustomersCommand lists customers by name
func ListCustomersCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("customer list", flag.ExitOnError)
	query := fs.String("query", "", "Search by name")
	_ = fs.Parse(args)

	customers := st.List()
	if *query != "" {
		customers = st.Search(*query)
	}

	if len(customers) == 0 {
		_, _ = fmt.Fprintln(stdout, "No customers found")
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tLAST EDITED\tLICENSED\tOPPS\tID")
	_, _ = fmt.Fprintln(w, "----\t-----------\t--------\t----\t--")
	for _, rec := range customers {
		licensed, opps := countModules(rec)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			rec.Name, orDash(rec.LastEdited), licensed, opps, shortID(rec.ID))
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(stdout, "\nTotal: %d customer(s)\n", len(customers))
	return nil
}

func countModules(rec models.CustomerRecord) (licensed, opps int) {
	for _, m := range rec.Data.Modules {
		switch m.Status {
		case models.StatusLicensed:
			licensed++
		case models.StatusOpportunity:
			opps++
		}
	}
	return licensed, opps
}

// ShowCustomerCommand prints one customer in full
func ShowCustomerCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("customer show", flag.ExitOnError)
	_ = fs.Parse(args)

	rec, err := customerArg(st, fs.Args())
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(stdout, titleStyle.Render(rec.Name))
	_, _ = fmt.Fprintln(stdout, dimStyle.Render(fmt.Sprintf("ID: %s  Last edited: %s", rec.ID, orDash(rec.LastEdited))))

	if len(rec.Data.General) > 0 {
		_, _ = fmt.Fprintln(stdout)
		_, _ = fmt.Fprintln(stdout, sectionStyle.Render("General"))
		keys := make([]string, 0, len(rec.Data.General))
		for k := range rec.Data.General {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "  %s\t%s\n", k, rec.Data.General[k])
		}
		_ = w.Flush()
	}

	if notes := rec.Data.Overview.GeneralNotes; notes != "" {
		_, _ = fmt.Fprintln(stdout)
		_, _ = fmt.Fprintln(stdout, sectionStyle.Render("Notes"))
		_, _ = fmt.Fprintf(stdout, "  %s\n", notes)
	}

	for _, group := range catalog.GroupModules(rec.Data.Modules) {
		_, _ = fmt.Fprintln(stdout)
		_, _ = fmt.Fprintln(stdout, sectionStyle.Render(fmt.Sprintf("%s (%d)", group.Label, len(group.Modules))))
		w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
		for _, m := range group.Modules {
			qty := ""
			if m.Quantity > 0 {
				qty = fmt.Sprintf("x%d", m.Quantity)
			}
			_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\n", m.Name, orDash(m.ProcessArea), qty)
		}
		_ = w.Flush()
	}

	if len(rec.Data.ThirdParty) > 0 {
		_, _ = fmt.Fprintln(stdout)
		_, _ = fmt.Fprintln(stdout, sectionStyle.Render("Third-party solutions"))
		w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
		for _, tp := range rec.Data.ThirdParty {
			_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n",
				tp.SolutionName, orDash(tp.Purpose), orDash(tp.ConnectedToNS), orDash(tp.ConnectorName))
		}
		_ = w.Flush()
	}

	if rec.Data.Links.NSRecord != "" {
		_, _ = fmt.Fprintln(stdout)
		_, _ = fmt.Fprintf(stdout, "NetSuite: %s\n", rec.Data.Links.NSRecord)
	}
	return nil
}

// DeleteCustomerCommand removes a customer
func DeleteCustomerCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("customer delete", flag.ExitOnError)
	_ = fs.Parse(args)

	rec, err := customerArg(st, fs.Args())
	if err != nil {
		return err
	}
	if err := st.Delete(context.Background(), rec.ID); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "✓ Customer deleted: %s\n", rec.Name)
	return nil
}

// RenameCustomerCommand changes a customer's name
func RenameCustomerCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("customer rename", flag.ExitOnError)
	name := fs.String("name", "", "New name (required)")
	_ = fs.Parse(args)

	if strings.TrimSpace(*name) == "" {
		return fmt.Errorf("--name is required")
	}
	rec, err := customerArg(st, fs.Args())
	if err != nil {
		return err
	}

	updated, err := st.Rename(context.Background(), rec.ID, *name)
	if err != nil {
		return fmt.Errorf("failed to rename customer: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "✓ Customer renamed: %s -> %s\n", rec.Name, updated.Name)
	return nil
}

// SetCustomerCommand sets general attributes (key=value) and notes
func SetCustomerCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("customer set", flag.ExitOnError)
	notes := fs.String("notes", "", "General notes")
	_ = fs.Parse(args)

	rec, err := customerArg(st, fs.Args())
	if err != nil {
		return err
	}
	pairs := fs.Args()[1:]
	if len(pairs) == 0 && *notes == "" {
		return fmt.Errorf("nothing to set: pass key=value pairs or --notes")
	}

	ctx := context.Background()
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("invalid attribute %q, expected key=value", pair)
		}
		if _, err := st.SetGeneral(ctx, rec.ID, key, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
		_, _ = fmt.Fprintf(stdout, "✓ %s = %s\n", key, orDash(value))
	}

	if *notes != "" {
		if _, err := st.SetNotes(ctx, rec.ID, *notes); err != nil {
			return fmt.Errorf("failed to set notes: %w", err)
		}
		_, _ = fmt.Fprintln(stdout, "✓ Notes updated")
	}
	return nil
}
