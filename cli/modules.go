// ABOUTME: Module and third-party CLI commands
// ABOUTME: Sets product statuses and manages third-party solutions on a customer
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/harperreed/acctnotes/models"
	"github.com/harperreed/acctnotes/store"
)

// ModuleSetCommand sets the status of one product on a customer
func ModuleSetCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("module set", flag.ExitOnError)
	status := fs.String("status", "", "Licensed, Opportunity, Dropped, Lost, CAI or Recommended (required)")
	area := fs.String("area", "", "Process area")
	qty := fs.Int("qty", 0, "Quantity for user-type products")
	_ = fs.Parse(args)

	if *status == "" {
		return fmt.Errorf("--status is required")
	}
	rec, err := customerArg(st, fs.Args())
	if err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("module name is required")
	}
	name := fs.Arg(1)

	updated, err := st.SetModuleStatus(context.Background(), rec.ID, store.ModuleChange{
		Name:        name,
		Status:      *status,
		ProcessArea: *area,
		Quantity:    *qty,
	})
	if err != nil {
		return fmt.Errorf("failed to set module status: %w", err)
	}

	m := updated.Data.Modules[updated.FindModule(name)]
	_, _ = fmt.Fprintf(stdout, "✓ %s: %s is %s\n", updated.Name, m.Name, m.Status)
	if m.Quantity > 0 {
		_, _ = fmt.Fprintf(stdout, "  Quantity: %d\n", m.Quantity)
	}
	return nil
}

// ModuleRemoveCommand removes a product from a customer
func ModuleRemoveCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("module remove", flag.ExitOnError)
	_ = fs.Parse(args)

	rec, err := customerArg(st, fs.Args())
	if err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("module name is required")
	}

	if _, err := st.RemoveModule(context.Background(), rec.ID, fs.Arg(1)); err != nil {
		return fmt.Errorf("failed to remove module: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "✓ Removed %s from %s\n", fs.Arg(1), rec.Name)
	return nil
}

// ModulePromoteCommand keeps an analyzer opportunity as a user opportunity
func ModulePromoteCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("module promote", flag.ExitOnError)
	_ = fs.Parse(args)

	rec, err := customerArg(st, fs.Args())
	if err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("module name is required")
	}

	if _, err := st.PromoteOpportunity(context.Background(), rec.ID, fs.Arg(1)); err != nil {
		return fmt.Errorf("failed to promote module: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "✓ %s is now a confirmed opportunity\n", fs.Arg(1))
	return nil
}

// ModuleReorderCommand sorts a customer's modules into library order
func ModuleReorderCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("module reorder", flag.ExitOnError)
	_ = fs.Parse(args)

	rec, err := customerArg(st, fs.Args())
	if err != nil {
		return err
	}
	if _, err := st.ReorderModules(context.Background(), rec.ID); err != nil {
		return fmt.Errorf("failed to reorder modules: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "✓ Reordered %d module(s)\n", len(rec.Data.Modules))
	return nil
}

// ThirdPartyAddCommand adds or updates a third-party solution
func ThirdPartyAddCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("thirdparty add", flag.ExitOnError)
	name := fs.String("name", "", "Solution name (required)")
	purpose := fs.String("purpose", "", "What the solution is used for")
	connected := fs.String("connected", "", "integrated, manual, both, disconnected or unknown")
	connector := fs.String("connector", "", "Connector name")
	notes := fs.String("notes", "", "Notes")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	rec, err := customerArg(st, fs.Args())
	if err != nil {
		return err
	}

	sol := models.ThirdPartySolution{
		SolutionName:  *name,
		Purpose:       *purpose,
		ConnectedToNS: *connected,
		ConnectorName: *connector,
		Notes:         *notes,
	}
	if _, err := st.AddThirdParty(context.Background(), rec.ID, sol); err != nil {
		return fmt.Errorf("failed to add third-party solution: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "✓ Third-party solution saved: %s\n", *name)
	if *purpose != "" {
		_, _ = fmt.Fprintf(stdout, "  Purpose: %s\n", *purpose)
	}
	return nil
}

// ThirdPartyRemoveCommand removes a third-party solution
func ThirdPartyRemoveCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("thirdparty remove", flag.ExitOnError)
	name := fs.String("name", "", "Solution name (required)")
	purpose := fs.String("purpose", "", "Purpose the solution was saved with")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	rec, err := customerArg(st, fs.Args())
	if err != nil {
		return err
	}

	if _, err := st.RemoveThirdParty(context.Background(), rec.ID, *name, *purpose); err != nil {
		return fmt.Errorf("failed to remove third-party solution: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "✓ Third-party solution removed: %s\n", *name)
	return nil
}
