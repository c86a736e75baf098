// ABOUTME: Analyzer CLI commands
// ABOUTME: Prints outbound projections, applies inbound messages by hand and shows the message log
package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/harperreed/acctnotes/analyzer"
	"github.com/harperreed/acctnotes/db"
	"github.com/harperreed/acctnotes/models"
	"github.com/harperreed/acctnotes/store"
)

// AnalyzerProjectCommand prints the messages the analyzer would receive for a customer
func AnalyzerProjectCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("analyzer project", flag.ExitOnError)
	_ = fs.Parse(args)

	rec, err := customerArg(st, fs.Args())
	if err != nil {
		return err
	}

	messages := []interface{}{
		analyzer.CustomerDataMessage{Type: analyzer.TypeCustomerData, Projection: analyzer.Project(rec)},
		analyzer.OpportunitiesMessage{Type: analyzer.TypeOpportunitiesOut, Opportunities: analyzer.OpportunitySync(rec)},
		analyzer.ThirdPartyMessage{Type: analyzer.TypeThirdPartyOut, Solutions: analyzer.ThirdPartySync(rec)},
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	for _, msg := range messages {
		if err := enc.Encode(msg); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}
	return nil
}

// AnalyzerApplyCommand applies one inbound analyzer message to a customer
func AnalyzerApplyCommand(st *store.Store, session *analyzer.Session, args []string) error {
	fs := flag.NewFlagSet("analyzer apply", flag.ExitOnError)
	file := fs.String("file", "-", "Message file, - for stdin")
	_ = fs.Parse(args)

	rec, err := customerArg(st, fs.Args())
	if err != nil {
		return err
	}

	var data []byte
	if *file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(*file)
	}
	if err != nil {
		return fmt.Errorf("failed to read message: %w", err)
	}

	outcome, err := session.HandleInboundFor(context.Background(), rec.ID, data)
	if err != nil {
		return fmt.Errorf("message not applied (%s): %w", outcome, err)
	}

	updated, err := st.Get(rec.ID)
	if err != nil {
		return err
	}
	licensed, opps := countModules(updated)
	_, _ = fmt.Fprintf(stdout, "✓ Message %s to %s\n", outcome, updated.Name)
	_, _ = fmt.Fprintf(stdout, "  Licensed: %d  Opportunities: %d  Third-party: %d\n",
		licensed, opps, len(updated.Data.ThirdParty))
	return nil
}

// AnalyzerLogCommand lists recent inbound analyzer messages
func AnalyzerLogCommand(database *sql.DB, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("analyzer log", flag.ExitOnError)
	customer := fs.String("customer", "", "Only show messages for this customer")
	limit := fs.Int("limit", 20, "Maximum results")
	_ = fs.Parse(args)

	if database == nil {
		return fmt.Errorf("the analyzer log is only kept by the sqlite backend")
	}

	var id models.RecordID
	if *customer != "" {
		rec, err := customerArg(st, []string{*customer})
		if err != nil {
			return err
		}
		id = rec.ID
	}

	entries, err := db.RecentAnalyzerMessages(context.Background(), database, id, *limit)
	if err != nil {
		return fmt.Errorf("failed to read analyzer log: %w", err)
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(stdout, "No analyzer messages logged")
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RECEIVED\tCUSTOMER\tTYPE\tSEQ\tOUTCOME")
	_, _ = fmt.Fprintln(w, "--------\t--------\t----\t---\t-------")
	for _, e := range entries {
		name := shortID(e.CustomerID)
		if rec, err := st.Get(e.CustomerID); err == nil {
			name = rec.Name
		}
		seq := "-"
		if e.Seq != nil {
			seq = fmt.Sprintf("%d", *e.Seq)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.ReceivedAt.Local().Format("2006-01-02 15:04:05"), orDash(name), orDash(e.Type), seq, e.Outcome)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(stdout, "\nTotal: %d message(s)\n", len(entries))
	return nil
}
