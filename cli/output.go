// ABOUTME: Shared output helpers for CLI commands
// ABOUTME: Styles, the stdout/stdin used by commands, and customer lookup from arguments
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/acctnotes/models"
	"github.com/harperreed/acctnotes/store"
)

// Commands write here so tests can capture output.
var (
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// customerArg resolves the first positional argument to a record.
func customerArg(st *store.Store, args []string) (models.CustomerRecord, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return models.CustomerRecord{}, fmt.Errorf("customer id or name is required")
	}
	rec, err := st.Resolve(args[0])
	if err != nil {
		return models.CustomerRecord{}, fmt.Errorf("failed to find customer %q: %w", args[0], err)
	}
	return rec, nil
}

func shortID(id models.RecordID) string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// confirm asks a yes/no question on stdin. Anything but y/yes is no.
func confirm(question string) bool {
	_, _ = fmt.Fprintf(stdout, "%s [y/N]: ", question)
	line, _ := bufio.NewReader(stdin).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
