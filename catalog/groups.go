// ABOUTME: Groups a record's product entries by status for display
// ABOUTME: Analyzer opportunities get their own Potential Opportunity group
package catalog

import "github.com/harperreed/acctnotes/models"

// GroupPotential labels analyzer-derived opportunities.
const GroupPotential = "Potential Opportunity"

// ModuleGroup is one status heading and its entries in library order.
type ModuleGroup struct {
	Label   string
	Modules []models.ProductEntry
}

var groupOrder = []string{
	models.StatusLicensed,
	models.StatusOpportunity,
	GroupPotential,
	models.StatusCAI,
	models.StatusRecommended,
	models.StatusDropped,
	models.StatusLost,
}

// GroupLabel returns the display group of an entry.
func GroupLabel(m models.ProductEntry) string {
	if m.IsPotential() {
		return GroupPotential
	}
	return m.Status
}

// GroupModules splits modules into the non-empty status groups.
func GroupModules(modules []models.ProductEntry) []ModuleGroup {
	byLabel := make(map[string][]models.ProductEntry)
	for _, m := range SortModules(modules) {
		label := GroupLabel(m)
		byLabel[label] = append(byLabel[label], m)
	}

	var groups []ModuleGroup
	for _, label := range groupOrder {
		if entries := byLabel[label]; len(entries) > 0 {
			groups = append(groups, ModuleGroup{Label: label, Modules: entries})
		}
	}
	return groups
}
