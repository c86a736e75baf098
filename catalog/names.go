// ABOUTME: Bidirectional name mapping between account-note product names and analyzer catalog names
// ABOUTME: Several note names can collapse onto one catalog name, so the reverse side is a multimap
package catalog

// alias is one entry of the static mapping table.
type alias struct {
	primary string
	catalog string
}

// aliasTable lists every note-side name that differs from its analyzer name.
// Order matters: Denormalize reports aliases in this order.
var aliasTable = []alias{
	{"Electronic Bank Payments - Advanced", "Advanced Electronic Bank Payments"},
	{"Account Reconciliation (EPM)", "Account Reconciliation"},
	{"Close Management + Consolidations (EPM)", "Close Management"},
	{"Revenue Management - Essentials", "Revenue Management"},
	{"Revenue Management - Allocations", "Revenue Allocations"},
	{"Contract Renewals (Deprecated)", "Contract Renewals"},
	{"Corporate Tax Reporting (EPM)", "Corporate Tax Reporting"},
	{"Narrative Reporting (EPM)", "Narrative Reporting"},
	{"NetSuite Planning + Budgeting (EPM)", "Planning + Budgeting"},
	{"SuitePeople Incentive Compensation", "Incentive Compensation"},
	{"SuitePeople Payroll", "Payroll"},
	{"SuitePeople Performance Management", "Performance Management"},
	{"SuitePeople Workforce Management", "Workforce Management"},
	{"Advanced Inventory Management", "Inventory Management"},
	{"Advanced Order Management", "Order Management"},
	{"Warehouse Management System", "Warehouse Management"},
	{"Work in Progress + Routings", "WIP + Routings"},
	{"SuiteCommerce InStore (POS)", "SuiteCommerce InStore"},
	{"ACS Monitor", "ACS"},
	{"ACS Optimize", "ACS"},
	{"ACS Architect", "ACS"},
	{"AI Consulting Services", "AI Consulting"},
	{"Disaster Recovery Premium", "Disaster Recovery"},
	{"LCS Standard", "LCS"},
	{"LCS Premium", "LCS"},
	{"Employee Users", "Expense Reporting"},
}

// Normalizer maps names in both directions.
type Normalizer struct {
	forward map[string]string
	reverse map[string][]string
}

// NewNormalizer builds the forward map and reverse multimap from the alias table.
func NewNormalizer() *Normalizer {
	n := &Normalizer{
		forward: make(map[string]string, len(aliasTable)),
		reverse: make(map[string][]string),
	}
	for _, a := range aliasTable {
		n.forward[a.primary] = a.catalog
		n.reverse[a.catalog] = append(n.reverse[a.catalog], a.primary)
	}
	return n
}

// Normalize returns the catalog name for a note-side name.
// Unmapped names are returned unchanged.
func (n *Normalizer) Normalize(primary string) string {
	if mapped, ok := n.forward[primary]; ok {
		return mapped
	}
	return primary
}

// Denormalize returns every note-side name that normalizes to catalogName,
// starting with catalogName itself.
func (n *Normalizer) Denormalize(catalogName string) []string {
	aliases := n.reverse[catalogName]
	out := make([]string, 0, len(aliases)+1)
	out = append(out, catalogName)
	for _, a := range aliases {
		if a != catalogName {
			out = append(out, a)
		}
	}
	return out
}

var defaultNormalizer = NewNormalizer()

// Normalize maps primary through the built-in alias table.
func Normalize(primary string) string {
	return defaultNormalizer.Normalize(primary)
}

// Denormalize returns the alias set of catalogName from the built-in table.
func Denormalize(catalogName string) []string {
	return defaultNormalizer.Denormalize(catalogName)
}
