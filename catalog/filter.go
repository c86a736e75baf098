// ABOUTME: Allow-list of product names the license analyzer understands
// ABOUTME: Used only when projecting records outward, never when storing them
package catalog

var recognized = map[string]struct{}{}

func init() {
	for _, name := range analyzerModules {
		recognized[name] = struct{}{}
	}
}

var analyzerModules = []string{
	"CRM", "Advanced Electronic Bank Payments", "Intelligent Payment Automation",
	"Bill Capture", "Procurement", "Fixed Assets Management", "Advanced Financials",
	"Revenue Management", "Revenue Allocations", "Contract Renewals", "Rebate Management",
	"Account Reconciliation", "Close Management", "Multi-Book", "Inventory Management",
	"Advanced Manufacturing", "Demand Planning", "WIP + Routings", "Work Orders",
	"Quality Management", "Grid Order Management", "Order Management",
	"Warehouse Management", "Smart Count", "Logistics Connector",
	"SuiteCommerce", "SuiteCommerce Advanced", "SuiteCommerce InStore",
	"eCommerce Connector", "POS Connector", "Connector", "Field Service",
	"SuiteProjects", "SuiteProjects Pro", "SuiteBilling", "Dunning",
	"Incentive Compensation", "Payroll", "Performance Management",
	"Workforce Management", "SuitePeople HR", "OneWorld", "e-invoicing",
	"SuiteTax", "Corporate Tax", "Narrative Reporting", "NetSuite Pay",
	"SuitePayments", "Planning + Budgeting", "Analytics Warehouse",
	"SuiteAnalytics Connect", "SuiteAnalytics Workbooks", "CPQ",
	"ACS", "AI Consulting", "Disaster Recovery", "LCS", "Support - Premium",
	"NSIP", "Sandbox", "SuiteCloud+", "Compliance360", "Project Management",
	"Expense Reporting",
}

// Recognized reports whether catalogName is on the analyzer allow-list.
func Recognized(catalogName string) bool {
	_, ok := recognized[catalogName]
	return ok
}

// AnalyzerModules returns a copy of the allow-list in its canonical order.
func AnalyzerModules() []string {
	return append([]string(nil), analyzerModules...)
}
