// ABOUTME: Module library of sellable products grouped by process area
// ABOUTME: Drives product types, quantity defaults, and the canonical module ordering
package catalog

import (
	"sort"

	"github.com/harperreed/acctnotes/models"
)

// ProductType classifies a library product.
type ProductType string

const (
	TypeModule       ProductType = "Module"
	TypeSuiteApp     ProductType = "SuiteApp"
	TypeConnector    ProductType = "Connector"
	TypeSubscription ProductType = "Subscription"
	TypeAI           ProductType = "AI"
	TypeUser         ProductType = "User"
)

// FullLicenceUsers is the user tier whose quantity becomes the projected user count.
const FullLicenceUsers = "Full Licence Users"

// Product is one library entry.
type Product struct {
	Name        string      `json:"name"`
	Type        ProductType `json:"type"`
	ProcessArea string      `json:"processArea"`
}

type area struct {
	name     string
	products []Product
}

func p(name string, t ProductType) Product {
	return Product{Name: name, Type: t}
}

var library = []area{
	{"CRM + Marketing", []Product{
		p("Compliance360", TypeModule),
		p("CRM", TypeModule),
		p("Outlook Connector", TypeConnector),
		p("Salesforce Connector", TypeConnector),
	}},
	{"Procurement", []Product{
		p("Bill Capture", TypeModule),
		p("Electronic Bank Payments", TypeSuiteApp),
		p("Electronic Bank Payments - Advanced", TypeSuiteApp),
		p("Fixed Assets Management", TypeModule),
		p("Intelligent Payment Automation", TypeSuiteApp),
		p("Payment Automation", TypeModule),
		p("Procurement", TypeModule),
		p("SuiteProcurement", TypeModule),
		p("Transaction Email Capture", TypeSuiteApp),
		p("Transaction Line Distribution", TypeSuiteApp),
	}},
	{"Accounting + Reconciliations", []Product{
		p("Account Reconciliation (EPM)", TypeModule),
		p("Advanced Financials", TypeModule),
		p("Auto Bank Statement Import", TypeSuiteApp),
		p("Bank Feeds", TypeSuiteApp),
		p("Close Management + Consolidations (EPM)", TypeModule),
		p("Financial Exception Management", TypeAI),
		p("Multi-Book", TypeModule),
		p("OneWorld", TypeModule),
		p("SuiteTax", TypeModule),
	}},
	{"Revenue Recognition", []Product{
		p("Contract Renewals (Deprecated)", TypeModule),
		p("Rebate Management", TypeModule),
		p("Revenue Management - Essentials", TypeModule),
		p("Revenue Management - Allocations", TypeModule),
	}},
	{"Invoicing + Payment Processing", []Product{
		p("Dunning", TypeModule),
		p("e-invoicing", TypeModule),
		p("Online Donations", TypeSuiteApp),
		p("NetSuite Pay", TypeModule),
		p("SuiteBilling", TypeModule),
		p("SuitePayments", TypeModule),
	}},
	{"Grant + Project Management", []Product{
		p("Field Service Management", TypeModule),
		p("Indirect Cost Allocations for Grants", TypeSuiteApp),
		p("Grants Management", TypeSuiteApp),
		p("Project Management", TypeModule),
		p("SuiteProjects", TypeModule),
		p("SuiteProjects Pro", TypeModule),
	}},
	{"Planning Analysis + Reporting", []Product{
		p("Cash360", TypeSuiteApp),
		p("Corporate Tax Reporting (EPM)", TypeModule),
		p("Intelligent Performance Management", TypeAI),
		p("Narrative Reporting (EPM)", TypeModule),
		p("NetSuite Planning + Budgeting (EPM)", TypeModule),
		p("NSPB Smart View", TypeSuiteApp),
		p("Profitability + Cost Management (EPM)", TypeModule),
		p("PCM Agent", TypeAI),
	}},
	{"Analytics", []Product{
		p("Analytics Warehouse", TypeModule),
		p("SuiteAnalytics Assistant", TypeAI),
		p("SuiteAnalytics Connect", TypeConnector),
		p("Subscription Metrics", TypeSuiteApp),
		p("NSAW Multi-Instance Connector", TypeConnector),
	}},
	{"HR + Payroll", []Product{
		p("Labor Expense Allocations", TypeSuiteApp),
		p("SuitePeople HR", TypeModule),
		p("SuitePeople Incentive Compensation", TypeModule),
		p("SuitePeople Payroll", TypeModule),
		p("SuitePeople Performance Management", TypeModule),
		p("SuitePeople Workforce Management", TypeModule),
	}},
	{"Sales + eCommerce", []Product{
		p("eCommerce Connector", TypeConnector),
		p("Intelligent Item Recommendations", TypeAI),
		p("POS Connector", TypeConnector),
		p("SuiteCommerce", TypeModule),
		p("SuiteCommerce Advanced", TypeModule),
		p("SuiteCommerce InStore (POS)", TypeModule),
		p("SuiteCommerce MyAccount", TypeModule),
	}},
	{"Inventory + Warehouse", []Product{
		p("Advanced Inventory Management", TypeModule),
		p("Advanced Order Management", TypeModule),
		p("Grid Order Management", TypeModule),
		p("Logistics Connector", TypeConnector),
		p("Ship Central", TypeModule),
		p("Smart Count", TypeModule),
		p("Supply Chain Control Tower", TypeAI),
		p("Warehouse Management System", TypeModule),
	}},
	{"Manufacturing", []Product{
		p("Advanced Manufacturing", TypeModule),
		p("CPQ", TypeModule),
		p("Demand Planning", TypeModule),
		p("Quality Management", TypeModule),
		p("Work in Progress + Routings", TypeModule),
		p("Work Orders + Assemblies", TypeModule),
	}},
	{"Support", []Product{
		p("ACS Monitor", TypeSubscription),
		p("ACS Optimize", TypeSubscription),
		p("ACS Architect", TypeSubscription),
		p("Advisor", TypeAI),
		p("AI Consulting Services", TypeSubscription),
		p("Application Performance Management", TypeSuiteApp),
		p("Customer Success + Professional Services", TypeSubscription),
		p("Disaster Recovery Premium", TypeSubscription),
		p("Guided Learning Premium + Enterprise", TypeSubscription),
		p("Guided Learning Service Pack", TypeSubscription),
		p("Insights", TypeAI),
		p("LCS Standard", TypeSubscription),
		p("LCS Premium", TypeSubscription),
		p("LCS Tailored Training Packs", TypeSubscription),
		p("LCS Training On-Demand", TypeSubscription),
		p("NetSuite360", TypeModule),
		p("OCI Anomaly Detection", TypeAI),
		p("Oracle Code Assist", TypeAI),
		p("SuiteAnswers Virtual Support Assistant/NS Expert", TypeAI),
		p("SuiteScript GenAI API", TypeAI),
		p("Support - Standard", TypeSubscription),
		p("Support - Premium", TypeConnector),
	}},
	{"Infrastructure", []Product{
		p("Development Account", TypeSubscription),
		p("NetSuite AI Connector", TypeAI),
		p("NetSuite Next", TypeSubscription),
		p("New Instance", TypeSubscription),
		p("NSIP", TypeConnector),
		p("Oracle Content Management (Starter + Premium)", TypeModule),
		p("Prompt Studio", TypeAI),
		p("Sandbox", TypeSubscription),
		p("Sandbox POS", TypeSubscription),
		p("Salesforce Connector Sandbox", TypeModule),
		p("SuiteProjects Pro Sandbox", TypeModule),
		p("Analytics Warehouse Sandbox", TypeModule),
		p("SuiteCloud+", TypeConnector),
		p("SuiteProjects Pro BI Connector", TypeConnector),
		p("Suite Upgrade", TypeSubscription),
		p("Text Enhance", TypeAI),
		p("Tier Upgrade", TypeSubscription),
	}},
	{"Users", []Product{
		p("CRM Specialized Users", TypeUser),
		p("Customer Users", TypeUser),
		p("EPM Users", TypeUser),
		p("Employee Users", TypeUser),
		p(FullLicenceUsers, TypeUser),
		p("Partner Users", TypeUser),
		p("Project Management Specialized Users", TypeUser),
		p("Site Operator Specialized Users", TypeUser),
		p("View/Approve Users", TypeUser),
		p("Vendor Center Users", TypeUser),
		p("WMS Specialized Users", TypeUser),
	}},
}

type position struct {
	area  int
	index int
}

var (
	byName    = map[string]Product{}
	positions = map[string]position{}
	areaRank  = map[string]int{}
)

func init() {
	for ai, a := range library {
		areaRank[a.name] = ai
		for pi := range a.products {
			a.products[pi].ProcessArea = a.name
			prod := a.products[pi]
			byName[prod.Name] = prod
			positions[prod.Name] = position{area: ai, index: pi}
		}
	}
}

// ProcessAreas returns the process area names in library order.
func ProcessAreas() []string {
	out := make([]string, len(library))
	for i, a := range library {
		out[i] = a.name
	}
	return out
}

// Products returns the library products of one process area.
func Products(processArea string) []Product {
	rank, ok := areaRank[processArea]
	if !ok {
		return nil
	}
	return append([]Product(nil), library[rank].products...)
}

// Lookup finds a library product by its note-side name.
func Lookup(name string) (Product, bool) {
	prod, ok := byName[name]
	return prod, ok
}

// IsUserType reports whether name is a seat-counted user license.
func IsUserType(name string) bool {
	prod, ok := byName[name]
	return ok && prod.Type == TypeUser
}

// unknownRank places names outside the library after every known product.
const unknownRank = 999

// SortModules orders entries by process area in library order, then by their
// position within the area. The sort is stable so ties keep their input order.
func SortModules(modules []models.ProductEntry) []models.ProductEntry {
	out := append([]models.ProductEntry(nil), modules...)
	areaOf := func(m models.ProductEntry) int {
		if r, ok := areaRank[m.ProcessArea]; ok {
			return r
		}
		if pos, ok := positions[m.Name]; ok {
			return pos.area
		}
		return unknownRank
	}
	indexOf := func(m models.ProductEntry) int {
		if pos, ok := positions[m.Name]; ok {
			return pos.index
		}
		return unknownRank
	}
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := areaOf(out[i]), areaOf(out[j])
		if ai != aj {
			return ai < aj
		}
		return indexOf(out[i]) < indexOf(out[j])
	})
	return out
}
