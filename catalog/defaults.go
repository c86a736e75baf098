// ABOUTME: Products every new customer starts with
// ABOUTME: Used when creating and importing records
package catalog

import "github.com/harperreed/acctnotes/models"

var defaultModules = []models.ProductEntry{
	{Name: "CRM", Status: models.StatusLicensed, ProcessArea: "CRM + Marketing"},
	{Name: "Electronic Bank Payments", Status: models.StatusLicensed, ProcessArea: "Procurement"},
	{Name: "Financial Exception Management", Status: models.StatusLicensed, ProcessArea: "Accounting + Reconciliations"},
	{Name: "Intelligent Performance Management", Status: models.StatusLicensed, ProcessArea: "Planning Analysis + Reporting"},
	{Name: "SuiteAnalytics Assistant", Status: models.StatusLicensed, ProcessArea: "Analytics"},
	{Name: "Intelligent Item Recommendations", Status: models.StatusLicensed, ProcessArea: "Sales + eCommerce"},
	{Name: "Advisor", Status: models.StatusLicensed, ProcessArea: "Support"},
	{Name: "Insights", Status: models.StatusLicensed, ProcessArea: "Support"},
	{Name: "LCS Training On-Demand", Status: models.StatusLicensed, ProcessArea: "Support"},
	{Name: "OCI Anomaly Detection", Status: models.StatusLicensed, ProcessArea: "Support"},
	{Name: "Oracle Code Assist", Status: models.StatusLicensed, ProcessArea: "Support"},
	{Name: "SuiteAnswers Virtual Support Assistant/NS Expert", Status: models.StatusLicensed, ProcessArea: "Support"},
	{Name: "SuiteScript GenAI API", Status: models.StatusLicensed, ProcessArea: "Support"},
	{Name: "Support - Standard", Status: models.StatusLicensed, ProcessArea: "Support"},
	{Name: "Prompt Studio", Status: models.StatusLicensed, ProcessArea: "Infrastructure"},
	{Name: "Text Enhance", Status: models.StatusLicensed, ProcessArea: "Infrastructure"},
	{Name: "Employee Users", Status: models.StatusLicensed, ProcessArea: "Users", Quantity: 5},
	{Name: FullLicenceUsers, Status: models.StatusLicensed, ProcessArea: "Users", Quantity: 1},
}

// DefaultModules returns a fresh copy of the starter module list.
func DefaultModules() []models.ProductEntry {
	return append([]models.ProductEntry(nil), defaultModules...)
}
