// ABOUTME: Derives the analyzer's view of a customer record
// ABOUTME: Names pass through the normalizer and allow-list, then de-duplicate first-seen
package analyzer

import (
	"strings"

	"github.com/harperreed/acctnotes/catalog"
	"github.com/harperreed/acctnotes/models"
)

// DefaultSolutionTitle labels a custom solution that has no purpose.
const DefaultSolutionTitle = "Custom Solution"

// Project builds the CUSTOMER_DATA payload for rec.
func Project(rec models.CustomerRecord) Projection {
	var licensed, opportunities []string
	seenLicensed := map[string]bool{}
	seenOpps := map[string]bool{}

	for _, m := range rec.Data.Modules {
		name := catalog.Normalize(m.Name)
		if !catalog.Recognized(name) {
			continue
		}
		switch m.Status {
		case models.StatusLicensed:
			if !seenLicensed[name] {
				seenLicensed[name] = true
				licensed = append(licensed, name)
			}
		case models.StatusOpportunity:
			if !seenOpps[name] {
				seenOpps[name] = true
				opportunities = append(opportunities, name)
			}
		}
	}

	solutions := []CustomSolution{}
	for _, tp := range rec.Data.ThirdParty {
		if strings.TrimSpace(tp.SolutionName) == "" {
			continue
		}
		name := tp.SolutionName
		if tp.ConnectorName != "" {
			name += " (" + tp.ConnectorName + ")"
		}
		title := tp.Purpose
		if title == "" {
			title = DefaultSolutionTitle
		}
		solutions = append(solutions, CustomSolution{
			Title:      title,
			Name:       name,
			Integrated: tp.ConnectedToNS == models.ConnectedIntegrated || tp.ConnectedToNS == models.ConnectedBoth,
			Manual:     tp.ConnectedToNS == models.ConnectedManual || tp.ConnectedToNS == models.ConnectedBoth,
		})
	}

	return Projection{
		CustomerName:    rec.Name,
		Edition:         rec.Data.General.Get(models.AttrBaseSKU),
		ServiceTier:     rec.Data.General.Get(models.AttrTier),
		Users:           UserCount(fullUsers(rec)),
		Licensed:        strings.Join(licensed, ", "),
		Opportunities:   strings.Join(opportunities, ", "),
		CustomSolutions: solutions,
		IsNonprofit:     strings.Contains(strings.ToLower(rec.Data.General.Get(models.AttrIndustry)), "nonprofit"),
	}
}

func fullUsers(rec models.CustomerRecord) int {
	for _, m := range rec.Data.Modules {
		if m.Name == catalog.FullLicenceUsers && m.Status == models.StatusLicensed {
			return m.Quantity
		}
	}
	return 0
}

// OpportunitySync lists every Opportunity entry in analyzer vocabulary.
func OpportunitySync(rec models.CustomerRecord) []Opportunity {
	out := []Opportunity{}
	seen := map[string]bool{}
	for _, m := range rec.Data.Modules {
		if m.Status != models.StatusOpportunity {
			continue
		}
		name := catalog.Normalize(m.Name)
		if !catalog.Recognized(name) || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, Opportunity{Name: name, ProcessArea: m.ProcessArea})
	}
	return out
}

// ThirdPartySync lists the record's third-party solutions as the analyzer expects them.
func ThirdPartySync(rec models.CustomerRecord) []OutboundSolution {
	out := make([]OutboundSolution, 0, len(rec.Data.ThirdParty))
	for _, tp := range rec.Data.ThirdParty {
		connected := tp.ConnectedToNS
		if connected == "" {
			connected = models.ConnectedUnknown
		}
		out = append(out, OutboundSolution{
			Purpose:       tp.Purpose,
			SolutionName:  tp.SolutionName,
			ConnectedToNS: connected,
			ConnectorName: tp.ConnectorName,
		})
	}
	return out
}
