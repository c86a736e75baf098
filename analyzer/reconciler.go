// ABOUTME: Folds inbound analyzer snapshots into a customer record
// ABOUTME: Third-party lists are fully replaced; only analyzer-tagged opportunities are replaced
package analyzer

import (
	"strings"
	"time"

	"github.com/harperreed/acctnotes/catalog"
	"github.com/harperreed/acctnotes/models"
)

// ApplyThirdPartySync replaces the record's third-party list with solutions.
// Entries matching an existing (solutionName, purpose) keep their local fields
// unless the analyzer sent a value for them. Blank names are ignored.
func ApplyThirdPartySync(rec models.CustomerRecord, solutions []InboundSolution, now time.Time) models.CustomerRecord {
	out := rec.Clone()
	next := make([]models.ThirdPartySolution, 0, len(solutions))

	for _, in := range solutions {
		if strings.TrimSpace(in.SolutionName) == "" {
			continue
		}

		merged := models.ThirdPartySolution{SolutionName: in.SolutionName, Purpose: in.Purpose}
		for _, existing := range rec.Data.ThirdParty {
			if existing.SolutionName == in.SolutionName && existing.Purpose == in.Purpose {
				merged = existing
				break
			}
		}
		if in.ConnectedToNS != nil {
			merged.ConnectedToNS = *in.ConnectedToNS
		}
		if in.ConnectorName != nil {
			merged.ConnectorName = *in.ConnectorName
		}
		next = append(next, merged)
	}

	out.Data.ThirdParty = next
	out.Touch(now)
	return out
}

// ApplyEvaluationSync replaces the analyzer-derived opportunities with evaluations.
// A candidate is skipped when any of its aliases is already Licensed or already
// an Opportunity, including candidates accepted earlier in the same snapshot.
func ApplyEvaluationSync(rec models.CustomerRecord, evaluations []Evaluation, now time.Time) models.CustomerRecord {
	out := rec.Clone()

	kept := make([]models.ProductEntry, 0, len(out.Data.Modules)+len(evaluations))
	for _, m := range out.Data.Modules {
		if !m.IsPotential() {
			kept = append(kept, m)
		}
	}

	for _, ev := range evaluations {
		name := strings.TrimSpace(ev.Name)
		if name == "" || represented(kept, name) {
			continue
		}
		kept = append(kept, models.ProductEntry{
			Name:        name,
			Status:      models.StatusOpportunity,
			ProcessArea: ev.ProcessArea,
			Source:      models.SourceAnalyzer,
		})
	}

	out.Data.Modules = kept
	out.Touch(now)
	return out
}

func represented(modules []models.ProductEntry, name string) bool {
	aliases := catalog.Denormalize(name)
	for _, m := range modules {
		if m.Status != models.StatusLicensed && m.Status != models.StatusOpportunity {
			continue
		}
		for _, a := range aliases {
			if m.Name == a {
				return true
			}
		}
	}
	return false
}
