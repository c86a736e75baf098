// ABOUTME: Product and third-party edits on customer records
// ABOUTME: Keeps one module entry per name and validates user input with validator tags
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/harperreed/acctnotes/catalog"
	"github.com/harperreed/acctnotes/models"
)

var (
	ErrModuleNotFound     = errors.New("module not found")
	ErrNotPotential       = errors.New("module is not an analyzer opportunity")
	ErrThirdPartyNotFound = errors.New("third-party solution not found")
)

// ModuleChange is a user edit of one product entry. An empty Status removes the entry.
type ModuleChange struct {
	Name        string `validate:"required"`
	Status      string `validate:"omitempty,oneof=Licensed Opportunity Dropped Lost CAI Recommended"`
	ProcessArea string
	Quantity    int `validate:"gte=0"`
}

func newValidator() *validator.Validate {
	return validator.New()
}

// SetModuleStatus applies a user status edit to the entry keyed by name.
//
// Setting a status other than Opportunity on an analyzer opportunity turns it
// into a plain user entry. A user-type product entering Licensed or
// Opportunity without a quantity gets one seat.
func (s *Store) SetModuleStatus(ctx context.Context, id models.RecordID, change ModuleChange) (models.CustomerRecord, error) {
	change.Name = strings.TrimSpace(change.Name)
	if err := s.validate.Struct(change); err != nil {
		return models.CustomerRecord{}, fmt.Errorf("invalid module change: %w", err)
	}

	return s.Update(ctx, id, func(rec models.CustomerRecord) (models.CustomerRecord, error) {
		idx := rec.FindModule(change.Name)

		if change.Status == "" {
			if idx >= 0 {
				rec.Data.Modules = append(rec.Data.Modules[:idx:idx], rec.Data.Modules[idx+1:]...)
			}
			return rec, nil
		}

		var entry models.ProductEntry
		if idx >= 0 {
			entry = rec.Data.Modules[idx]
		} else {
			entry = models.ProductEntry{Name: change.Name}
		}

		if entry.Source == models.SourceAnalyzer && change.Status != models.StatusOpportunity {
			entry.Source = ""
		}
		entry.Status = change.Status

		switch {
		case change.ProcessArea != "":
			entry.ProcessArea = change.ProcessArea
		case entry.ProcessArea == "":
			if prod, ok := catalog.Lookup(change.Name); ok {
				entry.ProcessArea = prod.ProcessArea
			}
		}

		switch {
		case change.Quantity > 0:
			entry.Quantity = change.Quantity
		case entry.Quantity == 0 && catalog.IsUserType(change.Name) &&
			(change.Status == models.StatusLicensed || change.Status == models.StatusOpportunity):
			entry.Quantity = 1
		}

		if idx >= 0 {
			rec.Data.Modules[idx] = entry
		} else {
			rec.Data.Modules = append(rec.Data.Modules, entry)
		}
		return rec, nil
	})
}

// RemoveModule deletes the entry keyed by name.
func (s *Store) RemoveModule(ctx context.Context, id models.RecordID, name string) (models.CustomerRecord, error) {
	return s.Update(ctx, id, func(rec models.CustomerRecord) (models.CustomerRecord, error) {
		idx := rec.FindModule(name)
		if idx < 0 {
			return rec, ErrModuleNotFound
		}
		rec.Data.Modules = append(rec.Data.Modules[:idx:idx], rec.Data.Modules[idx+1:]...)
		return rec, nil
	})
}

// PromoteOpportunity turns an analyzer opportunity into a user-asserted one
// so later evaluation snapshots leave it alone.
func (s *Store) PromoteOpportunity(ctx context.Context, id models.RecordID, name string) (models.CustomerRecord, error) {
	return s.Update(ctx, id, func(rec models.CustomerRecord) (models.CustomerRecord, error) {
		idx := rec.FindModule(name)
		if idx < 0 {
			return rec, ErrModuleNotFound
		}
		if !rec.Data.Modules[idx].IsPotential() {
			return rec, ErrNotPotential
		}
		rec.Data.Modules[idx].Source = ""
		return rec, nil
	})
}

// ReorderModules sorts the module list into library order.
func (s *Store) ReorderModules(ctx context.Context, id models.RecordID) (models.CustomerRecord, error) {
	return s.Update(ctx, id, func(rec models.CustomerRecord) (models.CustomerRecord, error) {
		rec.Data.Modules = catalog.SortModules(rec.Data.Modules)
		return rec, nil
	})
}

// AddThirdParty appends a solution, or updates the one with the same
// (solutionName, purpose) identity.
func (s *Store) AddThirdParty(ctx context.Context, id models.RecordID, sol models.ThirdPartySolution) (models.CustomerRecord, error) {
	sol.SolutionName = strings.TrimSpace(sol.SolutionName)
	sol.Purpose = strings.TrimSpace(sol.Purpose)
	if err := s.validate.Struct(sol); err != nil {
		return models.CustomerRecord{}, fmt.Errorf("invalid third-party solution: %w", err)
	}

	return s.Update(ctx, id, func(rec models.CustomerRecord) (models.CustomerRecord, error) {
		for i, existing := range rec.Data.ThirdParty {
			if existing.SolutionName == sol.SolutionName && existing.Purpose == sol.Purpose {
				rec.Data.ThirdParty[i] = sol
				return rec, nil
			}
		}
		rec.Data.ThirdParty = append(rec.Data.ThirdParty, sol)
		return rec, nil
	})
}

// RemoveThirdParty deletes the solution with the given identity.
func (s *Store) RemoveThirdParty(ctx context.Context, id models.RecordID, solutionName, purpose string) (models.CustomerRecord, error) {
	return s.Update(ctx, id, func(rec models.CustomerRecord) (models.CustomerRecord, error) {
		for i, existing := range rec.Data.ThirdParty {
			if existing.SolutionName == solutionName && existing.Purpose == purpose {
				rec.Data.ThirdParty = append(rec.Data.ThirdParty[:i:i], rec.Data.ThirdParty[i+1:]...)
				return rec, nil
			}
		}
		return rec, ErrThirdPartyNotFound
	})
}
