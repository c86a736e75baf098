// ABOUTME: Data models for customer account notes
// ABOUTME: Defines CustomerRecord, ProductEntry, ThirdPartySolution and their status constants
package models

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the layout of CustomerRecord.LastEdited.
const DateLayout = "2006-01-02"

type CustomerRecord struct {
	ID         RecordID     `json:"id"`
	Name       string       `json:"name"`
	LastEdited string       `json:"lastEdited"`
	Data       CustomerData `json:"data"`
}

type CustomerData struct {
	Overview   Overview             `json:"overview"`
	General    Attributes           `json:"general"`
	Modules    []ProductEntry       `json:"modules"`
	ThirdParty []ThirdPartySolution `json:"thirdParty"`
	Meetings   []Meeting            `json:"meetings,omitempty"`
	Contacts   []Contact            `json:"contacts,omitempty"`
	Links      Links                `json:"links"`
}

type Overview struct {
	CustomerName string `json:"customerName,omitempty"`
	GeneralNotes string `json:"generalNotes,omitempty"`
}

type ProductEntry struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	ProcessArea string `json:"processArea,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`
	Source      string `json:"source,omitempty"`
}

type ThirdPartySolution struct {
	SolutionName  string `json:"solutionName" validate:"required"`
	Purpose       string `json:"purpose"`
	ConnectedToNS string `json:"connectedToNS,omitempty" validate:"omitempty,oneof=integrated manual both disconnected unknown"`
	ConnectorName string `json:"connectorName,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

type Meeting struct {
	Date                string `json:"date,omitempty"`
	Attendees           string `json:"attendees,omitempty"`
	Notes               string `json:"notes,omitempty"`
	AccountManagerName  string `json:"accountManagerName,omitempty"`
	TaskUpdateSC        string `json:"taskUpdateSC,omitempty"`
	TaskConfirmOpps     string `json:"taskConfirmOpps,omitempty"`
	TaskUploadDiscovery string `json:"taskUploadDiscovery,omitempty"`
	TaskLastTellEmail   string `json:"taskLastTellEmail,omitempty"`
	TaskFollowUps       string `json:"taskFollowUps,omitempty"`
}

type Contact struct {
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type Links struct {
	NSRecord   string `json:"nsRecord,omitempty"`
	Website    string `json:"website,omitempty"`
	LinkedIn   string `json:"linkedIn,omitempty"`
	Additional []Link `json:"additional,omitempty"`
}

type Link struct {
	Label string `json:"label,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Product statuses.
const (
	StatusLicensed    = "Licensed"
	StatusOpportunity = "Opportunity"
	StatusDropped     = "Dropped"
	StatusLost        = "Lost"
	StatusCAI         = "CAI"
	StatusRecommended = "Recommended"
)

// SourceAnalyzer tags an Opportunity inserted by the reconciler.
const SourceAnalyzer = "analyzer"

// Third-party connection states.
const (
	ConnectedIntegrated   = "integrated"
	ConnectedManual       = "manual"
	ConnectedBoth         = "both"
	ConnectedDisconnected = "disconnected"
	ConnectedUnknown      = "unknown"
)

// Task statuses used by meeting follow-ups.
const (
	TaskNotStarted = "Not Started"
	TaskInProgress = "In Progress"
	TaskComplete   = "Complete"
)

// General attribute keys.
const (
	AttrIndustry       = "industry"
	AttrBaseSKU        = "baseSKU"
	AttrTier           = "tier"
	AttrAnnualBudget   = "annualBudget"
	AttrEmployees      = "employees"
	AttrCustomerNumber = "customerNumber"
	AttrAcquisition    = "acquisition"
	AttrARR            = "arr"
	AttrSubs           = "subs"
	AttrCC             = "cc"
)

// ValidStatus reports whether status is one of the product statuses.
func ValidStatus(status string) bool {
	switch status {
	case StatusLicensed, StatusOpportunity, StatusDropped, StatusLost, StatusCAI, StatusRecommended:
		return true
	}
	return false
}

// IsPotential reports whether the entry is a system-derived opportunity.
func (p ProductEntry) IsPotential() bool {
	return p.Status == StatusOpportunity && p.Source == SourceAnalyzer
}

// NewCustomerRecord creates an empty record with a fresh id.
func NewCustomerRecord(name string, now time.Time) CustomerRecord {
	return CustomerRecord{
		ID:         RecordID(uuid.New().String()),
		Name:       name,
		LastEdited: now.Format(DateLayout),
		Data: CustomerData{
			Overview:   Overview{CustomerName: name},
			General:    Attributes{},
			Modules:    []ProductEntry{},
			ThirdParty: []ThirdPartySolution{},
		},
	}
}

// Touch stamps LastEdited with the date of now.
func (c *CustomerRecord) Touch(now time.Time) {
	c.LastEdited = now.Format(DateLayout)
}

// Clone returns a deep copy so callers never share slices with published state.
func (c CustomerRecord) Clone() CustomerRecord {
	out := c
	out.Data.General = c.Data.General.Clone()
	out.Data.Modules = append([]ProductEntry(nil), c.Data.Modules...)
	out.Data.ThirdParty = append([]ThirdPartySolution(nil), c.Data.ThirdParty...)
	out.Data.Meetings = append([]Meeting(nil), c.Data.Meetings...)
	out.Data.Contacts = append([]Contact(nil), c.Data.Contacts...)
	out.Data.Links.Additional = append([]Link(nil), c.Data.Links.Additional...)
	if out.Data.Modules == nil {
		out.Data.Modules = []ProductEntry{}
	}
	if out.Data.ThirdParty == nil {
		out.Data.ThirdParty = []ThirdPartySolution{}
	}
	return out
}

// FindModule returns the index of the first entry with the given name, or -1.
func (c CustomerRecord) FindModule(name string) int {
	for i, m := range c.Data.Modules {
		if m.Name == name {
			return i
		}
	}
	return -1
}
