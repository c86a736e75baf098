// ABOUTME: Wire format of messages exchanged with the license analyzer
// ABOUTME: Decodes inbound updates leniently and defines the outbound message shapes
package analyzer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Inbound message types.
const (
	TypeThirdPartyUpdate = "THIRD_PARTY_UPDATE"
	TypeEvaluationUpdate = "EVALUATION_UPDATE"
)

// Outbound message types.
const (
	TypeCustomerData     = "CUSTOMER_DATA"
	TypeOpportunitiesOut = "OPPORTUNITIES_SYNC_FROM_NOTES"
	TypeThirdPartyOut    = "THIRD_PARTY_SYNC_FROM_NOTES"
)

var (
	ErrMalformedMessage = errors.New("malformed analyzer message")
	ErrUnknownMessage   = errors.New("unknown analyzer message type")
)

// InboundSolution is one entry of a THIRD_PARTY_UPDATE.
// Nil pointers mean the analyzer did not send the field.
type InboundSolution struct {
	SolutionName  string  `json:"solutionName"`
	Purpose       string  `json:"purpose"`
	ConnectedToNS *string `json:"connectedToNS,omitempty"`
	ConnectorName *string `json:"connectorName,omitempty"`
}

// Evaluation is one candidate opportunity of an EVALUATION_UPDATE.
type Evaluation struct {
	Name        string `json:"name"`
	ProcessArea string `json:"processArea"`
}

// Inbound is a decoded analyzer message.
type Inbound struct {
	Type        string
	Seq         *uint64
	Solutions   []InboundSolution
	Evaluations []Evaluation
	// Skipped counts array entries that did not decode and were dropped.
	Skipped int
}

type rawInbound struct {
	Type            string             `json:"type"`
	Seq             *uint64            `json:"seq,omitempty"`
	CustomSolutions *[]json.RawMessage `json:"customSolutions"`
	Evaluations     *[]json.RawMessage `json:"evaluations"`
}

// DecodeInbound parses one inbound message. A message of a known type
// without its array field is malformed. Entries inside the array that are
// not objects of the expected shape are dropped and counted in Skipped.
func DecodeInbound(data []byte) (Inbound, error) {
	var raw rawInbound
	if err := json.Unmarshal(data, &raw); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	msg := Inbound{Type: raw.Type, Seq: raw.Seq}
	switch raw.Type {
	case TypeThirdPartyUpdate:
		if raw.CustomSolutions == nil {
			return msg, fmt.Errorf("%w: %s without customSolutions", ErrMalformedMessage, raw.Type)
		}
		msg.Solutions, msg.Skipped = decodeEntries[InboundSolution](*raw.CustomSolutions)
	case TypeEvaluationUpdate:
		if raw.Evaluations == nil {
			return msg, fmt.Errorf("%w: %s without evaluations", ErrMalformedMessage, raw.Type)
		}
		msg.Evaluations, msg.Skipped = decodeEntries[Evaluation](*raw.Evaluations)
	case "":
		return msg, fmt.Errorf("%w: missing type", ErrMalformedMessage)
	default:
		return msg, fmt.Errorf("%w: %s", ErrUnknownMessage, raw.Type)
	}
	return msg, nil
}

func decodeEntries[T any](items []json.RawMessage) ([]T, int) {
	out := make([]T, 0, len(items))
	skipped := 0
	for _, item := range items {
		if !isObject(item) {
			skipped++
			continue
		}
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			skipped++
			continue
		}
		out = append(out, v)
	}
	return out, skipped
}

func isObject(item json.RawMessage) bool {
	trimmed := bytes.TrimSpace(item)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// UserCount encodes as the JSON number when set and as "" when absent.
type UserCount int

// MarshalJSON implements json.Marshaler.
func (u UserCount) MarshalJSON() ([]byte, error) {
	if u <= 0 {
		return []byte(`""`), nil
	}
	return json.Marshal(int(u))
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *UserCount) UnmarshalJSON(data []byte) error {
	if string(data) == `""` || string(data) == "null" {
		*u = 0
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*u = UserCount(n)
	return nil
}

// CustomSolution is the analyzer's view of a third-party solution.
type CustomSolution struct {
	Title      string `json:"title"`
	Name       string `json:"name"`
	Integrated bool   `json:"integrated"`
	Manual     bool   `json:"manual"`
}

// Projection is the analyzer input derived from a customer record.
type Projection struct {
	CustomerName    string           `json:"customerName"`
	Edition         string           `json:"edition"`
	ServiceTier     string           `json:"serviceTier"`
	Users           UserCount        `json:"users"`
	Licensed        string           `json:"licensed"`
	Opportunities   string           `json:"opportunities"`
	CustomSolutions []CustomSolution `json:"customSolutions"`
	IsNonprofit     bool             `json:"isNonprofit"`
}

// CustomerDataMessage is sent once when the analyzer opens.
type CustomerDataMessage struct {
	Type string `json:"type"`
	Projection
}

// Opportunity is one outbound opportunity row.
type Opportunity struct {
	Name        string `json:"name"`
	ProcessArea string `json:"processArea"`
}

// OpportunitiesMessage carries the record's opportunity list.
type OpportunitiesMessage struct {
	Type          string        `json:"type"`
	Opportunities []Opportunity `json:"opportunities"`
}

// OutboundSolution is one outbound third-party row.
type OutboundSolution struct {
	Purpose       string `json:"purpose"`
	SolutionName  string `json:"solutionName"`
	ConnectedToNS string `json:"connectedToNS"`
	ConnectorName string `json:"connectorName"`
}

// ThirdPartyMessage carries the record's third-party list.
type ThirdPartyMessage struct {
	Type      string             `json:"type"`
	Solutions []OutboundSolution `json:"solutions"`
}
