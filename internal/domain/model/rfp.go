package model

import (
	"strings"
	"time"
)

// RFPStatus is the lifecycle state of an RFP as reported by the remote API.
type RFPStatus string

const (
	RFPStatusOpen   RFPStatus = "open"
	RFPStatusClosed RFPStatus = "closed"
)

// AppliedStatusApplied marks an RFP the current vendor already quoted on.
const AppliedStatusApplied = "applied"

// LastDateLayout is the wire format the API expects for RFP deadlines.
const LastDateLayout = "2006-01-02 15:04:05"

// RFP is a request for proposal as listed by /rfp/getrfp/{userId}.
// Listing endpoints differ on whether they name the id and status rfp_id/rfp_status or id/status.
type RFP struct {
	RFPID           FlexString `json:"rfp_id"`
	AltID           FlexString `json:"id"`
	ItemName        string     `json:"item_name"`
	ItemDescription string     `json:"item_description"`
	RFPNo           string     `json:"rfp_no"`
	Quantity        FlexInt    `json:"quantity"`
	LastDate        string     `json:"last_date"`
	MinimumPrice    FlexFloat  `json:"minimum_price"`
	MaximumPrice    FlexFloat  `json:"maximum_price"`
	RFPStatus       string     `json:"rfp_status"`
	Status          string     `json:"status"`
	AppliedStatus   string     `json:"applied_status"`
}

// Key returns the RFP identifier regardless of which field carried it.
func (r RFP) Key() string {
	if r.RFPID != "" {
		return r.RFPID.String()
	}
	return r.AltID.String()
}

// State returns the normalized RFP status.
func (r RFP) State() RFPStatus {
	s := r.RFPStatus
	if s == "" {
		s = r.Status
	}
	return RFPStatus(strings.ToLower(strings.TrimSpace(s)))
}

// IsOpen reports whether the RFP accepts quotes.
func (r RFP) IsOpen() bool { return r.State() == RFPStatusOpen }

// HasApplied reports whether the current vendor has already quoted.
func (r RFP) HasApplied() bool {
	return strings.EqualFold(strings.TrimSpace(r.AppliedStatus), AppliedStatusApplied)
}

// Deadline parses LastDate. The API emits either a full timestamp or a bare date.
func (r RFP) Deadline() (time.Time, bool) {
	raw := strings.TrimSpace(r.LastDate)
	for _, layout := range []string{LastDateLayout, "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CreateRFPInput carries a validated RFP creation request.
type CreateRFPInput struct {
	ItemName        string
	ItemDescription string
	RFPNo           string
	Quantity        int
	LastDate        time.Time
	MinimumPrice    float64
	MaximumPrice    float64
	Categories      []int64
	Vendors         []int64
}

// QuoteInput is a vendor's bid on an RFP. A zero TotalCost is derived from
// ItemPrice × the RFP quantity.
type QuoteInput struct {
	ItemPrice float64
	TotalCost float64
}

// Quote is a submitted vendor bid as listed by /rfp/quotes/{rfpId}.
type Quote struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Mobile    string    `json:"mobile"`
	ItemPrice FlexFloat `json:"item_price"`
	TotalCost FlexFloat `json:"total_cost"`
}
