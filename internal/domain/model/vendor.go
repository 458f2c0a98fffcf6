package model

import (
	"strings"
)

// VendorStatus is the onboarding state of a vendor.
type VendorStatus string

const (
	VendorStatusApproved VendorStatus = "approved"
	VendorStatusRejected VendorStatus = "rejected"
	VendorStatusPending  VendorStatus = "pending"
)

// ParseVendorStatus normalizes s and reports whether it is a known status.
func ParseVendorStatus(s string) (VendorStatus, bool) {
	switch v := VendorStatus(strings.ToLower(strings.TrimSpace(s))); v {
	case VendorStatusApproved, VendorStatusRejected, VendorStatusPending:
		return v, true
	default:
		return "", false
	}
}

// Vendor is a supplier account as listed by /vendorlist.
type Vendor struct {
	UserID        FlexInt    `json:"user_id"`
	FirstName     string     `json:"firstname"`
	FirstNameAlt  string     `json:"first_name"`
	LastName      string     `json:"lastname"`
	LastNameAlt   string     `json:"last_name"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Mobile        FlexString `json:"mobile"`
	NoOfEmployees FlexString `json:"no_of_employees"`
	Status        string     `json:"status"`
}

// State returns the lowercased vendor status; unknown values are returned as-is.
func (v Vendor) State() VendorStatus {
	return VendorStatus(strings.ToLower(strings.TrimSpace(v.Status)))
}

// IsApproved reports whether the vendor is approved.
func (v Vendor) IsApproved() bool { return v.State() == VendorStatusApproved }

// DisplayFirstName picks the first available first-name field.
func (v Vendor) DisplayFirstName() string {
	switch {
	case v.FirstName != "":
		return v.FirstName
	case v.FirstNameAlt != "":
		return v.FirstNameAlt
	case v.Name != "":
		first, _, _ := strings.Cut(strings.TrimSpace(v.Name), " ")
		return first
	default:
		return "N/A"
	}
}

// DisplayLastName picks the first available last-name field.
func (v Vendor) DisplayLastName() string {
	switch {
	case v.LastName != "":
		return v.LastName
	case v.LastNameAlt != "":
		return v.LastNameAlt
	case v.Name != "":
		_, rest, _ := strings.Cut(strings.TrimSpace(v.Name), " ")
		if rest == "" {
			return "N/A"
		}
		return strings.TrimSpace(rest)
	default:
		return "N/A"
	}
}

// RegisterVendorInput carries a validated vendor registration.
type RegisterVendorInput struct {
	FirstName     string
	LastName      string
	Email         string
	Password      string
	Revenue       string
	NoOfEmployees int
	Categories    []string
	PancardNo     string
	GSTNo         string
	Mobile        string
}

// Category is a procurement category vendors register under.
type Category struct {
	ID     FlexInt `json:"id"`
	Name   string  `json:"name"`
	Status string  `json:"status"`
}
