package service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/target/rfp-console/internal/apiclient"
	domainauth "github.com/target/rfp-console/internal/domain/auth"
	"github.com/target/rfp-console/internal/domain/model"
	apperrors "github.com/target/rfp-console/internal/errors"
	"github.com/target/rfp-console/internal/ports"
)

// DefaultRegistrationCategories is offered on the registration form when the API is unreachable.
var DefaultRegistrationCategories = []model.Category{
	{ID: 1, Name: "Software", Status: "Active"},
	{ID: 2, Name: "Hardware", Status: "Active"},
	{ID: 3, Name: "Office Furniture", Status: "Active"},
	{ID: 4, Name: "Stationery", Status: "Active"},
}

// VendorServiceOptions groups dependencies for VendorService.
type VendorServiceOptions struct {
	Gateway ports.Gateway // Required
	Logger  *slog.Logger
}

// VendorService wraps vendor listing and approval.
type VendorService struct {
	gw     ports.Gateway
	logger *slog.Logger
}

// NewVendorService constructs a new VendorService.
func NewVendorService(opts VendorServiceOptions) *VendorService {
	if opts.Gateway == nil {
		panic("service: VendorService requires Gateway")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &VendorService{gw: opts.Gateway, logger: logger.With("component", "vendor_service")}
}

// List returns every registered vendor.
func (s *VendorService) List(ctx context.Context, sess domainauth.Session) ([]model.Vendor, error) {
	resp, err := call(ctx, s.gw, sess, apiclient.Request{Op: "vendor.list", Path: "/vendorlist"})
	if err != nil {
		return nil, err
	}
	var vendors []model.Vendor
	if err := searchInto(resp, "vendors", &vendors); err != nil {
		return nil, err
	}
	return vendors, nil
}

// UpdateStatus moves a vendor to status. Approved vendors are final.
func (s *VendorService) UpdateStatus(ctx context.Context, sess domainauth.Session, userID int64, status string) error {
	if !sess.IsAuthenticated() {
		return apiclient.Unauthenticated()
	}
	if userID <= 0 {
		return apperrors.Validation("Vendor ID is required")
	}
	next, ok := model.ParseVendorStatus(status)
	if !ok {
		return apperrors.Validation("Invalid status value")
	}

	vendors, err := s.List(ctx, sess)
	if err != nil {
		return err
	}
	for _, v := range vendors {
		if v.UserID.Int64() == userID && v.IsApproved() {
			return apperrors.Conflict("Cannot change status: Vendor is already approved")
		}
	}

	_, err = call(ctx, s.gw, sess, apiclient.Request{
		Op:     "vendor.update_status",
		Method: http.MethodPut,
		Path:   "/approveVendor",
		Body:   map[string]any{"user_id": userID, "status": string(next)},
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "vendor status updated", "user_id", userID, "status", next)
	return nil
}

// RegistrationCategories lists categories for the public registration form. It never
// fails: any API error falls back to DefaultRegistrationCategories.
func (s *VendorService) RegistrationCategories(ctx context.Context) []model.Category {
	resp, err := s.gw.Do(ctx, apiclient.Request{Op: "vendor.categories", Path: "/categories"})
	if err != nil {
		s.logger.WarnContext(ctx, "registration categories unavailable, using defaults", "error", err)
		return defaultCategories()
	}
	cats, err := decodeCategories(resp)
	if err != nil || len(cats) == 0 {
		return defaultCategories()
	}
	return cats
}

func defaultCategories() []model.Category {
	return append([]model.Category(nil), DefaultRegistrationCategories...)
}
