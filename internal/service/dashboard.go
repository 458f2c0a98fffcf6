package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	domainauth "github.com/target/rfp-console/internal/domain/auth"
	"github.com/target/rfp-console/internal/domain/model"
)

// DashboardSummary holds the counters shown on the dashboard card.
type DashboardSummary struct {
	TotalRFPs       int
	OpenRFPs        int
	AppliedRFPs     int
	TotalVendors    int
	ApprovedVendors int
	PendingVendors  int
}

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	RFPs    *RFPService    // Required
	Vendors *VendorService // Required for admins
	Logger  *slog.Logger
}

// DashboardService aggregates counts across services.
type DashboardService struct {
	rfps    *RFPService
	vendors *VendorService
	logger  *slog.Logger
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	if opts.RFPs == nil {
		panic("service: DashboardService requires RFPs")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{rfps: opts.RFPs, vendors: opts.Vendors, logger: logger}
}

// Summary loads RFP and (for admins) vendor counts concurrently.
func (s *DashboardService) Summary(ctx context.Context, sess domainauth.Session) (DashboardSummary, error) {
	var (
		rfps    []model.RFP
		vendors []model.Vendor
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rfps, err = s.rfps.List(gctx, sess)
		return err
	})
	if sess.Role() == domainauth.RoleAdmin && s.vendors != nil {
		g.Go(func() error {
			var err error
			vendors, err = s.vendors.List(gctx, sess)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return DashboardSummary{}, err
	}

	sum := DashboardSummary{TotalRFPs: len(rfps), TotalVendors: len(vendors)}
	for _, r := range rfps {
		if r.IsOpen() {
			sum.OpenRFPs++
		}
		if r.HasApplied() {
			sum.AppliedRFPs++
		}
	}
	for _, v := range vendors {
		switch v.State() {
		case model.VendorStatusApproved:
			sum.ApprovedVendors++
		case model.VendorStatusPending:
			sum.PendingVendors++
		}
	}
	return sum, nil
}
