package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/target/rfp-console/internal/apiclient"
	domainauth "github.com/target/rfp-console/internal/domain/auth"
	"github.com/target/rfp-console/internal/domain/model"
	apperrors "github.com/target/rfp-console/internal/errors"
	"github.com/target/rfp-console/internal/ports"
)

const (
	// categoriesExpr flattens the id-keyed categories object; arrays pass through and
	// anything else becomes an empty list.
	categoriesExpr = "(type(categories) == 'object' && values(categories)) || (type(categories) == 'array' && categories) || `[]`"

	noVendorsMapped    = "No vendors mapped"
	noQuotesAvailable  = "No quotes available"
	maxCategoryFanOut  = 8
	rfpNotFoundMessage = "RFP not found"
)

// RFPServiceOptions groups dependencies for RFPService.
type RFPServiceOptions struct {
	Gateway ports.Gateway // Required
	Logger  *slog.Logger
}

// RFPService wraps the RFP, category and quote endpoints.
type RFPService struct {
	gw     ports.Gateway
	logger *slog.Logger
}

// NewRFPService constructs a new RFPService.
func NewRFPService(opts RFPServiceOptions) *RFPService {
	if opts.Gateway == nil {
		panic("service: RFPService requires Gateway")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RFPService{gw: opts.Gateway, logger: logger.With("component", "rfp_service")}
}

// List returns the RFPs visible to the session's profile.
func (s *RFPService) List(ctx context.Context, sess domainauth.Session) ([]model.RFP, error) {
	if sess.Profile == nil || sess.Profile.ID == "" {
		if !sess.IsAuthenticated() {
			return nil, apiclient.Unauthenticated()
		}
		return nil, apperrors.Validation("User ID is required")
	}

	resp, err := call(ctx, s.gw, sess, apiclient.Request{
		Op:   "rfp.list",
		Path: "/rfp/getrfp/" + url.PathEscape(sess.Profile.ID),
	})
	if err != nil {
		return nil, err
	}

	var rfps []model.RFP
	if err := searchInto(resp, "rfps", &rfps); err != nil {
		return nil, err
	}
	return rfps, nil
}

// Get finds a single RFP by id among those visible to the session.
func (s *RFPService) Get(ctx context.Context, sess domainauth.Session, id string) (model.RFP, error) {
	rfps, err := s.List(ctx, sess)
	if err != nil {
		return model.RFP{}, err
	}
	for _, r := range rfps {
		if r.Key() == id {
			return r, nil
		}
	}
	return model.RFP{}, apperrors.NotFound(rfpNotFoundMessage)
}

// Close marks an RFP closed.
func (s *RFPService) Close(ctx context.Context, sess domainauth.Session, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.Validation("RFP ID is required")
	}
	_, err := call(ctx, s.gw, sess, apiclient.Request{
		Op:     "rfp.close",
		Method: http.MethodPut,
		Path:   "/rfp/closerfp/" + url.PathEscape(id),
		Body:   map[string]any{},
	})
	return err
}

// Categories returns all categories ordered by id.
func (s *RFPService) Categories(ctx context.Context, sess domainauth.Session) ([]model.Category, error) {
	resp, err := call(ctx, s.gw, sess, apiclient.Request{Op: "rfp.categories", Path: "/categories"})
	if err != nil {
		return nil, err
	}
	return decodeCategories(resp)
}

func decodeCategories(resp *apiclient.Response) ([]model.Category, error) {
	var cats []model.Category
	if err := searchInto(resp, categoriesExpr, &cats); err != nil {
		return nil, err
	}
	out := cats[:0]
	for _, c := range cats {
		if c.ID.Int64() > 0 {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// VendorsByCategory returns the approved vendors mapped to a category.
func (s *RFPService) VendorsByCategory(ctx context.Context, sess domainauth.Session, categoryID int64) ([]model.Vendor, error) {
	if categoryID <= 0 {
		return nil, apperrors.Validation("Category ID is required")
	}

	resp, err := call(ctx, s.gw, sess, apiclient.Request{
		Op:   "rfp.vendors_by_category",
		Path: fmt.Sprintf("/vendorlist/%d", categoryID),
	})
	if isEmptyResult(err, resp, noVendorsMapped) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var vendors []model.Vendor
	if err := searchInto(resp, "vendors", &vendors); err != nil {
		return nil, err
	}
	approved := make([]model.Vendor, 0, len(vendors))
	for _, v := range vendors {
		if v.IsApproved() {
			approved = append(approved, v)
		}
	}
	return approved, nil
}

// VendorsForCategories fetches approved vendors for every category concurrently and
// merges them, de-duplicated by user id, in category order. The first failure cancels
// the remaining requests.
func (s *RFPService) VendorsForCategories(ctx context.Context, sess domainauth.Session, categoryIDs []int64) ([]model.Vendor, error) {
	results := make([][]model.Vendor, len(categoryIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxCategoryFanOut)
	for i, id := range categoryIDs {
		g.Go(func() error {
			vendors, err := s.VendorsByCategory(gctx, sess, id)
			if err != nil {
				return fmt.Errorf("vendors for category %d: %w", id, err)
			}
			results[i] = vendors
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{})
	var merged []model.Vendor
	for _, vendors := range results {
		for _, v := range vendors {
			if _, dup := seen[v.UserID.Int64()]; dup {
				continue
			}
			seen[v.UserID.Int64()] = struct{}{}
			merged = append(merged, v)
		}
	}
	return merged, nil
}

// Create submits a new RFP.
func (s *RFPService) Create(ctx context.Context, sess domainauth.Session, in model.CreateRFPInput) error {
	if err := validateCreateRFP(in); err != nil {
		return err
	}
	_, err := call(ctx, s.gw, sess, apiclient.Request{
		Op:     "rfp.create",
		Method: http.MethodPost,
		Path:   "/createrfp",
		Body: map[string]any{
			"item_name":        strings.TrimSpace(in.ItemName),
			"item_description": strings.TrimSpace(in.ItemDescription),
			"rfp_no":           strings.TrimSpace(in.RFPNo),
			"quantity":         in.Quantity,
			"last_date":        in.LastDate.Format(model.LastDateLayout),
			"minimum_price":    in.MinimumPrice,
			"maximum_price":    in.MaximumPrice,
			"categories":       joinIDs(in.Categories),
			"vendors":          joinIDs(in.Vendors),
		},
	})
	return err
}

func validateCreateRFP(in model.CreateRFPInput) error {
	var missing []string
	check := func(field string, ok bool) {
		if !ok {
			missing = append(missing, field)
		}
	}
	check("item_name", strings.TrimSpace(in.ItemName) != "")
	check("rfp_no", strings.TrimSpace(in.RFPNo) != "")
	check("quantity", in.Quantity > 0)
	check("last_date", !in.LastDate.IsZero())
	check("minimum_price", in.MinimumPrice > 0)
	check("maximum_price", in.MaximumPrice > 0)
	check("categories", len(in.Categories) > 0)
	check("vendors", len(in.Vendors) > 0)
	check("item_description", strings.TrimSpace(in.ItemDescription) != "")
	if len(missing) > 0 {
		return apperrors.Validationf("Missing required fields: %s", strings.Join(missing, ", "))
	}
	if in.MinimumPrice > in.MaximumPrice {
		return apperrors.ValidationField("maximum_price", "Maximum price must be greater than minimum price")
	}
	return nil
}

// Apply submits a vendor quote. A zero TotalCost is computed as ItemPrice × quantity.
func (s *RFPService) Apply(ctx context.Context, sess domainauth.Session, rfpID string, quantity int64, in model.QuoteInput) error {
	if strings.TrimSpace(rfpID) == "" {
		return apperrors.Validation("RFP ID is required")
	}
	if in.ItemPrice <= 0 {
		return apperrors.ValidationField("item_price", "Quote price is required")
	}
	total := in.TotalCost
	if total <= 0 {
		total = in.ItemPrice * float64(max(quantity, 1))
	}

	_, err := call(ctx, s.gw, sess, apiclient.Request{
		Op:     "rfp.apply",
		Method: http.MethodPut,
		Path:   "/rfp/apply/" + url.PathEscape(rfpID),
		Body:   map[string]float64{"item_price": in.ItemPrice, "total_cost": total},
	})
	return err
}

// Quotes lists the quotes submitted for an RFP.
func (s *RFPService) Quotes(ctx context.Context, sess domainauth.Session, rfpID string) ([]model.Quote, error) {
	if strings.TrimSpace(rfpID) == "" {
		return nil, apperrors.Validation("RFP ID is required")
	}
	resp, err := call(ctx, s.gw, sess, apiclient.Request{
		Op:   "rfp.quotes",
		Path: "/rfp/quotes/" + url.PathEscape(rfpID),
	})
	if isEmptyResult(err, resp, noQuotesAvailable) {
		return []model.Quote{}, nil
	}
	if err != nil {
		return nil, err
	}

	quotes := []model.Quote{}
	if err := searchInto(resp, "quotes", &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}
