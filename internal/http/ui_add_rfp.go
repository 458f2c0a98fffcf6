package httpx

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/target/rfp-console/internal/domain/model"
	"github.com/target/rfp-console/internal/http/validation"
)

// rfpForm carries the values echoed back into the create-RFP page.
type rfpForm struct {
	ItemName        string
	ItemDescription string
	RFPNo           string
	Quantity        string
	LastDate        string
	MinimumPrice    string
	MaximumPrice    string
	Categories      []string
	Vendors         []string
}

// HasCategory reports whether category id was ticked.
func (f rfpForm) HasCategory(id string) bool { return slices.Contains(f.Categories, id) }

// HasVendor reports whether vendor id was ticked.
func (f rfpForm) HasVendor(id string) bool { return slices.Contains(f.Vendors, id) }

func addRFPMeta() PageMeta {
	return PageMeta{Title: "Create RFP - RFP Console", PageTitle: "Create RFP", CurrentPage: PageAddRFP}
}

// AddRFPPage renders the category picker and RFP form.
// GET /add-rfp.
func (h *UIHandlers) AddRFPPage(w http.ResponseWriter, r *http.Request) {
	h.renderAddRFP(w, r, NewTemplateData(r, addRFPMeta()), rfpForm{})
}

func (h *UIHandlers) renderAddRFP(w http.ResponseWriter, r *http.Request, data *TemplateDataBuilder, form rfpForm) {
	sess := CurrentSession(r.Context())
	categories, err := h.RFPs.Categories(r.Context(), sess)
	if err != nil {
		msg, handled := h.handleFailure(w, r, err)
		if handled {
			return
		}
		h.logger().ErrorContext(r.Context(), "category list failed", "error", err)
		data.WithError(msg)
	}

	var vendors []model.Vendor
	if ids := parseIDs(form.Categories); len(ids) > 0 {
		vendors, err = h.RFPs.VendorsForCategories(r.Context(), sess, ids)
		if err != nil {
			msg, handled := h.handleFailure(w, r, err)
			if handled {
				return
			}
			h.logger().ErrorContext(r.Context(), "vendor lookup failed", "error", err)
			data.WithError(msg)
		}
	}

	data.With("Form", form).With("Categories", categories).With("Vendors", vendors)
	h.renderPage(w, r, data.Build(), 0)
}

// AddRFPVendors answers the category picker with the approved vendors for the ticked categories.
// POST /add-rfp/vendors.
func (h *UIHandlers) AddRFPVendors(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := rfpForm{Categories: r.PostForm["categories"], Vendors: r.PostForm["vendors"]}
	data := NewTemplateData(r, addRFPMeta()).With("Form", form)

	var vendors []model.Vendor
	if ids := parseIDs(form.Categories); len(ids) > 0 {
		var err error
		vendors, err = h.RFPs.VendorsForCategories(r.Context(), CurrentSession(r.Context()), ids)
		if err != nil {
			msg, handled := h.handleFailure(w, r, err)
			if handled {
				return
			}
			h.logger().ErrorContext(r.Context(), "vendor lookup failed", "error", err)
			HTMX(w).Notify(flashTypeError, msg)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.T.RenderFragment(w, fragmentVendorOptions, data.With("Vendors", vendors).Build()); err != nil {
		h.logAndRenderTemplateError(w, r, err, "vendor options fragment")
	}
}

// AddRFPSubmit validates and creates an RFP.
// POST /add-rfp.
func (h *UIHandlers) AddRFPSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := rfpForm{
		ItemName:        strings.TrimSpace(r.PostFormValue("item_name")),
		ItemDescription: strings.TrimSpace(r.PostFormValue("item_description")),
		RFPNo:           strings.TrimSpace(r.PostFormValue("rfp_no")),
		Quantity:        strings.TrimSpace(r.PostFormValue("quantity")),
		LastDate:        strings.TrimSpace(r.PostFormValue("last_date")),
		MinimumPrice:    strings.TrimSpace(r.PostFormValue("minimum_price")),
		MaximumPrice:    strings.TrimSpace(r.PostFormValue("maximum_price")),
		Categories:      r.PostForm["categories"],
		Vendors:         r.PostForm["vendors"],
	}

	in, fv := validateRFPForm(form)
	data := NewTemplateData(r, addRFPMeta())
	if !fv.Valid() {
		h.renderAddRFP(w, r, data.WithFieldErrors(fv.Errors()), form)
		return
	}

	release, ok := h.acquire(w, r, "rfp-create")
	if !ok {
		return
	}
	defer release()

	if err := h.RFPs.Create(r.Context(), CurrentSession(r.Context()), in); err != nil {
		msg, handled := h.handleFailure(w, r, err)
		if handled {
			return
		}
		h.logger().InfoContext(r.Context(), "rfp create failed", "rfp_no", in.RFPNo, "error", err)
		h.renderAddRFP(w, r, data.WithFieldErrors(fieldErrorsFrom(err)).WithError(msg), form)
		return
	}

	h.logger().InfoContext(r.Context(), "rfp created", "rfp_no", in.RFPNo)
	Redirect(w, r, withNotice("/rfp", "rfp-created"))
}

// validateRFPForm checks the form and converts it into a creation request.
func validateRFPForm(f rfpForm) (model.CreateRFPInput, *validation.FieldValidator) {
	fv := validation.New().
		Validate("item_name", f.ItemName, validation.Required("Item name")).
		Validate("rfp_no", f.RFPNo, validation.Required("RFP number")).
		Validate("item_description", f.ItemDescription, validation.Required("Item description")).
		Validate("quantity", f.Quantity, validation.Required("Quantity"),
			validation.PositiveNumber("Enter a valid quantity")).
		Validate("last_date", f.LastDate, validation.Required("Last date")).
		Validate("minimum_price", f.MinimumPrice, validation.Required("Minimum price"),
			validation.PositiveNumber("Enter a valid minimum price")).
		Validate("maximum_price", f.MaximumPrice, validation.Required("Maximum price"),
			validation.PositiveNumber("Enter a valid maximum price"))

	categories := parseIDs(f.Categories)
	if len(categories) == 0 {
		fv.Fail("categories", "Please select at least one category")
	}
	vendors := parseIDs(f.Vendors)
	if len(vendors) == 0 {
		fv.Fail("vendors", "Please select at least one vendor")
	}

	lastDate, ok := parseLastDate(f.LastDate)
	if f.LastDate != "" && !ok {
		fv.Fail("last_date", "Enter a valid date")
	}

	quantity, _ := strconv.Atoi(f.Quantity)
	minPrice, _ := strconv.ParseFloat(f.MinimumPrice, 64)
	maxPrice, _ := strconv.ParseFloat(f.MaximumPrice, 64)
	if minPrice > 0 && maxPrice > 0 && minPrice > maxPrice {
		fv.Fail("maximum_price", "Maximum price must be greater than minimum price")
	}

	return model.CreateRFPInput{
		ItemName:        f.ItemName,
		ItemDescription: f.ItemDescription,
		RFPNo:           f.RFPNo,
		Quantity:        quantity,
		LastDate:        lastDate,
		MinimumPrice:    minPrice,
		MaximumPrice:    maxPrice,
		Categories:      categories,
		Vendors:         vendors,
	}, fv
}

// parseLastDate accepts the date input's value, optionally with a time.
// A bare date means the end of that day.
func parseLastDate(raw string) (time.Time, bool) {
	for _, layout := range []string{model.LastDateLayout, "2006-01-02T15:04", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.Add(24*time.Hour - time.Second), true
	}
	return time.Time{}, false
}

// parseIDs keeps the positive integer ids in raw, in order, without duplicates.
func parseIDs(raw []string) []int64 {
	ids := make([]int64, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil || id <= 0 || slices.Contains(ids, id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
