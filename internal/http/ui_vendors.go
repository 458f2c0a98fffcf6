package httpx

import (
	"net/http"
	"strconv"

	"github.com/target/rfp-console/internal/domain/model"
	"github.com/target/rfp-console/internal/http/ui/viewmodel"
	"github.com/target/rfp-console/internal/http/validation"
)

//nolint:gochecknoglobals // static read-only lookup
var vendorStatuses = []string{
	string(model.VendorStatusApproved),
	string(model.VendorStatusRejected),
	string(model.VendorStatusPending),
}

func vendorsMeta() PageMeta {
	return PageMeta{Title: "Vendors - RFP Console", PageTitle: "Vendors", CurrentPage: PageVendors}
}

// VendorsPage renders the paginated vendor table.
// GET /vendors.
func (h *UIHandlers) VendorsPage(w http.ResponseWriter, r *http.Request) {
	h.renderVendors(w, r, NewTemplateData(r, vendorsMeta()))
}

func (h *UIHandlers) renderVendors(w http.ResponseWriter, r *http.Request, data *TemplateDataBuilder) {
	vendors, err := h.Vendors.List(r.Context(), CurrentSession(r.Context()))
	if err != nil {
		msg, handled := h.handleFailure(w, r, err)
		if handled {
			return
		}
		h.logger().ErrorContext(r.Context(), "vendor list failed", "error", err)
		data.WithError(msg)
	}

	pager := viewmodel.NewPagination(len(vendors), pageParam(r.URL.Query()), viewmodel.DefaultPageSize)
	data.WithPagination("/vendors", pager).
		With("Vendors", viewmodel.Slice(vendors, pager)).
		With("Statuses", vendorStatuses)
	h.renderPage(w, r, data.Build(), 0)
}

// UpdateVendorStatus approves, rejects or resets a vendor.
// POST /vendors/{id}/status.
func (h *UIHandlers) UpdateVendorStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || userID <= 0 {
		h.NotFound(w, r)
		return
	}
	status := r.PostFormValue("status")
	if msg := validation.OneOf("Status", vendorStatuses)(status); msg != "" {
		h.renderVendors(w, r, NewTemplateData(r, vendorsMeta()).WithError(msg))
		return
	}

	release, ok := h.acquire(w, r, "vendor-status")
	if !ok {
		return
	}
	defer release()

	if err := h.Vendors.UpdateStatus(r.Context(), CurrentSession(r.Context()), userID, status); err != nil {
		msg, handled := h.handleFailure(w, r, err)
		if handled {
			return
		}
		h.logger().InfoContext(r.Context(), "vendor status update failed", "user_id", userID, "error", err)
		h.renderVendors(w, r, NewTemplateData(r, vendorsMeta()).WithError(msg))
		return
	}

	h.logger().InfoContext(r.Context(), "vendor status updated", "user_id", userID, "status", status)
	Redirect(w, r, withNotice(pageURL("/vendors", nil, pageParam(r.URL.Query())), "vendor-updated"))
}
