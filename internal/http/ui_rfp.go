package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/target/rfp-console/internal/domain/model"
	apperrors "github.com/target/rfp-console/internal/errors"
	"github.com/target/rfp-console/internal/http/ui/viewmodel"
	"github.com/target/rfp-console/internal/http/validation"
)

// applyForm carries the values echoed back into the quote form.
type applyForm struct {
	ItemPrice string
	TotalCost string
}

func rfpMeta() PageMeta {
	return PageMeta{Title: "RFP - RFP Console", PageTitle: "RFP List", CurrentPage: PageRFP}
}

// RFPList renders the RFPs visible to the current user.
// GET /rfp.
func (h *UIHandlers) RFPList(w http.ResponseWriter, r *http.Request) {
	h.renderRFPList(w, r, NewTemplateData(r, rfpMeta()))
}

func (h *UIHandlers) renderRFPList(w http.ResponseWriter, r *http.Request, data *TemplateDataBuilder) {
	rfps, err := h.RFPs.List(r.Context(), CurrentSession(r.Context()))
	if err != nil {
		msg, handled := h.handleFailure(w, r, err)
		if handled {
			return
		}
		h.logger().ErrorContext(r.Context(), "rfp list failed", "error", err)
		data.WithError(msg)
	}

	pager := viewmodel.NewPagination(len(rfps), pageParam(r.URL.Query()), viewmodel.DefaultPageSize)
	data.WithPagination("/rfp", pager).With("RFPs", viewmodel.Slice(rfps, pager))
	h.renderPage(w, r, data.Build(), 0)
}

// CloseRFP closes an open RFP.
// POST /rfp/{id}/close.
func (h *UIHandlers) CloseRFP(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		h.NotFound(w, r)
		return
	}

	release, ok := h.acquire(w, r, "rfp-close")
	if !ok {
		return
	}
	defer release()

	if err := h.RFPs.Close(r.Context(), CurrentSession(r.Context()), id); err != nil {
		msg, handled := h.handleFailure(w, r, err)
		if handled {
			return
		}
		h.logger().InfoContext(r.Context(), "rfp close failed", "rfp_id", id, "error", err)
		h.renderRFPList(w, r, NewTemplateData(r, rfpMeta()).WithError(msg))
		return
	}

	h.logger().InfoContext(r.Context(), "rfp closed", "rfp_id", id)
	Redirect(w, r, withNotice(pageURL("/rfp", nil, pageParam(r.URL.Query())), "rfp-closed"))
}

// ApplyForm renders the quote form. htmx requests get the bare fragment.
// GET /rfp/{id}/apply.
func (h *UIHandlers) ApplyForm(w http.ResponseWriter, r *http.Request) {
	rfp, ok := h.loadRFP(w, r)
	if !ok {
		return
	}
	h.renderApply(w, r, rfp, applyForm{}, nil, "", 0)
}

// ApplySubmit validates the quoted price against the RFP's range and submits it.
// POST /rfp/{id}/apply.
func (h *UIHandlers) ApplySubmit(w http.ResponseWriter, r *http.Request) {
	rfp, ok := h.loadRFP(w, r)
	if !ok {
		return
	}

	form := applyForm{
		ItemPrice: strings.TrimSpace(r.PostFormValue("item_price")),
		TotalCost: strings.TrimSpace(r.PostFormValue("total_cost")),
	}
	fv := validation.New().Validate("item_price", form.ItemPrice,
		validation.PriceInRange(rfp.MinimumPrice.Float64(), rfp.MaximumPrice.Float64()))
	if form.TotalCost != "" {
		fv.Validate("total_cost", form.TotalCost, validation.PositiveNumber("Enter a valid total cost"))
	}
	if !rfp.IsOpen() || rfp.HasApplied() {
		fv.Fail("item_price", "This RFP is no longer accepting quotes")
	}
	if !fv.Valid() {
		h.renderApply(w, r, rfp, form, fv.Errors(), "", 0)
		return
	}

	release, ok := h.acquire(w, r, "rfp-apply")
	if !ok {
		return
	}
	defer release()

	price, _ := strconv.ParseFloat(form.ItemPrice, 64)
	total, _ := strconv.ParseFloat(form.TotalCost, 64)
	err := h.RFPs.Apply(r.Context(), CurrentSession(r.Context()), rfp.Key(), rfp.Quantity.Int64(),
		model.QuoteInput{ItemPrice: price, TotalCost: total})
	if err != nil {
		msg, handled := h.handleFailure(w, r, err)
		if handled {
			return
		}
		h.logger().InfoContext(r.Context(), "quote submission failed", "rfp_id", rfp.Key(), "error", err)
		h.renderApply(w, r, rfp, form, fieldErrorsFrom(err), msg, 0)
		return
	}

	h.logger().InfoContext(r.Context(), "quote submitted", "rfp_id", rfp.Key())
	Redirect(w, r, withNotice("/rfp", "quote-submitted"))
}

// loadRFP resolves the {id} path value. It writes the response itself when it returns false.
func (h *UIHandlers) loadRFP(w http.ResponseWriter, r *http.Request) (model.RFP, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		h.NotFound(w, r)
		return model.RFP{}, false
	}
	rfp, err := h.RFPs.Get(r.Context(), CurrentSession(r.Context()), id)
	if err == nil {
		return rfp, true
	}
	if apperrors.IsNotFound(err) {
		h.NotFound(w, r)
		return model.RFP{}, false
	}
	msg, handled := h.handleFailure(w, r, err)
	if handled {
		return model.RFP{}, false
	}
	h.logger().ErrorContext(r.Context(), "rfp lookup failed", "rfp_id", id, "error", err)
	h.renderRFPList(w, r, NewTemplateData(r, rfpMeta()).WithError(msg))
	return model.RFP{}, false
}

func (h *UIHandlers) renderApply(w http.ResponseWriter, r *http.Request, rfp model.RFP, form applyForm,
	errs map[string]string, errMsg string, status int,
) {
	data := NewTemplateData(r, PageMeta{
		Title:       "Apply - RFP Console",
		PageTitle:   "Submit Quote",
		CurrentPage: PageRFPApply,
	}).With("RFP", rfp).With("Form", form)
	if len(errs) > 0 {
		data.WithFieldErrors(errs)
	}
	if errMsg != "" {
		data.WithError(errMsg)
	}

	if !WantsPartial(r) {
		h.renderPage(w, r, data.Build(), status)
		return
	}
	if err := h.T.RenderFragment(w, fragmentApplyForm, data.Build()); err != nil {
		h.logAndRenderTemplateError(w, r, err, "apply form fragment")
	}
}

// Quotes lists the quotes submitted against an RFP.
// GET /rfp-quotes/{id}.
func (h *UIHandlers) Quotes(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		h.NotFound(w, r)
		return
	}
	data := NewTemplateData(r, PageMeta{
		Title:       "Quotes - RFP Console",
		PageTitle:   "RFP Quotes",
		CurrentPage: PageQuotes,
	}).With("RFPID", id)

	quotes, err := h.RFPs.Quotes(r.Context(), CurrentSession(r.Context()), id)
	if err != nil {
		msg, handled := h.handleFailure(w, r, err)
		if handled {
			return
		}
		h.logger().ErrorContext(r.Context(), "quote list failed", "rfp_id", id, "error", err)
		data.WithError(msg)
	}

	// The heading is best effort; a missing RFP still shows its quotes.
	if rfp, gerr := h.RFPs.Get(r.Context(), CurrentSession(r.Context()), id); gerr == nil {
		data.With("RFP", rfp)
	}

	h.renderPage(w, r, data.With("Quotes", quotes).Build(), 0)
}
