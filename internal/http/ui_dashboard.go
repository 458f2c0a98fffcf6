package httpx

import (
	"net/http"

	"github.com/target/rfp-console/internal/service"
)

// DashboardPage renders the welcome card and counters.
// GET /dashboard.
func (h *UIHandlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{
		Title:       "Dashboard - RFP Console",
		PageTitle:   "Dashboard",
		CurrentPage: PageDashboard,
	})

	summary, err := h.Dashboard.Summary(r.Context(), CurrentSession(r.Context()))
	if err != nil {
		msg, handled := h.handleFailure(w, r, err)
		if handled {
			return
		}
		h.logger().ErrorContext(r.Context(), "dashboard summary failed", "error", err)
		data.WithError(msg)
		summary = service.DashboardSummary{}
	}

	h.renderPage(w, r, data.With("Summary", summary).Build(), 0)
}
