package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	PageLogin     = "login"
	PageRegister  = "register"
	PageDashboard = "dashboard"
	PageVendors   = "vendors"
	PageRFP       = "rfp"
	PageRFPApply  = "rfp-apply"
	PageAddRFP    = "add-rfp"
	PageQuotes    = "quotes"
	PageNotFound  = "not-found"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// Fragment templates rendered without the layout.
const (
	fragmentApplyForm     = "apply-form"
	fragmentVendorOptions = "vendor-options"
	fragmentFlash         = "flash"
)

//nolint:gochecknoglobals // static read-only lookup
var contentTemplates = map[string]string{
	PageLogin:     "login-content",
	PageRegister:  "register-content",
	PageDashboard: "dashboard-content",
	PageVendors:   "vendors-content",
	PageRFP:       "rfp-content",
	PageRFPApply:  "rfp-apply-content",
	PageAddRFP:    "add-rfp-content",
	PageQuotes:    "quotes-content",
	PageNotFound:  "notfound-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to dashboard-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "dashboard-content"
}
