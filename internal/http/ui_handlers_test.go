package httpx

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rfpListReply = `{"response":"success","rfps":[
	{"rfp_id":"5","item_name":"Laptops","item_description":"Dev machines","rfp_no":"RFP-5","quantity":"10",
	 "last_date":"2025-03-01 23:59:59","minimum_price":"100","maximum_price":"200","status":"open","applied_status":""},
	{"id":6,"item_name":"Chairs","rfp_no":"RFP-6","quantity":4,"last_date":"2025-04-01",
	 "minimum_price":50,"maximum_price":90,"rfp_status":"closed"}
]}`

func vendorJSON(id int, status string) string {
	return fmt.Sprintf(`{"user_id":%d,"firstname":"First%02d","lastname":"Last%02d","email":"vendor-%02d@example.com","mobile":"98765432%02d","status":%q}`,
		id, id, id, id, id, status)
}

func vendorListReply(n int) string {
	parts := make([]string, n)
	for i := range n {
		parts[i] = vendorJSON(i+1, "pending")
	}
	return `{"response":"success","vendors":[` + strings.Join(parts, ",") + `]}`
}

func TestRoot_LoginPageAndNotFound(t *testing.T) {
	h := newUIHarness(t)

	resp, body := h.get("/", false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Welcome to RFP System!")
	assert.NotEmpty(t, h.cookie(DefaultSessionCookieName), "browser session cookie issued")

	resp, body = h.get("/no-such-page", false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page Not Found")
}

func TestGuard_RedirectsAnonymousBrowsers(t *testing.T) {
	h := newUIHarness(t)

	for _, path := range []string{"/dashboard", "/vendors", "/rfp", "/add-rfp", "/rfp-quotes/5"} {
		resp, _ := h.get(path, false)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}

	resp, _ := h.get("/dashboard", true)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Hx-Redirect"))
	assert.Empty(t, h.API.Requests(), "guard must not reach the remote API")
}

func TestLogin_ValidationStaysLocal(t *testing.T) {
	h := newUIHarness(t)

	resp, body := h.post("/login", url.Values{"email": {"not-an-email"}}, false)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Email address is invalid")
	assert.Contains(t, body, "Password is required")
	assert.Contains(t, body, `value="not-an-email"`)
	_, called := h.API.Last(http.MethodPost, "/login")
	assert.False(t, called)
}

func TestLogin_RemoteRejection(t *testing.T) {
	h := newUIHarness(t)
	h.API.Handle(http.MethodPost, "/login", http.StatusOK, `{"response":"error","message":"Invalid credentials"}`)

	resp, body := h.post("/login", url.Values{"email": {"a@b.co"}, "password": {"wrong"}}, false)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Invalid credentials")
}

func TestLogin_DashboardAndLogout(t *testing.T) {
	h := newUIHarness(t)
	h.API.Handle(http.MethodGet, "/rfp/getrfp/1", http.StatusOK, rfpListReply)
	h.API.Handle(http.MethodGet, "/vendorlist", http.StatusOK, vendorListReply(3))

	h.loginAs(adminLoginReply)

	resp, body := h.get("/dashboard", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Welcome, Asha Admin")
	assert.Contains(t, body, "Administrator")
	assert.Contains(t, body, "Pending approval")

	last, ok := h.API.Last(http.MethodGet, "/rfp/getrfp/1")
	require.True(t, ok)
	assert.Equal(t, "Bearer tok-admin", last.Authorization)

	resp, _ = h.get("/login", false)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp, _ = h.post("/logout", nil, false)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?notice=logged-out", resp.Header.Get("Location"))

	_, body = h.get("/login?notice=logged-out", false)
	assert.Contains(t, body, "You have been logged out.")

	resp, _ = h.get("/dashboard", false)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestGuard_VendorKeptOutOfAdminPages(t *testing.T) {
	h := newUIHarness(t)
	h.loginAs(vendorLoginReply)

	for _, path := range []string{"/vendors", "/add-rfp"} {
		resp, _ := h.get(path, false)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/dashboard", resp.Header.Get("Location"), path)
	}
}

func TestAuthorizationFailure_ClearsSessionAndRedirectsHome(t *testing.T) {
	h := newUIHarness(t)
	h.loginAs(adminLoginReply)
	h.API.Handle(http.MethodGet, "/rfp/getrfp/1", http.StatusOK, `{"response":"error","message":"Authorization Failled"}`)

	resp, _ := h.get("/rfp", false)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, _ = h.get("/dashboard", false)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"), "session must be cleared")
}

func TestAuthorizationFailure_HTMXGetsRedirectHeader(t *testing.T) {
	h := newUIHarness(t)
	h.loginAs(adminLoginReply)
	h.API.Handle(http.MethodGet, "/vendorlist", http.StatusUnauthorized, `{"response":"error","message":"token expired"}`)

	resp, _ := h.get("/vendors", true)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Hx-Redirect"))
}

func TestVendors_Pagination(t *testing.T) {
	h := newUIHarness(t)
	h.loginAs(adminLoginReply)
	h.API.Handle(http.MethodGet, "/vendorlist", http.StatusOK, vendorListReply(12))

	resp, body := h.get("/vendors?page=2", false)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Showing 11 to 12 of 12 entries")
	assert.Contains(t, body, "vendor-11@example.com")
	assert.Contains(t, body, "vendor-12@example.com")
	assert.NotContains(t, body, "vendor-01@example.com")
	assert.Contains(t, body, `href="/vendors?page=1"`)

	resp, body = h.get("/vendors?page=99", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Showing 11 to 12 of 12 entries", "out-of-range pages clamp to the last page")
}

func TestVendors_HTMXPartial(t *testing.T) {
	h := newUIHarness(t)
	h.loginAs(adminLoginReply)
	h.API.Handle(http.MethodGet, "/vendorlist", http.StatusOK, vendorListReply(2))

	resp, body := h.get("/vendors", true)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "<html")
	assert.Contains(t, body, `<title>Vendors - RFP Console</title>`)
	assert.Contains(t, body, `hx-swap-oob="outerHTML"`)
	assert.Contains(t, body, "vendor-02@example.com")
	assert.Contains(t, resp.Header.Get("Hx-Trigger"), "nav:activate")
}

func TestVendorStatus_Update(t *testing.T) {
	h := newUIHarness(t)
	h.loginAs(adminLoginReply)
	h.API.Handle(http.MethodGet, "/vendorlist", http.StatusOK, vendorListReply(3))
	h.API.Handle(http.MethodPut, "/approveVendor", http.StatusOK, `{"response":"success","message":"Vendor status updated"}`)

	resp, _ := h.post("/vendors/3/status?page=1", url.Values{"status": {"rejected"}}, false)

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/vendors?page=1&notice=vendor-updated", resp.Header.Get("Location"))
	last, ok := h.API.Last(http.MethodPut, "/approveVendor")
	require.True(t, ok)
	assert.EqualValues(t, 3, last.Body["user_id"])
	assert.Equal(t, "rejected", last.Body["status"])
}

func TestVendorStatus_RejectsUnknownStatus(t *testing.T) {
	h := newUIHarness(t)
	h.loginAs(adminLoginReply)
	h.API.Handle(http.MethodGet, "/vendorlist", http.StatusOK, vendorListReply(3))

	resp, body := h.post("/vendors/3/status", url.Values{"status": {"bogus"}}, false)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Status must be one of: approved, rejected, pending")
	_, called := h.API.Last(http.MethodPut, "/approveVendor")
	assert.False(t, called)
}

func TestVendorStatus_ApprovedVendorIsFinal(t *testing.T) {
	h := newUIHarness(t)
	h.loginAs(adminLoginReply)
	h.API.Handle(http.MethodGet, "/vendorlist", http.StatusOK,
		`{"response":"success","vendors":[`+vendorJSON(4, "Approved")+`]}`)

	resp, body := h.post("/vendors/4/status", url.Values{"status": {"pending"}}, false)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Cannot change status: Vendor is already approved")
	_, called := h.API.Last(http.MethodPut, "/approveVendor")
	assert.False(t, called)
}

func TestRFPList_RoleSpecificActions(t *testing.T) {
	t.Run("admin", func(t *testing.T) {
		h := newUIHarness(t)
		h.loginAs(adminLoginReply)
		h.API.Handle(http.MethodGet, "/rfp/getrfp/1", http.StatusOK, rfpListReply)

		_, body := h.get("/rfp", false)
		assert.Contains(t, body, `action="/rfp/5/close?page=1"`)
		assert.NotContains(t, body, `/rfp/6/close`, "closed RFPs cannot be closed again")
		assert.Contains(t, body, `href="/rfp-quotes/6"`)
		assert.Contains(t, body, "₹100.00")
		assert.NotContains(t, body, "/apply")
	})

	t.Run("vendor", func(t *testing.T) {
		h := newUIHarness(t)
		h.loginAs(vendorLoginReply)
		h.API.Handle(http.MethodGet, "/rfp/getrfp/7", http.StatusOK, rfpListReply)

		_, body := h.get("/rfp", false)
		assert.Contains(t, body, `hx-get="/rfp/5/apply"`)
		assert.NotContains(t, body, `/rfp/6/apply`)
		assert.NotContains(t, body, "/close")
		assert.Contains(t, body, "Mar 01, 2025")
	})
}

func TestCloseRFP(t *testing.T) {
	h := newUIHarness(t)
	h.loginAs(adminLoginReply)
	h.API.Handle(http.MethodPut, "/rfp/closerfp/5", http.StatusOK, `{"response":"success"}`)

	resp, _ := h.post("/rfp/5/close?page=2", nil, true)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "/rfp?page=2&notice=rfp-closed", resp.Header.Get("Hx-Redirect"))
	_, called := h.API.Last(http.MethodPut, "/rfp/closerfp/5")
	assert.True(t, called)
}

func TestApply_FormFragment(t *testing.T) {
	h := newUIHarness(t)
	h.loginAs(vendorLoginReply)
	h.API.Handle(http.MethodGet, "/rfp/getrfp/7", http.StatusOK, rfpListReply)

	resp, body := h.get("/rfp/5/apply", true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="apply-form"`)
	assert.NotContains(t, body, "<html")

	resp, body = h.get("/rfp/5/apply", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<html")
	assert.Contains(t, body, `id="apply-form"`)

	resp, _ = h.get("/rfp/404/apply", false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestApply_PriceRange(t *testing.T) {
	h := newUIHarness(t)
	h.loginAs(vendorLoginReply)
	h.API.Handle(http.MethodGet, "/rfp/getrfp/7", http.StatusOK, rfpListReply)
	h.API.Handle(http.MethodPut, "/rfp/apply/5", http.StatusOK, `{"response":"success"}`)

	cases := map[string]string{
		"":    "Quote price is required",
		"abc": "Enter a valid price",
		"50":  "Price cannot be less than 100",
		"250": "Price cannot exceed 200",
	}
	for price, want := range cases {
		resp, body := h.post("/rfp/5/apply", url.Values{"item_price": {price}}, true)
		assert.Equal(t, http.StatusOK, resp.StatusCode, price)
		assert.Contains(t, body, want, price)
	}
	_, called := h.API.Last(http.MethodPut, "/rfp/apply/5")
	require.False(t, called, "invalid quotes never reach the API")

	resp, _ := h.post("/rfp/5/apply", url.Values{"item_price": {"150"}}, true)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "/rfp?notice=quote-submitted", resp.Header.Get("Hx-Redirect"))

	last, ok := h.API.Last(http.MethodPut, "/rfp/apply/5")
	require.True(t, ok)
	assert.InDelta(t, 150.0, last.Body["item_price"], 0.001)
	assert.InDelta(t, 1500.0, last.Body["total_cost"], 0.001)
}

func TestApply_ClosedRFPRefused(t *testing.T) {
	h := newUIHarness(t)
	h.loginAs(vendorLoginReply)
	h.API.Handle(http.MethodGet, "/rfp/getrfp/7", http.StatusOK, rfpListReply)

	_, body := h.post("/rfp/6/apply", url.Values{"item_price": {"60"}}, true)

	assert.Contains(t, body, "This RFP is no longer accepting quotes")
	_, called := h.API.Last(http.MethodPut, "/rfp/apply/6")
	assert.False(t, called)
}

func TestQuotes(t *testing.T) {
	h := newUIHarness(t)
	h.loginAs(adminLoginReply)
	h.API.Handle(http.MethodGet, "/rfp/getrfp/1", http.StatusOK, rfpListReply)
	h.API.Handle(http.MethodGet, "/rfp/quotes/5", http.StatusOK,
		`{"response":"success","quotes":[{"name":"Acme","email":"sales@acme.test","mobile":"9876543210","item_price":"120","total_cost":"1200"}]}`)
	h.API.Handle(http.MethodGet, "/rfp/quotes/6", http.StatusOK, `{"response":"error","message":"No quotes available"}`)

	_, body := h.get("/rfp-quotes/5", false)
	assert.Contains(t, body, "Quotes for Laptops (RFP-5)")
	assert.Contains(t, body, "sales@acme.test")
	assert.Contains(t, body, "₹1,200.00")

	resp, body := h.get("/rfp-quotes/6", false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No quotes available.")
	assert.NotContains(t, body, "alert-error")
}

func TestAddRFP_VendorOptions(t *testing.T) {
	h := newUIHarness(t)
	h.loginAs(adminLoginReply)
	h.API.Handle(http.MethodGet, "/vendorlist/1", http.StatusOK,
		`{"response":"success","vendors":[`+vendorJSON(1, "approved")+`,`+vendorJSON(2, "pending")+`]}`)
	h.API.Handle(http.MethodGet, "/vendorlist/2", http.StatusOK,
		`{"response":"success","vendors":[`+vendorJSON(1, "approved")+`,`+vendorJSON(3, "Approved")+`]}`)

	resp, body := h.post("/add-rfp/vendors", url.Values{"categories": {"1", "2"}, "vendors": {"3"}}, true)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, strings.Count(body, "vendor-01@example.com"), "vendors are de-duplicated")
	assert.NotContains(t, body, "vendor-02@example.com", "only approved vendors are offered")
	assert.Contains(t, body, `value="3" checked`)
}

func TestAddRFP_Submit(t *testing.T) {
	h := newUIHarness(t)
	h.loginAs(adminLoginReply)
	h.API.Handle(http.MethodGet, "/categories", http.StatusOK,
		`{"response":"success","categories":{"2":{"id":"2","name":"Hardware","status":"Active"},"1":{"id":"1","name":"Software","status":"Active"}}}`)
	h.API.Handle(http.MethodPost, "/createrfp", http.StatusOK, `{"response":"success"}`)

	form := url.Values{
		"item_name":        {"Laptops"},
		"rfp_no":           {"RFP-9"},
		"quantity":         {"10"},
		"last_date":        {"2025-03-01"},
		"minimum_price":    {"100"},
		"maximum_price":    {"200"},
		"item_description": {"Dev machines"},
	}

	resp, body := h.post("/add-rfp", form, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Please select at least one category")
	assert.Contains(t, body, "Please select at least one vendor")
	assert.Contains(t, body, `value="Laptops"`)
	assert.Contains(t, body, "Software")

	form["categories"] = []string{"1", "2"}
	form["vendors"] = []string{"3", "4"}
	resp, _ = h.post("/add-rfp", form, false)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/rfp?notice=rfp-created", resp.Header.Get("Location"))

	last, ok := h.API.Last(http.MethodPost, "/createrfp")
	require.True(t, ok)
	assert.Equal(t, "2025-03-01 23:59:59", last.Body["last_date"])
	assert.Equal(t, "1,2", last.Body["categories"])
	assert.Equal(t, "3,4", last.Body["vendors"])
	assert.EqualValues(t, 10, last.Body["quantity"])
}

func TestCSRF_RejectsFormsWithoutToken(t *testing.T) {
	h := newUIHarness(t)
	h.get("/login", false)

	req, err := http.NewRequest(http.MethodPost, h.Server.URL+"/login",
		strings.NewReader(url.Values{"email": {"a@b.co"}, "password": {"pw"}}.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, _ := h.do(req, false)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, h.API.Requests())
}

func TestAuthStatus(t *testing.T) {
	h := newUIHarness(t)

	_, body := h.get("/auth/status", false)
	assert.JSONEq(t, `{"authenticated":false}`, body)

	h.loginAs(vendorLoginReply)
	_, body = h.get("/auth/status", false)
	assert.JSONEq(t, `{"authenticated":true,"user":{"id":"7","name":"Vikram Vendor","email":"vendor@example.com","role":"vendor"}}`, body)
}

func TestRegister(t *testing.T) {
	h := newUIHarness(t)
	h.API.Handle(http.MethodGet, "/categories", http.StatusOK, `{"response":"error","message":"down"}`)

	_, body := h.get("/register", false)
	assert.Contains(t, body, "Office Furniture", "fallback categories are offered when the API fails")

	resp, body := h.post("/register", url.Values{"pancard_no": {"abc"}, "mobile": {"123"}, "revenue": {"1,2"}}, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Enter a valid PAN card number (e.g., ABCDE1234F)")
	assert.Contains(t, body, "Enter a valid 10-digit mobile number")
	assert.Contains(t, body, "Category is required")
	_, called := h.API.Last(http.MethodPost, "/registervendor")
	assert.False(t, called)

	h.API.Handle(http.MethodPost, "/registervendor", http.StatusOK, `{"response":"success","message":"Vendor registered"}`)
	resp, _ = h.post("/register", url.Values{
		"firstname":       {"Asha"},
		"lastname":        {"Rao"},
		"email":           {"asha@example.com"},
		"password":        {"secret1"},
		"confirmPassword": {"secret1"},
		"revenue":         {"10,20,30"},
		"no_of_employees": {"12"},
		"category":        {"1", "3"},
		"pancard_no":      {"ABCDE1234F"},
		"gst_no":          {"29ABCDE1234F1Z5"},
		"mobile":          {"9876543210"},
	}, false)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?notice=registered", resp.Header.Get("Location"))

	last, ok := h.API.Last(http.MethodPost, "/registervendor")
	require.True(t, ok)
	assert.Equal(t, "1,3", last.Body["category"])
	assert.NotContains(t, last.Body, "confirmPassword")
}
