package httpx

import (
	"net/http"
	"strconv"
	"strings"

	domainauth "github.com/target/rfp-console/internal/domain/auth"
	"github.com/target/rfp-console/internal/domain/model"
	"github.com/target/rfp-console/internal/http/validation"
)

// loginForm carries the values echoed back into the login page.
type loginForm struct {
	Email string
}

// registerForm carries the values echoed back into the registration page.
type registerForm struct {
	FirstName     string
	LastName      string
	Email         string
	Revenue       string
	NoOfEmployees string
	Categories    []string
	PancardNo     string
	GSTNo         string
	Mobile        string
}

// Selected reports whether category id was ticked.
func (f registerForm) Selected(id string) bool {
	for _, c := range f.Categories {
		if c == id {
			return true
		}
	}
	return false
}

func loginMeta() PageMeta {
	return PageMeta{Title: "Login - RFP Console", PageTitle: "Login", CurrentPage: PageLogin}
}

func registerMeta() PageMeta {
	return PageMeta{Title: "Register - RFP Console", PageTitle: "Vendor Registration", CurrentPage: PageRegister}
}

// LoginPage renders the login form.
// GET / and GET /login.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, NewTemplateData(r, loginMeta()).With("Form", loginForm{}))
}

func (h *UIHandlers) renderLogin(w http.ResponseWriter, r *http.Request, b *TemplateDataBuilder) {
	h.renderPage(w, r, b.Build(), 0)
}

// LoginSubmit validates credentials locally, then authenticates against the remote API.
// POST /login.
func (h *UIHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	form := loginForm{Email: strings.TrimSpace(r.PostFormValue("email"))}
	password := r.PostFormValue("password")

	fv := validation.New().
		Validate("email", form.Email, validation.Required("Email"), validation.Email()).
		Validate("password", password, validation.Required("Password"))
	data := NewTemplateData(r, loginMeta()).With("Form", form)
	if !fv.Valid() {
		h.renderLogin(w, r, data.WithFieldErrors(fv.Errors()))
		return
	}

	store, ok := SessionStoreFromContext(r.Context())
	if !ok {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	release, ok := h.acquire(w, r, "login")
	if !ok {
		return
	}
	defer release()

	if _, err := h.Auth.Login(r.Context(), store, form.Email, password); err != nil {
		h.logger().InfoContext(r.Context(), "login failed", "error", err)
		h.renderLogin(w, r, data.WithFieldErrors(fieldErrorsFrom(err)).WithError(userMessage(err)))
		return
	}
	Redirect(w, r, domainauth.LandingPath)
}

// RegisterPage renders the vendor registration form.
// GET /register.
func (h *UIHandlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderRegister(w, r, NewTemplateData(r, registerMeta()).With("Form", registerForm{}))
}

func (h *UIHandlers) renderRegister(w http.ResponseWriter, r *http.Request, b *TemplateDataBuilder) {
	b.With("Categories", h.Vendors.RegistrationCategories(r.Context()))
	h.renderPage(w, r, b.Build(), 0)
}

// RegisterSubmit validates and submits a vendor registration. A token in the reply logs
// the vendor in; otherwise the browser goes to the login page.
// POST /register.
func (h *UIHandlers) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := registerForm{
		FirstName:     strings.TrimSpace(r.PostFormValue("firstname")),
		LastName:      strings.TrimSpace(r.PostFormValue("lastname")),
		Email:         strings.TrimSpace(r.PostFormValue("email")),
		Revenue:       strings.TrimSpace(r.PostFormValue("revenue")),
		NoOfEmployees: strings.TrimSpace(r.PostFormValue("no_of_employees")),
		Categories:    r.PostForm["category"],
		PancardNo:     strings.TrimSpace(r.PostFormValue("pancard_no")),
		GSTNo:         strings.TrimSpace(r.PostFormValue("gst_no")),
		Mobile:        strings.TrimSpace(r.PostFormValue("mobile")),
	}
	password := r.PostFormValue("password")

	fv := validateRegistration(form, password, r.PostFormValue("confirmPassword"))
	data := NewTemplateData(r, registerMeta()).With("Form", form)
	if !fv.Valid() {
		h.renderRegister(w, r, data.WithFieldErrors(fv.Errors()))
		return
	}

	store, ok := SessionStoreFromContext(r.Context())
	if !ok {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	release, ok := h.acquire(w, r, "register")
	if !ok {
		return
	}
	defer release()

	employees, _ := strconv.Atoi(form.NoOfEmployees)
	res, err := h.Auth.RegisterVendor(r.Context(), store, model.RegisterVendorInput{
		FirstName:     form.FirstName,
		LastName:      form.LastName,
		Email:         form.Email,
		Password:      password,
		Revenue:       form.Revenue,
		NoOfEmployees: employees,
		Categories:    form.Categories,
		PancardNo:     form.PancardNo,
		GSTNo:         form.GSTNo,
		Mobile:        form.Mobile,
	})
	if err != nil {
		h.logger().InfoContext(r.Context(), "registration failed", "error", err)
		h.renderRegister(w, r, data.WithFieldErrors(fieldErrorsFrom(err)).WithError(userMessage(err)))
		return
	}
	if res.LoggedIn {
		Redirect(w, r, domainauth.LandingPath)
		return
	}
	Redirect(w, r, withNotice(domainauth.LoginPath, "registered"))
}

func validateRegistration(f registerForm, password, confirm string) *validation.FieldValidator {
	fv := validation.New().
		Validate("firstname", f.FirstName, validation.Required("First name")).
		Validate("lastname", f.LastName, validation.Required("Last name")).
		Validate("email", f.Email, validation.Required("Email"), validation.Email()).
		Validate("password", password, validation.Required("Password"), validation.MinLen("Password", 6)).
		Validate("confirmPassword", confirm, validation.Equals(password, "Passwords do not match")).
		Validate("revenue", f.Revenue, validation.Required("Revenue"),
			validation.MinCommaParts(3, "Enter last three years revenue, separated by commas")).
		Validate("no_of_employees", f.NoOfEmployees, validation.Required("Number of employees"),
			validation.PositiveNumber("Enter a valid number of employees")).
		Validate("pancard_no", f.PancardNo, validation.Required("PAN card number"), validation.PAN()).
		Validate("gst_no", f.GSTNo, validation.Required("GST number")).
		Validate("mobile", f.Mobile, validation.Required("Mobile number"), validation.Mobile())
	if len(f.Categories) == 0 {
		fv.Fail("category", "Category is required")
	}
	return fv
}

// Logout clears the session.
// POST /logout.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if store, ok := SessionStoreFromContext(r.Context()); ok {
		if err := h.Auth.Logout(r.Context(), store); err != nil {
			h.logger().ErrorContext(r.Context(), "logout failed", "error", err)
		}
	}
	Redirect(w, r, withNotice(domainauth.LoginPath, "logged-out"))
}

// AuthStatus reports the current session as JSON.
// GET /auth/status.
func (h *UIHandlers) AuthStatus(w http.ResponseWriter, r *http.Request) {
	sess := CurrentSession(r.Context())
	if !sess.IsAuthenticated() {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":    sess.Profile.ID,
			"name":  sess.Profile.Name,
			"email": sess.Profile.Email,
			"role":  sess.Profile.Role,
		},
	})
}
