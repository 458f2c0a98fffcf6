package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/target/rfp-console/internal/apiclient"
	domainauth "github.com/target/rfp-console/internal/domain/auth"
	"github.com/target/rfp-console/internal/domain/model"
	apperrors "github.com/target/rfp-console/internal/errors"
	"github.com/target/rfp-console/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Gateway ports.Gateway // Required
	Logger  *slog.Logger
}

// AuthService logs users in and out against the remote API and registers vendors.
type AuthService struct {
	gw     ports.Gateway
	logger *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Gateway == nil {
		panic("service: AuthService requires Gateway")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{gw: opts.Gateway, logger: logger.With("component", "auth_service")}
}

// loginReply is the success envelope of /login and, when it auto-logs in, /registervendor.
type loginReply struct {
	Token  string           `json:"token"`
	UserID model.FlexString `json:"user_id"`
	Type   string           `json:"type"`
	Name   string           `json:"name"`
	Email  string           `json:"email"`
}

func (r loginReply) profile(fallbackEmail string) (domainauth.Profile, error) {
	role, ok := domainauth.ParseRole(r.Type)
	if !ok {
		return domainauth.Profile{}, apperrors.Validationf("Unsupported account type %q", r.Type)
	}
	email := r.Email
	if email == "" {
		email = fallbackEmail
	}
	return domainauth.Profile{ID: r.UserID.String(), Role: role, Name: r.Name, Email: email}, nil
}

// Login authenticates with email and password and stores the session.
func (s *AuthService) Login(ctx context.Context, sess SessionWriter, email, password string) (domainauth.Profile, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domainauth.Profile{}, apperrors.ValidationField("email", "Email is required")
	}
	if strings.TrimSpace(password) == "" {
		return domainauth.Profile{}, apperrors.ValidationField("password", "Password is required")
	}

	resp, err := s.gw.Do(ctx, apiclient.Request{
		Op:     "auth.login",
		Method: http.MethodPost,
		Path:   "/login",
		Body:   map[string]string{"email": email, "password": password},
	})
	if err != nil {
		return domainauth.Profile{}, err
	}

	var reply loginReply
	if err := resp.Decode(&reply); err != nil {
		return domainauth.Profile{}, err
	}
	if reply.Token == "" {
		return domainauth.Profile{}, &apiclient.Error{Kind: apiclient.KindApplication, Message: "Login failed", Status: resp.Status}
	}
	profile, err := reply.profile(email)
	if err != nil {
		return domainauth.Profile{}, err
	}
	if err := sess.Set(ctx, reply.Token, profile); err != nil {
		return domainauth.Profile{}, fmt.Errorf("store session: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", profile.ID, "role", profile.Role)
	return profile, nil
}

// Logout clears the session.
func (s *AuthService) Logout(ctx context.Context, sess SessionWriter) error {
	if err := sess.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// RegisterResult reports the outcome of a vendor registration.
type RegisterResult struct {
	// LoggedIn is true when the API returned a token and the session was set.
	LoggedIn bool
	Profile  domainauth.Profile
	Message  string
}

// RegisterVendor submits a vendor registration. When the API answers with a token the
// vendor is logged in immediately.
func (s *AuthService) RegisterVendor(ctx context.Context, sess SessionWriter, in model.RegisterVendorInput) (RegisterResult, error) {
	if err := validateRegistration(in); err != nil {
		return RegisterResult{}, err
	}

	resp, err := s.gw.Do(ctx, apiclient.Request{
		Op:     "auth.register",
		Method: http.MethodPost,
		Path:   "/registervendor",
		Body: map[string]any{
			"firstname":       in.FirstName,
			"lastname":        in.LastName,
			"email":           in.Email,
			"password":        in.Password,
			"revenue":         in.Revenue,
			"no_of_employees": in.NoOfEmployees,
			"category":        strings.Join(in.Categories, ","),
			"pancard_no":      in.PancardNo,
			"gst_no":          in.GSTNo,
			"mobile":          in.Mobile,
		},
	})
	if err != nil {
		return RegisterResult{}, err
	}

	result := RegisterResult{Message: resp.Message()}
	var reply loginReply
	if err := resp.Decode(&reply); err != nil || reply.Token == "" {
		return result, nil
	}
	profile, err := reply.profile(in.Email)
	if err != nil {
		s.logger.WarnContext(ctx, "registration returned token with unknown role", "type", reply.Type)
		return result, nil
	}
	if profile.Name == "" {
		profile.Name = strings.TrimSpace(in.FirstName + " " + in.LastName)
	}
	if err := sess.Set(ctx, reply.Token, profile); err != nil {
		return result, fmt.Errorf("store session: %w", err)
	}
	result.LoggedIn = true
	result.Profile = profile
	return result, nil
}

func validateRegistration(in model.RegisterVendorInput) error {
	required := []struct{ field, value string }{
		{"firstname", in.FirstName},
		{"lastname", in.LastName},
		{"email", in.Email},
		{"password", in.Password},
		{"mobile", in.Mobile},
		{"pancard_no", in.PancardNo},
		{"gst_no", in.GSTNo},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return apperrors.ValidationField(r.field, fieldLabel(r.field)+" is required")
		}
	}
	if in.NoOfEmployees <= 0 {
		return apperrors.ValidationField("no_of_employees", "No of employees is required")
	}
	if len(in.Categories) == 0 {
		return apperrors.ValidationField("category", "Category is required")
	}
	return nil
}

// fieldLabel renders "pancard_no" as "Pancard no".
func fieldLabel(field string) string {
	if field == "" {
		return ""
	}
	label := strings.ReplaceAll(field, "_", " ")
	return strings.ToUpper(label[:1]) + label[1:]
}
