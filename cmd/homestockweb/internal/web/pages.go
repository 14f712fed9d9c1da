package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.callContext(r)
	defer cancel()

	summary, err := stateFrom(r).client.Summary(ctx, s.now())
	if err != nil {
		s.showFailure(w, r, "dashboard", "Dashboard", err)
		return
	}
	s.render(w, r, http.StatusOK, "dashboard", page{Title: "Dashboard", Data: summary})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "profile", page{Title: "Profile"})
}

func (s *Server) handleProfileUpdate(field sdk.ProfileField) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		update := sdk.ProfileUpdate{
			Field:           field,
			Value:           r.PostFormValue("value"),
			CurrentPassword: r.PostFormValue("current_password"),
			NewPassword:     r.PostFormValue("new_password"),
			ConfirmPassword: r.PostFormValue("confirm_password"),
		}

		ctx, cancel := s.callContext(r)
		defer cancel()
		if _, err := stateFrom(r).client.UpdateProfile(ctx, update); err != nil {
			s.fail(w, r, sdk.RouteProfile.Path, err)
			return
		}
		s.succeed(w, r, sdk.RouteProfile.Path, profileMessage(field))
	}
}

func profileMessage(field sdk.ProfileField) string {
	switch field {
	case sdk.FieldPassword:
		return "Password changed."
	case sdk.FieldUsername:
		return "Username updated."
	default:
		return "Name updated."
	}
}

// showFailure renders a page whose data could not be loaded. Lost
// authorization redirects to the login page like a failed action.
func (s *Server) showFailure(w http.ResponseWriter, r *http.Request, name, title string, err error) {
	if errors.Is(err, sdk.ErrAuthorizationLost) || errors.Is(err, sdk.ErrNotAuthenticated) {
		http.Redirect(w, r, sdk.LoginPath, http.StatusSeeOther)
		return
	}
	s.logger.Warn("failed to load page data", "page", name, "error", err)
	status := http.StatusBadGateway
	var valErr *sdk.ValidationError
	if errors.As(err, &valErr) {
		status = http.StatusBadRequest
	}
	s.render(w, r, status, "error", page{Title: title, Error: sdk.UserMessage(err)})
}

// pathID reads the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &sdk.ValidationError{Field: "id", Message: "must be a positive integer"}
	}
	return id, nil
}

// formFloat reads a numeric form field, using def when it is blank.
func formFloat(r *http.Request, field string, def float64) (float64, error) {
	raw := strings.TrimSpace(r.PostFormValue(field))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &sdk.ValidationError{Field: field, Message: "must be a number"}
	}
	return v, nil
}

// formDate reads an optional YYYY-MM-DD form field.
func formDate(r *http.Request, field string) (sdk.Date, error) {
	raw := strings.TrimSpace(r.PostFormValue(field))
	if raw == "" {
		return sdk.Date{}, nil
	}
	d, err := sdk.ParseDate(raw)
	if err != nil {
		return sdk.Date{}, &sdk.ValidationError{Field: field, Message: "must be a date (YYYY-MM-DD)"}
	}
	return d, nil
}
