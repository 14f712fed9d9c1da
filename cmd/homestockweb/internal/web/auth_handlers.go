package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
)

type loginForm struct {
	Email string
}

type registerForm struct {
	Username string
	Email    string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", page{Title: "Log in", Data: loginForm{}})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	creds := sdk.Credentials{Email: r.PostFormValue("email"), Password: r.PostFormValue("password")}

	ctx, cancel := s.callContext(r)
	defer cancel()
	session, err := stateFrom(r).client.Login(ctx, creds)
	if err != nil {
		s.logger.Info("login failed", "error", err)
		s.render(w, r, loginStatus(err), "login", page{
			Title: "Log in",
			Error: sdk.UserMessage(err),
			Data:  loginForm{Email: creds.Email},
		})
		return
	}
	s.succeed(w, r, sdk.DashboardPath, fmt.Sprintf("Welcome back, %s.", session.User.Username))
}

// loginStatus maps a login failure to the status the re-rendered form is sent with.
func loginStatus(err error) int {
	var (
		authErr *sdk.AuthError
		valErr  *sdk.ValidationError
	)
	switch {
	case errors.As(err, &valErr):
		return http.StatusBadRequest
	case errors.As(err, &authErr) && authErr.Reason == sdk.AuthInvalidCredentials:
		return http.StatusUnauthorized
	case errors.As(err, &authErr) && authErr.Reason == sdk.AuthStorage:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register", page{Title: "Register", Data: registerForm{}})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	reg := sdk.Registration{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}

	ctx, cancel := s.callContext(r)
	defer cancel()
	if _, err := stateFrom(r).client.Register(ctx, reg); err != nil {
		status := http.StatusBadGateway
		var (
			valErr *sdk.ValidationError
			remErr *sdk.RemoteError
		)
		switch {
		case errors.As(err, &valErr):
			status = http.StatusBadRequest
		case errors.As(err, &remErr) && remErr.StatusCode < 500:
			status = remErr.StatusCode
		}
		s.render(w, r, status, "register", page{
			Title: "Register",
			Error: sdk.UserMessage(err),
			Data:  registerForm{Username: reg.Username, Email: reg.Email},
		})
		return
	}
	s.succeed(w, r, sdk.LoginPath, "Account created. Please log in.")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if stateFrom(r).client.Logout() {
		stateFrom(r).Notify(sdk.Notice{Level: sdk.NoticeInfo, Message: "You have been logged out."})
	}
	http.Redirect(w, r, sdk.LoginPath, http.StatusSeeOther)
}

// sessionStatus is served at /api/session. It reflects the cookie only;
// the backend is not consulted.
type sessionStatus struct {
	Authenticated bool      `json:"authenticated"`
	User          *sdk.User `json:"user,omitempty"`
	Landing       string    `json:"landing"`
}

func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	session := stateFrom(r).client.Session()
	status := sessionStatus{
		Authenticated: session.Authenticated(),
		User:          session.User,
		Landing:       sdk.LoginPath,
	}
	if sdk.EvaluateAccess(session, sdk.RouteDashboard) == sdk.Allow {
		status.Landing = sdk.DashboardPath
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		s.logger.Debug("failed to write session status", "error", err)
	}
}
