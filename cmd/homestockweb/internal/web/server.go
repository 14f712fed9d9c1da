package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options controls the construction of the web frontend.
type Options struct {
	// APIURL is the HomeStock backend base URL.
	APIURL string
	// HashKey and BlockKey sign and encrypt the cookies.
	HashKey  []byte
	BlockKey []byte
	// SecureCookies marks cookies Secure.
	SecureCookies bool
	// CORSOrigins may read /api/session. Empty disables CORS headers.
	CORSOrigins []string
	// Timeout bounds each backend call.
	Timeout time.Duration
	Logger  *slog.Logger
	// HTTPClient overrides the client used for backend calls.
	HTTPClient *http.Client
	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

// Server renders the HomeStock pages. Each request gets its own sdk.Client
// whose session lives in the request's cookie, so the guard and transport
// behave exactly as they do in the CLI.
type Server struct {
	apiURL      string
	codec       *cookieCodec
	pages       *renderer
	logger      *slog.Logger
	http        *http.Client
	corsOrigins []string
	timeout     time.Duration
	now         func() time.Time
}

// NewServer validates opts and parses the page templates.
func NewServer(opts Options) (*Server, error) {
	if opts.APIURL == "" {
		return nil, errors.New("api url is required")
	}
	if len(opts.HashKey) == 0 {
		return nil, errors.New("cookie hash key is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}

	return &Server{
		apiURL:      opts.APIURL,
		codec:       newCookieCodec(opts.HashKey, opts.BlockKey, opts.SecureCookies),
		pages:       pages,
		logger:      opts.Logger,
		http:        opts.HTTPClient,
		corsOrigins: opts.CORSOrigins,
		timeout:     opts.Timeout,
		now:         opts.Now,
	}, nil
}

// Handler assembles the chi router with every page mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(s.logger.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(s.session)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, sdk.DashboardPath, http.StatusSeeOther)
		})

		r.Group(func(r chi.Router) {
			if len(s.corsOrigins) > 0 {
				r.Use(cors.Handler(cors.Options{
					AllowedOrigins:   s.corsOrigins,
					AllowedMethods:   []string{http.MethodGet},
					AllowCredentials: true,
					MaxAge:           300,
				}))
			}
			r.Get("/api/session", s.handleSessionStatus)
		})

		r.Get(sdk.RouteLogin.Path, s.handleLoginPage)
		r.Post(sdk.RouteLogin.Path, s.handleLogin)
		r.Get(sdk.RouteRegister.Path, s.handleRegisterPage)
		r.Post(sdk.RouteRegister.Path, s.handleRegister)
		r.Post("/logout", s.handleLogout)

		r.With(s.guarded(sdk.RouteDashboard)).Get(sdk.RouteDashboard.Path, s.handleDashboard)

		r.Route(sdk.RouteProfile.Path, func(r chi.Router) {
			r.Use(s.guarded(sdk.RouteProfile))
			r.Get("/", s.handleProfile)
			r.Post("/name", s.handleProfileUpdate(sdk.FieldName))
			r.Post("/username", s.handleProfileUpdate(sdk.FieldUsername))
			r.Post("/password", s.handleProfileUpdate(sdk.FieldPassword))
		})

		r.Route(sdk.RouteInventory.Path, func(r chi.Router) {
			r.Use(s.guarded(sdk.RouteInventory))
			r.Get("/", s.handleInventory)
			r.Post("/", s.handleInventoryCreate)
			r.Post("/{id}/delete", s.handleInventoryDelete)
		})

		r.Route(sdk.RouteShoppingList.Path, func(r chi.Router) {
			r.Use(s.guarded(sdk.RouteShoppingList))
			r.Get("/", s.handleShopping)
			r.Post("/", s.handleShoppingCreate)
			r.Post("/{id}/toggle", s.handleShoppingToggle)
			r.Post("/{id}/delete", s.handleShoppingDelete)
		})

		r.Route(sdk.RouteStock.Path, func(r chi.Router) {
			r.Use(s.guarded(sdk.RouteStock))
			r.Get("/", s.handleStock)
			r.Post("/", s.handleStockCreate)
			r.Post("/{id}/adjust", s.handleStockAdjust)
			r.Post("/{id}/delete", s.handleStockDelete)
		})

		r.Route(sdk.RouteReminders.Path, func(r chi.Router) {
			r.Use(s.guarded(sdk.RouteReminders))
			r.Get("/", s.handleReminders)
			r.Post("/", s.handleReminderCreate)
			r.Post("/{id}/complete", s.handleReminderComplete)
			r.Post("/{id}/delete", s.handleReminderDelete)
		})

		r.Route(sdk.RouteAdminUsers.Path, func(r chi.Router) {
			r.Use(s.guarded(sdk.RouteAdminUsers))
			r.Get("/", s.handleUsers)
			r.Post("/{id}/role", s.handleUserRole)
			r.Post("/{id}/delete", s.handleUserDelete)
		})
	})

	return r
}

// session builds the request's client over its cookie store.
func (s *Server) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))
		st := &requestState{codec: s.codec, w: w, r: r}
		st.client = sdk.NewClient(s.apiURL,
			sdk.WithHTTPClient(s.http),
			sdk.WithSessionStore(&CookieStore{codec: s.codec, w: w, r: r}),
			sdk.WithNotifier(st),
			sdk.WithLogger(logger),
		)
		st.guard = sdk.NewGuard(st.client)
		next.ServeHTTP(w, r.WithContext(withState(r.Context(), st)))
	})
}

// guarded mounts route for every request it wraps and turns the decision
// into a redirect.
func (s *Server) guarded(route sdk.Route) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := stateFrom(r)
			decision, err := st.guard.Mount(r.Context(), route)

			var netErr *sdk.NetworkError
			switch {
			case errors.Is(err, sdk.ErrUnmounted):
				s.logger.Debug("request ended before session validation", "route", route.Path)
				return
			case errors.As(err, &netErr):
				s.logger.Warn("session validation unreachable", "route", route.Path, "error", err)
				s.renderError(w, r, http.StatusBadGateway, err)
				return
			case err != nil:
				s.logger.Info("session validation failed", "route", route.Path, "error", err)
				if !errors.Is(err, sdk.ErrAuthorizationLost) {
					st.Notify(sdk.Notice{Level: sdk.NoticeWarning, Message: "We could not confirm your session. Please log in again."})
				}
			}

			switch decision {
			case sdk.Allow:
				next.ServeHTTP(w, r)
			case sdk.RedirectToDashboard:
				st.Notify(sdk.Notice{Level: sdk.NoticeWarning, Message: fmt.Sprintf("%s is not available to your role.", route.Path)})
				http.Redirect(w, r, decision.Target(), http.StatusSeeOther)
			default:
				http.Redirect(w, r, decision.Target(), http.StatusSeeOther)
			}
		})
	}
}

// fail reports err from a form action and sends the browser back to back.
// Lost authorization goes to the login page instead; the transport has
// already ended the session and queued the notice.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, back string, err error) {
	if errors.Is(err, sdk.ErrAuthorizationLost) || errors.Is(err, sdk.ErrNotAuthenticated) {
		http.Redirect(w, r, sdk.RedirectToLogin.Target(), http.StatusSeeOther)
		return
	}
	s.logger.Debug("action failed", "path", r.URL.Path, "error", err)
	stateFrom(r).Notify(sdk.Notice{Level: sdk.NoticeError, Message: sdk.UserMessage(err)})
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// succeed flashes msg and redirects to back.
func (s *Server) succeed(w http.ResponseWriter, r *http.Request, back, msg string) {
	stateFrom(r).Notify(sdk.Notice{Level: sdk.NoticeInfo, Message: msg})
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// callContext bounds one backend call made on behalf of r.
func (s *Server) callContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.timeout)
}
