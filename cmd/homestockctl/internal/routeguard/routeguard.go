package routeguard

import (
	"context"
	"errors"
	"fmt"

	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/spf13/cobra"
)

// RouteAnnotation is the cobra annotation naming the route a command renders.
const RouteAnnotation = "homestock.route"

// For returns the annotations that bind a command to route.
func For(route sdk.Route) map[string]string {
	return map[string]string{RouteAnnotation: route.Path}
}

// RouteOf returns the route bound to cmd or its nearest annotated parent.
// Commands without one are treated as public.
func RouteOf(cmd *cobra.Command) (sdk.Route, bool) {
	routes := sdk.Routes()
	for c := cmd; c != nil; c = c.Parent() {
		path, ok := c.Annotations[RouteAnnotation]
		if !ok {
			continue
		}
		route, known := routes[path]
		return route, known
	}
	return sdk.Route{}, false
}

// RedirectError is returned when the guard refuses a command.
type RedirectError struct {
	Decision sdk.Decision
	From     string
	Cause    error
}

func (e *RedirectError) Error() string {
	switch e.Decision {
	case sdk.RedirectToLogin:
		if e.Cause != nil {
			return fmt.Sprintf("%s; please run `homestockctl auth login`", sdk.UserMessage(e.Cause))
		}
		return "you are not logged in; please run `homestockctl auth login`"
	case sdk.RedirectToDashboard:
		return fmt.Sprintf("%s is not available to your role", e.From)
	default:
		return fmt.Sprintf("redirected to %s", e.Decision.Target())
	}
}

func (e *RedirectError) Unwrap() error { return e.Cause }

// Mounter is the part of *sdk.Guard the CLI uses.
type Mounter interface {
	Mount(ctx context.Context, route sdk.Route) (sdk.Decision, error)
}

// Check mounts route. It returns nil when the command may run, a
// *RedirectError when it must not, and the underlying error when the session
// could not be verified (network failure, interrupted).
func Check(ctx context.Context, g Mounter, route sdk.Route) (sdk.Decision, error) {
	decision, err := g.Mount(ctx, route)

	var netErr *sdk.NetworkError
	switch {
	case errors.Is(err, sdk.ErrUnmounted):
		return decision, fmt.Errorf("interrupted: %w", err)
	case errors.As(err, &netErr):
		return decision, err
	case decision == sdk.Allow && err == nil:
		return decision, nil
	case decision == sdk.Allow:
		return decision, err
	}
	return decision, &RedirectError{Decision: decision, From: route.Path, Cause: err}
}
