package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/auth"
	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/pterm/pterm"
)

// Options configures a Provider.
type Options struct {
	ServerURL   string
	SessionFile string
	Timeout     time.Duration
	Logger      *slog.Logger
	// Store overrides the file-backed session store (tests).
	Store sdk.SessionStore
	// HTTPClient overrides the default HTTP client (tests).
	HTTPClient *http.Client
	// Notifier overrides the terminal notifier (tests).
	Notifier sdk.Notifier
}

// Provider yields the SDK client and route guard shared by one CLI invocation.
// Everything is built lazily so commands that never touch the backend never
// open the session file.
type Provider struct {
	opts Options

	once   sync.Once
	client *sdk.Client
	guard  *sdk.Guard
	err    error
}

// NewProvider constructs a new Provider.
func NewProvider(opts Options) *Provider {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Notifier == nil {
		opts.Notifier = TerminalNotifier()
	}
	return &Provider{opts: opts}
}

func (p *Provider) init() {
	p.once.Do(func() {
		store := p.opts.Store
		if store == nil {
			fileStore, err := auth.NewFileStore(p.opts.SessionFile)
			if err != nil {
				p.err = fmt.Errorf("failed to open session store: %w", err)
				return
			}
			store = fileStore
		}

		httpClient := p.opts.HTTPClient
		if httpClient == nil {
			httpClient = &http.Client{Timeout: p.opts.Timeout}
		}

		p.client = sdk.NewClient(p.opts.ServerURL,
			sdk.WithHTTPClient(httpClient),
			sdk.WithSessionStore(store),
			sdk.WithNotifier(p.opts.Notifier),
			sdk.WithLogger(p.opts.Logger),
		)
		p.guard = sdk.NewGuard(p.client)
	})
}

// SDKClient returns the shared SDK client.
func (p *Provider) SDKClient(ctx context.Context) (*sdk.Client, error) {
	p.init()
	if p.err != nil {
		return nil, p.err
	}
	return p.client, nil
}

// Guard returns the route guard bound to the shared client.
func (p *Provider) Guard(ctx context.Context) (*sdk.Guard, error) {
	p.init()
	if p.err != nil {
		return nil, p.err
	}
	return p.guard, nil
}

// TerminalNotifier prints notices with pterm.
func TerminalNotifier() sdk.Notifier {
	return sdk.NotifierFunc(func(n sdk.Notice) {
		switch n.Level {
		case sdk.NoticeError:
			pterm.Error.Println(n.Message)
		case sdk.NoticeWarning:
			pterm.Warning.Println(n.Message)
		default:
			pterm.Info.Println(n.Message)
		}
	})
}

// EnsureTimeout bounds ctx by timeout unless it already carries a deadline.
func EnsureTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}

	if _, ok := ctx.Deadline(); ok || timeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, timeout)
}
