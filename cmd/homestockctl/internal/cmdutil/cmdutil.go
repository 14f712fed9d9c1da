package cmdutil

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/client"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/config"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/output"
	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// SDKClient returns the invocation's shared SDK client.
func SDKClient(ctx context.Context) (*sdk.Client, error) {
	cfg := config.MustFromContext(ctx)
	return cfg.ClientProvider.SDKClient(ctx)
}

// Timeout bounds a command's backend calls by the configured timeout.
func Timeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	cfg := config.MustFromContext(cmd.Context())
	return client.EnsureTimeout(cmd.Context(), cfg.Timeout)
}

// Render writes data to the command's stdout in the configured format.
func Render(cmd *cobra.Command, data any, table func(tw *tabwriter.Writer)) error {
	cfg := config.MustFromContext(cmd.Context())
	return output.Write(cmd.OutOrStdout(), cfg.Output, data, table)
}

// NonInteractive reports whether prompts are disabled for this invocation.
func NonInteractive(cmd *cobra.Command) bool {
	return config.MustFromContext(cmd.Context()).NonInteractive
}

// ParseID parses a positional resource ID.
func ParseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, &sdk.ValidationError{Field: "id", Message: fmt.Sprintf("%q is not a valid ID", arg)}
	}
	return id, nil
}

// ListFlags are the filter flags shared by every list command.
type ListFlags struct {
	Filter string
	Where  []string
}

// Register adds --filter and --where to cmd.
func (f *ListFlags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Filter, "filter", "", "bexpr filter expression (e.g. category == \"dairy\")")
	cmd.Flags().StringArrayVar(&f.Where, "where", nil, "Filter by field equality (key=value). Converted to bexpr AND expression")
}

// Expression combines --filter and --where into one bexpr expression,
// printing a warning for each duplicate --where key.
func (f *ListFlags) Expression() (string, error) {
	fields, warnings, err := sdk.ParseEqualityArgs(f.Where)
	if err != nil {
		return "", err
	}
	for _, warning := range warnings {
		pterm.Warning.Println(warning)
	}
	return sdk.CombineFilters(f.Filter, sdk.BuildEqualityFilter(fields)), nil
}

// Apply filters items with the combined expression.
func Apply[T any](f *ListFlags, items []T) ([]T, error) {
	expr, err := f.Expression()
	if err != nil {
		return nil, err
	}
	return sdk.Filter(expr, items)
}

// Section prints a heading in table mode only, keeping json and yaml output
// machine-readable.
func Section(cmd *cobra.Command, format string, args ...any) {
	cfg := config.MustFromContext(cmd.Context())
	if cfg.Output != config.OutputTable {
		return
	}
	pterm.DefaultSection.WithWriter(cmd.OutOrStdout()).Printfln(format, args...)
}
