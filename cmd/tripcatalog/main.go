// Command tripcatalog runs the catalog pipelines once from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/neexbeast/tripcatalog/internal/api"
	"github.com/neexbeast/tripcatalog/internal/app"
	"github.com/neexbeast/tripcatalog/internal/config"
)

// opener returns a ready service and a func that releases it.
type opener func(ctx context.Context) (api.CatalogService, func(), error)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(openApp).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// openApp loads configuration and connects the store. Logs go to stderr so
// stdout carries only the run result.
func openApp(ctx context.Context) (api.CatalogService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	a, err := app.New(ctx, cfg, cfg.NewLogger(os.Stderr))
	if err != nil {
		return nil, nil, err
	}
	return a.Service, a.Close, nil
}

func newRootCmd(open opener) *cobra.Command {
	var output string

	root := &cobra.Command{
		Use:          "tripcatalog",
		Short:        "Populate and maintain the travel catalog",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unsupported output format %q (want json or yaml)", output)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&output, "output", "o", "json", "result format: json or yaml")

	// withService opens the app for the duration of one command.
	withService := func(fn func(ctx context.Context, svc api.CatalogService) (any, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := fn(cmd.Context(), svc)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), output, result)
		}
	}

	var filter string
	destinations := &cobra.Command{
		Use:   "destinations",
		Short: "Insert seed destinations that are not in the catalog yet",
		Args:  cobra.NoArgs,
		RunE: withService(func(ctx context.Context, svc api.CatalogService) (any, error) {
			return svc.ScrapeDestinations(ctx, filter)
		}),
	}
	destinations.Flags().StringVar(&filter, "slug", "", "only process destinations whose slug contains this text")

	itineraries := &cobra.Command{
		Use:   "itineraries",
		Short: "Scrape itinerary pages and upsert them into the catalog",
		Args:  cobra.NoArgs,
		RunE: withService(func(ctx context.Context, svc api.CatalogService) (any, error) {
			return svc.ScrapeItineraries(ctx)
		}),
	}

	fixSlugs := &cobra.Command{
		Use:   "fix-slugs",
		Short: "Repair destination slugs that lack a country separator",
		Args:  cobra.NoArgs,
		RunE: withService(func(ctx context.Context, svc api.CatalogService) (any, error) {
			return svc.RepairSlugs(ctx)
		}),
	}

	root.AddCommand(destinations, itineraries, fixSlugs)
	return root
}

func render(w io.Writer, format string, v any) error {
	if format == "yaml" {
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
