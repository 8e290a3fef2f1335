package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/AtRiskMedia/tractstack-studio/internal/application/container"
	"github.com/AtRiskMedia/tractstack-studio/internal/application/startup"
	"github.com/AtRiskMedia/tractstack-studio/internal/domain/services"
	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/observability/logging"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := startup.Initialize(); err != nil {
				return fmt.Errorf("application startup failed: %w", err)
			}
			log.Println("Application has shut down gracefully.")
			return nil
		},
	}
}

func normalizeCmd() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Print the canonical form of a site document",
		Long: `Reads a site document from a file, or stdin when no file or "-" is
given, and prints it the way the editor stores it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 0 || args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read site: %w", err)
			}

			catalog, err := container.LoadCatalog()
			if err != nil {
				return err
			}
			normalizer := services.NewSiteNormalizer(services.NewStyleResolver(catalog))
			s, err := normalizer.NormalizeJSON(data)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(s.Raw())
		},
	}

	cmd.Flags().BoolVarP(&compact, "compact", "c", false, "Print without indentation")
	return cmd
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List style presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := container.LoadCatalog()
			if err != nil {
				return err
			}
			for _, id := range catalog.IDs() {
				marker := " "
				if id == catalog.DefaultID() {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, id)
			}
			return nil
		},
	}
}

func versionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions <siteId>",
		Short: "List saved versions of a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			c, err := startup.Build(ctx, logging.NewDiscardLogger())
			if err != nil {
				return err
			}
			defer c.Close()

			versions, err := c.StudioService.Versions(ctx, args[0])
			if err != nil {
				return err
			}
			if len(versions) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No saved versions for %s\n", args[0])
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tSAVED\tENTRY POINT\tBYTES")
			for _, v := range versions {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", v.Version, v.SavedAt.Format(time.RFC3339), v.EntryPointPageID, len(v.Payload))
			}
			return w.Flush()
		},
	}
}
