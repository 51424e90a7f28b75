package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xorig/rigctl/internal/cli"
	"github.com/xorig/rigctl/internal/service"
)

func exportCmd() *cobra.Command {
	var (
		category string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog as JSON",
		Long:  `Write components, including their offers, as a JSON array to stdout or a file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			components, err := store.GetComponents(ctx, service.ComponentFilter{Category: category})
			if err != nil {
				return fmt.Errorf("failed to load components: %w", err)
			}

			// Listing skips offers; pull them per component for the export.
			for i := range components {
				offers, err := store.GetOffers(ctx, components[i].ID)
				if err != nil {
					return fmt.Errorf("failed to load offers for %s: %w", components[i].ID, err)
				}
				components[i].Offers = offers
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(components); err != nil {
				return fmt.Errorf("failed to encode components: %w", err)
			}

			if output != "" {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d components to %s", len(components), output)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only export one category")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}
