package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/xorig/rigctl/internal/cli"
	"github.com/xorig/rigctl/internal/schema"
)

func schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect the category schemas",
		Long:  `Show the built-in categories, their spec definitions, and the shared compatibility dimensions.`,
	}

	cmd.AddCommand(schemaCategoriesCmd())
	cmd.AddCommand(schemaSpecsCmd())
	cmd.AddCommand(schemaDimensionsCmd())

	return cmd
}

func schemaCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories and their roles",
		RunE: func(_ *cobra.Command, _ []string) error {
			registry := schema.Default()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "CATEGORY\tROLE\tSPECS\tCOMPAT KEYS\n")
			for _, category := range registry.Categories() {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
					category.ID,
					category.Role,
					len(category.SpecDefs),
					strings.Join(category.CompatKeys, ", "))
			}
			return nil
		},
	}
}

func schemaSpecsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "specs <category>",
		Short: "List the spec definitions for a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			registry := schema.Default()
			defs := registry.SpecDefsFor(args[0])
			if defs == nil {
				return fmt.Errorf("unknown category %q", args[0])
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "ID\tLABEL\tTYPE\tUNIT\tVALUES\n")
			for _, def := range defs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					def.ID, def.Label, def.Type, def.Unit, strings.Join(def.EnumValues, ", "))
			}
			return nil
		},
	}
}

func schemaDimensionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dimensions [key]",
		Short: "List compatibility dimensions and their values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			registry := schema.Default()

			keys := registry.DimensionKeys()
			if len(args) == 1 {
				keys = []string{args[0]}
			}

			for _, key := range keys {
				entries, err := registry.DomainFor(key)
				if err != nil {
					return err
				}
				ids := make([]string, 0, len(entries))
				for _, entry := range entries {
					ids = append(ids, entry.ID)
				}
				fmt.Printf("%s  %s\n", cli.BoldStyle.Render(key), strings.Join(ids, ", "))
			}
			return nil
		},
	}
}
