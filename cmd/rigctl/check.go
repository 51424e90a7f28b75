package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xorig/rigctl/internal/cli"
	"github.com/xorig/rigctl/internal/model"
	"github.com/xorig/rigctl/internal/rules"
	"github.com/xorig/rigctl/internal/schema"
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <component-id>...",
		Short: "Check a build for compatibility",
		Long: `Evaluate every enabled compatibility rule against the given set of
components. Rules whose roles cannot be bound (a missing part, or two parts
in the same category) are reported as skipped, not failed. The command exits
non-zero only when an error-severity rule is violated.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			components := make([]*model.Component, 0, len(args))
			for _, id := range args {
				component, err := store.GetComponentByID(ctx, id)
				if err != nil {
					return err
				}
				components = append(components, component)
			}

			ruleList, err := store.GetEnabledRules(ctx)
			if err != nil {
				return fmt.Errorf("failed to load rules: %w", err)
			}

			engine := rules.NewEngine(schema.Default())
			report := engine.CheckBuild(ruleList, components)

			fmt.Println(cli.RenderReport(report))

			if report.HasErrors() {
				return fmt.Errorf("build has compatibility errors")
			}
			return nil
		},
	}

	return cmd
}
