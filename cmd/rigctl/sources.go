package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/xorig/rigctl/internal/cli"
	"github.com/xorig/rigctl/internal/model"
)

func sourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the known data sources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			sources, err := store.GetSources(ctx)
			if err != nil {
				return fmt.Errorf("failed to list sources: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "ID\tTYPE\tNAME\tURL\n")
			for _, src := range sources {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", src.ID, src.Type, src.Name, src.BaseURL)
			}
			return nil
		},
	}
}

func runsCmd() *cobra.Command {
	var (
		source string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent ingestion runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.GetRuns(ctx, source, limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			if len(runs) == 0 {
				fmt.Println(cli.InfoStyle.Render("No ingestion runs recorded yet."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "ID\tSOURCE\tSTATUS\tSTARTED\tNOTES\n")
			for _, run := range runs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					run.ID, run.SourceID, renderRunStatus(run.Status),
					run.StartedAt.Local().Format(time.DateTime), run.Notes)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Filter by source id")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")

	return cmd
}

func renderRunStatus(status model.RunStatus) string {
	switch status {
	case model.RunSuccess:
		return cli.SuccessStyle.Render(string(status))
	case model.RunPartial:
		return cli.WarningStyle.Render(string(status))
	default:
		return cli.ErrorStyle.Render(string(status))
	}
}
