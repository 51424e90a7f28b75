package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/xorig/rigctl/internal/cli"
	"github.com/xorig/rigctl/internal/ingest"
	"github.com/xorig/rigctl/internal/model"
	"github.com/xorig/rigctl/internal/schema"
)

func importCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "import <feed.json>",
		Short: "Ingest a spec value feed",
		Long: `Apply a JSON feed of spec value candidates to the catalog. Values that
fail their schema check are stored anyway and flagged for review; the run
continues past individual failures and is recorded either way.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open feed: %w", err)
			}
			defer f.Close()

			candidates, err := ingest.LoadFeed(f)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			handler := cli.NewInterruptHandler(os.Stdout)
			ctx = handler.HandleInterrupts(ctx)

			ingester := ingest.New(store, schema.Default(), os.Stdout)
			stats, err := ingester.Run(ctx, source, candidates)
			if err != nil {
				return err
			}

			summary := fmt.Sprintf("%d candidates: %d applied, %d flagged, %d failed in %s",
				stats.Total, stats.Applied, stats.Flagged, stats.Failed,
				stats.Duration.Round(time.Millisecond))
			switch stats.Status() {
			case model.RunSuccess:
				fmt.Println(cli.FormatSuccess(summary))
			case model.RunPartial:
				fmt.Println(cli.FormatWarning(summary))
			default:
				fmt.Println(cli.FormatError(summary))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Source id for the run (required)")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}
