package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/xorig/rigctl/internal/cli"
	"github.com/xorig/rigctl/internal/model"
	"github.com/xorig/rigctl/internal/schema"
	"github.com/xorig/rigctl/internal/service"
)

func componentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "components",
		Aliases: []string{"parts"},
		Short:   "Manage catalog components",
		Long:    `List, inspect, and edit the hardware components in the catalog.`,
	}

	cmd.AddCommand(listComponentsCmd())
	cmd.AddCommand(showComponentCmd())
	cmd.AddCommand(addComponentCmd())
	cmd.AddCommand(setSpecCmd())
	cmd.AddCommand(reviewComponentCmd())
	cmd.AddCommand(deleteComponentCmd())

	return cmd
}

func listComponentsCmd() *cobra.Command {
	var (
		category    string
		search      string
		needsReview bool
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List components",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			components, err := store.GetComponents(ctx, service.ComponentFilter{
				Category:    category,
				Search:      search,
				NeedsReview: needsReview,
				Limit:       limit,
			})
			if err != nil {
				return fmt.Errorf("failed to list components: %w", err)
			}

			if len(components) == 0 {
				fmt.Println(cli.InfoStyle.Render("No components found. Use 'rigctl components add' to create one."))
				return nil
			}

			for i := range components {
				fmt.Println(cli.ComponentLine(&components[i]))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&search, "search", "", "Substring match on brand, model, or variant")
	cmd.Flags().BoolVar(&needsReview, "needs-review", false, "Only components flagged for review")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of components to show")

	return cmd
}

func showComponentCmd() *cobra.Command {
	var withAudit bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a component in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			component, err := store.GetComponentByID(ctx, args[0])
			if err != nil {
				return err
			}

			registry := schema.Default()
			fmt.Println(cli.RenderBox(component.DisplayName(), renderComponent(registry, component)))

			if withAudit {
				entries, err := store.GetAuditForComponent(ctx, component.ID, 10)
				if err != nil {
					return fmt.Errorf("failed to load audit log: %w", err)
				}
				printAudit(entries)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withAudit, "audit", false, "Show recent audit entries")

	return cmd
}

func renderComponent(registry *schema.Registry, c *model.Component) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s  %s\n", c.ID, c.Category, string(c.Status))
	fmt.Fprintf(&b, "Completeness: %d%%", c.Quality.Completeness)
	if c.Quality.NeedsReview {
		fmt.Fprintf(&b, "  %s", cli.WarningStyle.Render("needs review: "+c.Quality.ReviewNotes))
	}
	b.WriteString("\n")

	if len(c.Compatibility) > 0 {
		b.WriteString("\nCompatibility:\n")
		keys := make([]string, 0, len(c.Compatibility))
		for k := range c.Compatibility {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  %-18s %s\n", k, c.Compatibility[k])
		}
	}

	if len(c.Specs) > 0 {
		b.WriteString("\nSpecs:\n")
		ids := make([]string, 0, len(c.Specs))
		for id := range c.Specs {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			sv := c.Specs[id]
			label, unit := id, ""
			if def, ok := registry.SpecDef(c.Category, id); ok {
				label, unit = def.Label, def.Unit
			}
			value := sv.Value.String()
			if unit != "" {
				value += " " + unit
			}
			fmt.Fprintf(&b, "  %-18s %-14s %s\n", label, value,
				cli.SubtleStyle.Render(fmt.Sprintf("%s %.2f", sv.SourceID, sv.Confidence)))
		}
	}

	if best := model.BestOffer(c.Offers); best != nil {
		fmt.Fprintf(&b, "\nBest offer: ₹%.0f from %s", best.EffectiveINR, best.VendorID)
		if !best.InStock {
			fmt.Fprintf(&b, " %s", cli.WarningStyle.Render("(out of stock)"))
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func printAudit(entries []model.AuditEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(cli.FormatTitle("Recent changes"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	for _, e := range entries {
		change := e.Field
		if e.Before != "" || e.After != "" {
			change = fmt.Sprintf("%s: %q -> %q", e.Field, e.Before, e.After)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.At.Local().Format(time.DateTime), e.Actor, e.Action, change)
	}
}

func addComponentCmd() *cobra.Command {
	var (
		category string
		brand    string
		mdl      string
		variant  string
	)

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Add a new component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			registry := schema.Default()
			if !registry.HasCategory(category) {
				return fmt.Errorf("unknown category %q (see 'rigctl schema categories')", category)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if _, err := store.GetComponentByID(ctx, id); err == nil {
				return fmt.Errorf("component %q already exists", id)
			}

			component := &model.Component{
				ID:       id,
				Category: category,
				Brand:    brand,
				Model:    mdl,
				Variant:  variant,
				Status:   model.StatusActive,
				Quality:  model.Quality{ReviewStatus: model.ReviewUnreviewed},
			}
			component.Quality.Completeness = registry.Completeness(component)

			if err := store.SaveComponent(ctx, component); err != nil {
				return fmt.Errorf("failed to save component: %w", err)
			}
			if err := store.AppendAudit(ctx, &model.AuditEntry{
				ComponentID: id,
				Actor:       actor(),
				Action:      model.AuditCreate,
			}); err != nil {
				return fmt.Errorf("failed to record audit entry: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created %s (%s)", id, category)))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Component category (required)")
	cmd.Flags().StringVar(&brand, "brand", "", "Brand name")
	cmd.Flags().StringVar(&mdl, "model", "", "Model name")
	cmd.Flags().StringVar(&variant, "variant", "", "Variant name")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func setSpecCmd() *cobra.Command {
	var (
		source     string
		confidence float64
	)

	cmd := &cobra.Command{
		Use:   "set <id> <spec> <value>",
		Short: "Set a spec or compatibility value",
		Long: `Set a single spec value on a component. The raw value is coerced against
the category schema; a value that fails validation is stored anyway and
the component is flagged for review.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, specID, raw := args[0], args[1], args[2]

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			return setComponentValue(ctx, store, id, specID, raw, source, confidence)
		},
	}

	cmd.Flags().StringVar(&source, "source", model.ManualSourceID, "Source attribution for the value")
	cmd.Flags().Float64Var(&confidence, "confidence", 1.0, "Confidence in the value (0..1)")

	return cmd
}

func setComponentValue(ctx context.Context, store service.Storage, id, specID, raw, source string, confidence float64) error {
	registry := schema.Default()

	component, err := store.GetComponentByID(ctx, id)
	if err != nil {
		return err
	}

	var before, after string
	flagged := false

	isCompat := false
	for _, k := range registry.CompatKeysFor(component.Category) {
		if k == specID {
			isCompat = true
			break
		}
	}

	if isCompat {
		before = component.Compatibility[specID]
		after = raw
		ok, err := registry.InDomain(specID, raw)
		if err != nil {
			return err
		}
		if !ok {
			flagged = true
			component.Quality.ReviewNotes = fmt.Sprintf("%s: %q is not a known %s", specID, raw, specID)
		}
		component.SetCompat(specID, raw)
	} else {
		if old, ok := component.Specs[specID]; ok {
			before = old.Value.String()
		}

		var value model.Value
		def, known := registry.SpecDef(component.Category, specID)
		if known {
			var verr error
			value, verr = schema.CoerceFor(def, raw)
			if verr != nil {
				flagged = true
				component.Quality.ReviewNotes = verr.Error()
				fmt.Println(cli.FormatWarning(verr.Error()))
			}
		} else {
			value = schema.Coerce(raw)
			flagged = true
			component.Quality.ReviewNotes = fmt.Sprintf("spec %s: not in the %s schema", specID, component.Category)
			fmt.Println(cli.FormatWarning(component.Quality.ReviewNotes))
		}
		after = value.String()

		component.SetSpec(specID, model.SpecValue{
			Value:      value,
			SourceID:   source,
			Confidence: confidence,
			UpdatedAt:  time.Now().UTC(),
		})
	}

	if flagged {
		component.Quality.NeedsReview = true
		component.Quality.ReviewStatus = model.ReviewUnreviewed
	}
	component.Quality.Completeness = registry.Completeness(component)

	if err := store.SaveComponent(ctx, component); err != nil {
		return fmt.Errorf("failed to save component: %w", err)
	}
	if err := store.AppendAudit(ctx, &model.AuditEntry{
		ComponentID: id,
		Actor:       actor(),
		Action:      model.AuditUpdate,
		Field:       specID,
		Before:      before,
		After:       after,
	}); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Set %s.%s = %s", id, specID, after)))
	return nil
}

func reviewComponentCmd() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "review <id> <approved|rejected|unreviewed>",
		Short: "Move a component through the review workflow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]
			status := model.ReviewStatus(args[1])

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.UpdateReviewStatus(ctx, id, status, notes); err != nil {
				return err
			}
			if err := store.AppendAudit(ctx, &model.AuditEntry{
				ComponentID: id,
				Actor:       actor(),
				Action:      model.AuditUpdate,
				Field:       "review_status",
				After:       string(status),
			}); err != nil {
				return fmt.Errorf("failed to record audit entry: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Marked %s as %s", id, status)))
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Review notes")

	return cmd
}

func deleteComponentCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			// Confirm deletion
			if !force {
				fmt.Printf("Are you sure you want to delete component %s? (y/N): ", id)
				var response string
				fmt.Scanln(&response)
				if strings.ToLower(response) != "y" {
					fmt.Println("Deletion cancelled.")
					return nil
				}
			}

			if err := store.DeleteComponent(ctx, id); err != nil {
				return err
			}
			if err := store.AppendAudit(ctx, &model.AuditEntry{
				ComponentID: id,
				Actor:       actor(),
				Action:      model.AuditDelete,
			}); err != nil {
				return fmt.Errorf("failed to record audit entry: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted %s", id)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}
