package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/xorig/rigctl/internal/cli"
	"github.com/xorig/rigctl/internal/model"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage compatibility rules",
		Long:  `List, create, edit, enable, and disable the rules used by 'rigctl check'.`,
	}

	cmd.AddCommand(listRulesCmd())
	cmd.AddCommand(showRuleCmd())
	cmd.AddCommand(createRuleCmd())
	cmd.AddCommand(editRuleCmd())
	cmd.AddCommand(enableRuleCmd(true))
	cmd.AddCommand(enableRuleCmd(false))
	cmd.AddCommand(deleteRuleCmd())

	return cmd
}

func listRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			rules, err := store.GetRules(ctx)
			if err != nil {
				return fmt.Errorf("failed to list rules: %w", err)
			}

			if len(rules) == 0 {
				fmt.Println(cli.InfoStyle.Render("No rules defined. Use 'rigctl rules create' to add one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "ID\tSEVERITY\tEXPRESSION\tENABLED\tNAME\n")
			for _, r := range rules {
				enabled := "yes"
				if !r.Enabled {
					enabled = cli.SubtleStyle.Render("no")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					r.ID, cli.SeverityBadge(r.Severity), r.Expr.String(), enabled, r.Name)
			}
			return nil
		},
	}
}

func showRuleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a rule in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			rule, err := store.GetRule(ctx, args[0])
			if err != nil {
				return err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%s %s\n", cli.SeverityBadge(rule.Severity), rule.Expr.String())
			fmt.Fprintf(&b, "Applies: %s\n", rule.Applies)
			fmt.Fprintf(&b, "Message: %s\n", rule.Message)
			if !rule.Enabled {
				b.WriteString(cli.SubtleStyle.Render("disabled") + "\n")
			}
			fmt.Println(cli.RenderBox(rule.ID+" "+rule.Name, strings.TrimRight(b.String(), "\n")))
			return nil
		},
	}
}

func ruleFlags(cmd *cobra.Command, name, applies, severity, op, left, right, message *string) {
	cmd.Flags().StringVar(name, "name", "", "Human-readable rule name")
	cmd.Flags().StringVar(applies, "applies", "", "Which categories the rule concerns, e.g. 'CPU + Motherboard'")
	cmd.Flags().StringVar(severity, "severity", "", "error, warn, or info")
	cmd.Flags().StringVar(op, "op", "", "eq, lte, or gte")
	cmd.Flags().StringVar(left, "left", "", "Left operand as role.key, e.g. cpu.socket")
	cmd.Flags().StringVar(right, "right", "", "Right operand as role.key, e.g. mobo.socket")
	cmd.Flags().StringVar(message, "message", "", "Message shown when the rule is violated")
}

func createRuleCmd() *cobra.Command {
	var name, applies, severity, op, left, right, message string

	cmd := &cobra.Command{
		Use:   "create <id>",
		Short: "Create a new rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rule := model.CompatibilityRule{
				ID:       args[0],
				Name:     name,
				Applies:  applies,
				Severity: model.Severity(severity),
				Message:  message,
				Enabled:  true,
			}

			var err error
			if rule.Expr.Left, err = model.ParsePath(left); err != nil {
				return err
			}
			if rule.Expr.Right, err = model.ParsePath(right); err != nil {
				return err
			}
			rule.Expr.Op = model.Operator(op)
			if err := rule.Validate(); err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.CreateRule(ctx, &rule); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created rule %s: %s", rule.ID, rule.Expr.String())))
			return nil
		},
	}

	ruleFlags(cmd, &name, &applies, &severity, &op, &left, &right, &message)
	for _, f := range []string{"name", "severity", "op", "left", "right", "message"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

func editRuleCmd() *cobra.Command {
	var name, applies, severity, op, left, right, message string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an existing rule",
		Long:  `Edit a rule. Only the flags you pass change; everything else is kept.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			rule, err := store.GetRule(ctx, args[0])
			if err != nil {
				return err
			}

			if name != "" {
				rule.Name = name
			}
			if applies != "" {
				rule.Applies = applies
			}
			if severity != "" {
				rule.Severity = model.Severity(severity)
			}
			if op != "" {
				rule.Expr.Op = model.Operator(op)
			}
			if left != "" {
				if rule.Expr.Left, err = model.ParsePath(left); err != nil {
					return err
				}
			}
			if right != "" {
				if rule.Expr.Right, err = model.ParsePath(right); err != nil {
					return err
				}
			}
			if message != "" {
				rule.Message = message
			}
			if err := rule.Validate(); err != nil {
				return err
			}

			if err := store.UpdateRule(ctx, rule); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated rule %s", rule.ID)))
			return nil
		},
	}

	ruleFlags(cmd, &name, &applies, &severity, &op, &left, &right, &message)

	return cmd
}

func enableRuleCmd(enable bool) *cobra.Command {
	use, short := "enable <id>", "Enable a rule"
	if !enable {
		use, short = "disable <id>", "Disable a rule without deleting it"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SetRuleEnabled(ctx, args[0], enable); err != nil {
				return err
			}

			state := "enabled"
			if !enable {
				state = "disabled"
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Rule %s %s", args[0], state)))
			return nil
		},
	}
}

func deleteRuleCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if !force {
				fmt.Printf("Are you sure you want to delete rule %s? (y/N): ", args[0])
				var response string
				fmt.Scanln(&response)
				if strings.ToLower(response) != "y" {
					fmt.Println("Deletion cancelled.")
					return nil
				}
			}

			if err := store.DeleteRule(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted rule %s", args[0])))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}
