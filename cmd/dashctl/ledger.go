package main

import (
	"fmt"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/client"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/finance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/leave"
	"github.com/spf13/cobra"
)

func newLeaveCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leave",
		Short: "Leave requests kept in the local mirror",
	}
	cmd.AddCommand(
		newLeaveListCmd(flags),
		newLeaveSubmitCmd(flags),
		newLeaveDecideCmd(flags, leave.StatusApproved),
		newLeaveDecideCmd(flags, leave.StatusRejected),
	)
	return cmd
}

func newLeaveListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your requests, or all requests for an admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			p, err := a.principal()
			if err != nil {
				return err
			}
			entries, err := a.leaves.List(cmd.Context(), p)
			if err != nil {
				return err
			}
			return printLeaves(cmd.OutOrStdout(), flags.json, entries)
		},
	}
}

func newLeaveSubmitCmd(flags *rootFlags) *cobra.Command {
	var req leave.CreateLeaveRequest
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a leave request",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			p, err := a.principal()
			if err != nil {
				return err
			}
			entry, err := a.leaves.Submit(cmd.Context(), p, req)
			if err != nil {
				return err
			}
			return printLeaves(cmd.OutOrStdout(), flags.json, []client.LeaveEntry{entry})
		},
	}
	cmd.Flags().StringVar(&req.StartDate, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&req.EndDate, "end", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&req.Reason, "reason", "", "reason")
	return cmd
}

// newLeaveDecideCmd builds the approve and reject commands.
func newLeaveDecideCmd(flags *rootFlags, status leave.Status) *cobra.Command {
	var comments string
	use := "approve"
	if status == leave.StatusRejected {
		use = "reject"
	}
	cmd := &cobra.Command{
		Use:   use + " <request-id>",
		Short: fmt.Sprintf("Mark a pending request %s (admin)", status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			p, err := a.principal()
			if err != nil {
				return err
			}
			entry, err := a.leaves.Decide(cmd.Context(), p, leave.UpdateStatusRequest{
				ID:       args[0],
				Status:   string(status),
				Comments: optional(comments),
			})
			if err != nil {
				return err
			}
			return printLeaves(cmd.OutOrStdout(), flags.json, []client.LeaveEntry{entry})
		},
	}
	cmd.Flags().StringVar(&comments, "comment", "", "note for the employee")
	return cmd
}

func newFinanceCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finance",
		Short: "Income and expense ledger kept in the local mirror (admin)",
	}
	cmd.AddCommand(
		newFinanceListCmd(flags),
		newFinanceAddCmd(flags),
		newFinanceUpdateCmd(flags),
		newFinanceDeleteCmd(flags),
		newFinanceTotalsCmd(flags),
	)
	return cmd
}

func newFinanceListCmd(flags *rootFlags) *cobra.Command {
	var typ, start, end string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ledger entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			p, err := a.principal()
			if err != nil {
				return err
			}
			filter := finance.ListFilter{Type: optional(typ), StartDate: optional(start), EndDate: optional(end)}
			entries, err := a.finance.List(cmd.Context(), p, filter)
			if err != nil {
				return err
			}
			return printFinance(cmd.OutOrStdout(), flags.json, entries)
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "income or expense")
	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD")
	return cmd
}

func newFinanceAddCmd(flags *rootFlags) *cobra.Command {
	var req finance.CreateRecordRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a ledger entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			p, err := a.principal()
			if err != nil {
				return err
			}
			entry, err := a.finance.Add(cmd.Context(), p, req)
			if err != nil {
				return err
			}
			return printFinance(cmd.OutOrStdout(), flags.json, []client.FinanceEntry{entry})
		},
	}
	cmd.Flags().StringVar(&req.Type, "type", "", "income or expense")
	cmd.Flags().Float64Var(&req.Amount, "amount", 0, "amount")
	cmd.Flags().StringVar(&req.Category, "category", "", "category")
	cmd.Flags().StringVar(&req.Date, "date", "", "day, YYYY-MM-DD")
	cmd.Flags().StringVar(&req.Description, "description", "", "description")
	return cmd
}

func newFinanceUpdateCmd(flags *rootFlags) *cobra.Command {
	var (
		typ, category, date, description string
		amount                           float64
	)
	cmd := &cobra.Command{
		Use:   "update <entry-id>",
		Short: "Change the given fields of a ledger entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			p, err := a.principal()
			if err != nil {
				return err
			}

			req := finance.UpdateRecordRequest{ID: args[0]}
			changed := cmd.Flags().Changed
			if changed("type") {
				req.Type = &typ
			}
			if changed("amount") {
				req.Amount = &amount
			}
			if changed("category") {
				req.Category = &category
			}
			if changed("date") {
				req.Date = &date
			}
			if changed("description") {
				req.Description = &description
			}

			entry, err := a.finance.Update(cmd.Context(), p, req)
			if err != nil {
				return err
			}
			return printFinance(cmd.OutOrStdout(), flags.json, []client.FinanceEntry{entry})
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "income or expense")
	cmd.Flags().Float64Var(&amount, "amount", 0, "amount")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&date, "date", "", "day, YYYY-MM-DD")
	cmd.Flags().StringVar(&description, "description", "", "description")
	return cmd
}

func newFinanceDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entry-id>",
		Short: "Delete a ledger entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			p, err := a.principal()
			if err != nil {
				return err
			}
			if err := a.finance.Delete(cmd.Context(), p, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newFinanceTotalsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "totals",
		Short: "Income and expense totals with the balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			p, err := a.principal()
			if err != nil {
				return err
			}
			totals, err := a.finance.Totals(cmd.Context(), p)
			if err != nil {
				return err
			}
			return printTotals(cmd.OutOrStdout(), flags.json, totals)
		},
	}
}
