package main

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/client"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/validator"
	"github.com/spf13/cobra"
)

var version = "v1.0.0"

type rootFlags struct {
	verbose bool
	json    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "dashctl",
		Short:         "Attendance client for dashpro",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log fallbacks and requests")
	root.PersistentFlags().BoolVar(&flags.json, "json", false, "print JSON instead of a table")

	root.AddCommand(
		newLoginCmd(flags),
		newCheckInCmd(flags),
		newCheckOutCmd(flags),
		newTodayCmd(flags),
		newHistoryCmd(flags),
		newHoursCmd(flags),
		newSummaryCmd(flags),
		newResetCmd(flags),
		newSeedLocalCmd(flags),
		newLeaveCmd(flags),
		newFinanceCmd(flags),
	)
	return root
}

func newLoginCmd(flags *rootFlags) *cobra.Command {
	var username, password, server string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			if server == "" {
				server = a.cfg.ServerURL
			}

			api := client.NewAPIClient(cmd.Context(), server, "", a.cfg.Timeout, a.loc)
			resp, err := api.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			session := client.Session{
				ServerURL: server,
				Token:     resp.Token,
				ExpiresAt: resp.ExpiresAt,
				UserID:    resp.User.ID,
				Username:  resp.User.Username,
				Role:      resp.User.Role,
			}
			if err := client.SaveSession(cmd.Context(), a.store, session); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s), token valid until %s\n", resp.User.Name, resp.User.Role, resp.ExpiresAt)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	cmd.Flags().StringVar(&server, "server", "", "server URL (defaults to DASHCTL_SERVER_URL)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

type locationFlags struct {
	lat, lng, accuracy float64
}

func (l *locationFlags) bind(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&l.lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&l.lng, "lng", 0, "longitude")
	cmd.Flags().Float64Var(&l.accuracy, "accuracy", 0, "accuracy in meters")
}

func (l *locationFlags) value(cmd *cobra.Command) *attendance.Location {
	if !cmd.Flags().Changed("lat") && !cmd.Flags().Changed("lng") {
		return nil
	}
	return &attendance.Location{Lat: l.lat, Lng: l.lng, Accuracy: l.accuracy}
}

func newCheckInCmd(flags *rootFlags) *cobra.Command {
	var loc locationFlags
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Check in for today",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			p, err := a.principal()
			if err != nil {
				return err
			}
			rec, err := a.repo.CheckIn(cmd.Context(), p, loc.value(cmd))
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), flags.json, a.loc, []client.Record{rec})
		},
	}
	loc.bind(cmd)
	return cmd
}

func newCheckOutCmd(flags *rootFlags) *cobra.Command {
	var loc locationFlags
	cmd := &cobra.Command{
		Use:   "checkout [record-id]",
		Short: "Check out of today's open record",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			p, err := a.principal()
			if err != nil {
				return err
			}
			var recordID string
			if len(args) == 1 {
				recordID = args[0]
			}
			rec, err := a.repo.CheckOut(cmd.Context(), p, recordID, loc.value(cmd))
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), flags.json, a.loc, []client.Record{rec})
		},
	}
	loc.bind(cmd)
	return cmd
}

func newTodayCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's record",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			p, err := a.principal()
			if err != nil {
				return err
			}
			rec, err := a.repo.Today(cmd.Context(), p.ID)
			if err != nil {
				return err
			}
			if rec == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not checked in today.")
				return nil
			}
			return printRecords(cmd.OutOrStdout(), flags.json, a.loc, []client.Record{*rec})
		},
	}
}

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	var start, end, userID string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List attendance, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := attendance.HistoryFilter{StartDate: optional(start), EndDate: optional(end)}
			if err := filter.Validate(); err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			p, err := a.principal()
			if err != nil {
				return err
			}
			if userID == "" {
				userID = p.ID
			}

			records, err := a.repo.ByUser(cmd.Context(), userID)
			if err != nil {
				return err
			}
			filtered := records[:0]
			for _, rec := range records {
				if filter.Contains(rec.Date) {
					filtered = append(filtered, rec)
				}
			}
			return printRecords(cmd.OutOrStdout(), flags.json, a.loc, filtered)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&userID, "user", "", "user id (defaults to the signed-in user)")
	return cmd
}

func newHoursCmd(flags *rootFlags) *cobra.Command {
	var date, userID string
	cmd := &cobra.Command{
		Use:   "hours",
		Short: "Hours worked on a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			p, err := a.principal()
			if err != nil {
				return err
			}
			if userID == "" {
				userID = p.ID
			}
			if date == "" {
				date = time.Now().In(a.loc).Format(attendance.DateLayout)
			}

			hours, err := a.repo.HoursWorked(cmd.Context(), userID, date)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %.2f hours\n", date, hours)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day, YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVar(&userID, "user", "", "user id (defaults to the signed-in user)")
	return cmd
}

func newSummaryCmd(flags *rootFlags) *cobra.Command {
	var month, userID string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Monthly attendance statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			p, err := a.principal()
			if err != nil {
				return err
			}
			if userID == "" {
				userID = p.ID
			}
			if month == "" {
				month = time.Now().In(a.loc).Format("2006-01")
			} else if _, err := time.Parse("2006-01", month); err != nil {
				return validator.ValidationErrors{{Field: "month", Message: "month must be YYYY-MM"}}
			}

			records, err := a.repo.ByUser(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), flags.json, month, client.Summarize(records, month))
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month, YYYY-MM (defaults to the current month)")
	cmd.Flags().StringVar(&userID, "user", "", "user id (defaults to the signed-in user)")
	return cmd
}

func newResetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <user-id>",
		Short: "Delete a user's record for today (admin)",
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
			if err := a.repo.RemoveToday(cmd.Context(), p, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed today's record for %s\n", args[0])
			return nil
		},
	}
}

func newSeedLocalCmd(flags *rootFlags) *cobra.Command {
	var (
		days                   int
		randSeed               uint64
		users                  []string
		withLeave, withFinance bool
	)
	cmd := &cobra.Command{
		Use:   "seed-local",
		Short: "Replace the local mirror with generated demo attendance",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.verbose)
			if err != nil {
				return err
			}
			if len(users) == 0 {
				p, err := a.principal()
				if err != nil {
					return err
				}
				users = []string{p.ID}
			}

			generated := fixtures.SampleAttendance(users, days, time.Now().In(a.loc), randSeed)
			records := make([]client.Record, 0, len(generated))
			for _, att := range generated {
				records = append(records, client.FromAttendance(att, client.OriginLocal))
			}
			if err := a.repo.Replace(cmd.Context(), records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d demo records to %s\n", len(records), a.cfg.MirrorDir)

			if !withLeave && !withFinance {
				return nil
			}
			p, err := a.principal()
			if err != nil {
				return err
			}
			seed, err := fixtures.Default()
			if err != nil {
				return err
			}
			if withLeave {
				samples := seed.LeaveRequests(map[string]string{a.session.Username: p.ID}, p.ID, a.loc)
				entries := make([]client.LeaveEntry, 0, len(samples))
				for _, s := range samples {
					entries = append(entries, sampleLeaveEntry(s))
				}
				if err := a.leaves.Replace(cmd.Context(), entries); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d leave requests\n", len(entries))
			}
			if withFinance {
				recs := seed.FinanceRecords(p.ID, a.loc)
				entries := make([]client.FinanceEntry, 0, len(recs))
				for _, r := range recs {
					entries = append(entries, client.FromFinance(r))
				}
				if err := a.finance.Replace(cmd.Context(), entries); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d finance records\n", len(entries))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "number of past days to generate")
	cmd.Flags().Uint64Var(&randSeed, "seed", 1, "generator seed")
	cmd.Flags().StringSliceVar(&users, "user", nil, "user ids (defaults to the signed-in user)")
	cmd.Flags().BoolVar(&withLeave, "leave", false, "also replace leave requests with the fixture requests of the signed-in user")
	cmd.Flags().BoolVar(&withFinance, "finance", false, "also replace the finance ledger with the fixture records")
	return cmd
}

// sampleLeaveEntry applies the fixture decision, if any, to the request.
func sampleLeaveEntry(s fixtures.SampleLeave) client.LeaveEntry {
	req := s.Request
	if d := s.Decision; d != nil {
		req.Status = d.Status
		req.AdminComments = d.Comments
		req.UpdatedBy = &d.DecidedBy
		req.UpdateDate = &d.DecidedAt
	}
	return client.FromLeave(req)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
