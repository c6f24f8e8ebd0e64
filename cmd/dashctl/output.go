package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/client"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/finance"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRecords(w io.Writer, asJSON bool, loc *time.Location, records []client.Record) error {
	if asJSON {
		return printJSON(w, records)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSTATUS\tCHECK IN\tCHECK OUT\tHOURS\tORIGIN\tID")
	for _, rec := range records {
		hours := "-"
		if rec.HoursWorked != nil {
			hours = fmt.Sprintf("%.2f", *rec.HoursWorked)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.Date, rec.Status, clock(rec.CheckIn, loc), clock(rec.CheckOut, loc), hours, rec.Origin, rec.ID)
	}
	return tw.Flush()
}

func printSummary(w io.Writer, asJSON bool, month string, s client.Summary) error {
	if asJSON {
		return printJSON(w, s)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Month\t%s\n", month)
	fmt.Fprintf(tw, "Days recorded\t%d\n", s.TotalDays)
	fmt.Fprintf(tw, "Present\t%d\n", s.DaysPresent)
	fmt.Fprintf(tw, "Late\t%d\n", s.DaysLate)
	fmt.Fprintf(tw, "Absent\t%d\n", s.DaysAbsent)
	fmt.Fprintf(tw, "Total hours\t%.2f\n", s.TotalHours)
	fmt.Fprintf(tw, "Average hours\t%.2f\n", s.AverageHours)
	return tw.Flush()
}

func printLeaves(w io.Writer, asJSON bool, entries []client.LeaveEntry) error {
	if asJSON {
		return printJSON(w, entries)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "REQUESTED\tFROM\tTO\tSTATUS\tREASON\tUSER\tID")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.RequestDate, e.StartDate, e.EndDate, e.Status, e.Reason, e.UserID, e.ID)
	}
	return tw.Flush()
}

func printFinance(w io.Writer, asJSON bool, entries []client.FinanceEntry) error {
	if asJSON {
		return printJSON(w, entries)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tAMOUNT\tCATEGORY\tDESCRIPTION\tID")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%s\t%s\n",
			e.Date, e.Type, e.Amount, e.Category, e.Description, e.ID)
	}
	return tw.Flush()
}

func printTotals(w io.Writer, asJSON bool, t finance.Totals) error {
	if asJSON {
		return printJSON(w, finance.ToTotalsResponse(t))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Income\t%.2f\n", t.Income)
	fmt.Fprintf(tw, "Expenses\t%.2f\n", t.Expenses)
	fmt.Fprintf(tw, "Balance\t%.2f\n", t.Balance())
	return tw.Flush()
}

func clock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "-"
	}
	return t.In(loc).Format("15:04:05")
}
