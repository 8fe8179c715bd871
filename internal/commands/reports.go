package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/valentindosimont/ocmon/internal/report"
	"github.com/valentindosimont/ocmon/internal/session"
	"github.com/valentindosimont/ocmon/internal/timeframe"
)

// SessionsCmd lists recent sessions with totals.
var SessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent sessions",
	Long:  "List recent sessions with their models, token usage, cost and duration",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		if !cmd.Flags().Changed("limit") {
			limit = e.cfg.Analytics.RecentSessionsLimit
		}

		sessions, err := e.loader.LoadAll(limit)
		if err != nil {
			return err
		}

		rows := report.SessionRows(sessions, e.table)
		footer := sessionsFooter(sessions, e)
		return report.RenderWithFooter(os.Stdout, rows, footer)
	},
}

func sessionsFooter(sessions []*session.SessionData, e *env) []string {
	var tokens int64
	interactions := 0
	cost := decimal.Zero
	for _, s := range sessions {
		tokens += s.TotalTokens().Total()
		interactions += s.InteractionCount()
		cost = cost.Add(e.table.SessionCost(s))
	}
	return []string{
		fmt.Sprintf("Total (%d)", len(sessions)), "", "",
		fmt.Sprintf("%d", interactions),
		fmt.Sprintf("%d", tokens),
		"$" + cost.StringFixed(2),
		"", "",
	}
}

// DailyCmd reports usage per calendar day.
var DailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Daily usage report",
	Long:  "Aggregate session usage per calendar day",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		sessions, err := e.loader.LoadAll(0)
		if err != nil {
			return err
		}

		days := timeframe.DailyBreakdown(sessions)

		if month, _ := cmd.Flags().GetString("month"); month != "" {
			m, err := time.ParseInLocation("2006-01", month, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --month %q (want YYYY-MM)", month)
			}
			var kept []timeframe.DailyUsage
			for _, d := range days {
				if d.Date.Year() == m.Year() && d.Date.Month() == m.Month() {
					kept = append(kept, d)
				}
			}
			days = kept
		}

		if err := report.Render(os.Stdout, report.DailyRows(days, e.table)); err != nil {
			return err
		}

		if breakdown, _ := cmd.Flags().GetBool("breakdown"); breakdown {
			for _, d := range days {
				fmt.Printf("\n%s\n", d.Date.Format("2006-01-02"))
				printPerModel(d.Sessions, e)
			}
		}
		return nil
	},
}

// WeeklyCmd reports usage per week.
var WeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Weekly usage report",
	Long:  "Aggregate session usage per week, starting on the configured week start day",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		sessions, err := e.loader.LoadAll(0)
		if err != nil {
			return err
		}

		weekStart := e.cfg.Analytics.WeekStartDay
		if cmd.Flags().Changed("week-start") {
			weekStart, _ = cmd.Flags().GetInt("week-start")
		}
		if weekStart < 0 || weekStart > 6 {
			return fmt.Errorf("invalid --week-start %d (want 0=Monday .. 6=Sunday)", weekStart)
		}

		weeks := timeframe.WeeklyBreakdown(timeframe.DailyBreakdown(sessions), weekStart)
		weeks = filterWeeksByYear(weeks, cmd)

		if err := report.Render(os.Stdout, report.WeeklyRows(weeks, e.table)); err != nil {
			return err
		}

		if breakdown, _ := cmd.Flags().GetBool("breakdown"); breakdown {
			for _, w := range weeks {
				fmt.Printf("\n%d-W%02d\n", w.Year, w.Week)
				printPerModel(weekSessions(w), e)
			}
		}
		return nil
	},
}

// MonthlyCmd reports usage per month.
var MonthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Monthly usage report",
	Long:  "Aggregate session usage per month, built from whole weeks",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		sessions, err := e.loader.LoadAll(0)
		if err != nil {
			return err
		}

		weekStart := e.cfg.Analytics.WeekStartDay
		weeks := timeframe.WeeklyBreakdown(timeframe.DailyBreakdown(sessions), weekStart)
		months := timeframe.MonthlyBreakdown(weeks)

		if cmd.Flags().Changed("year") {
			year, _ := cmd.Flags().GetInt("year")
			var kept []timeframe.MonthlyUsage
			for _, m := range months {
				if m.Year == year {
					kept = append(kept, m)
				}
			}
			months = kept
		}

		if err := report.Render(os.Stdout, report.MonthlyRows(months, e.table)); err != nil {
			return err
		}

		if breakdown, _ := cmd.Flags().GetBool("breakdown"); breakdown {
			for _, m := range months {
				fmt.Printf("\n%d-%02d\n", m.Year, int(m.Month))
				var monthSessions []*session.SessionData
				for _, w := range m.Weeks {
					monthSessions = append(monthSessions, weekSessions(w)...)
				}
				printPerModel(monthSessions, e)
			}
		}
		return nil
	},
}

// ModelsCmd reports usage per model over an optional date range.
var ModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Per-model usage report",
	Long:  "Aggregate usage, cost and output rate per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		sessions, err := e.loader.LoadAll(0)
		if err != nil {
			return err
		}
		r, err := dateRange(cmd)
		if err != nil {
			return err
		}

		rep := timeframe.ModelBreakdown(sessions, e.table, r)
		return report.RenderWithFooter(os.Stdout, report.ModelRows(rep), []string{
			"Total", "", "",
			fmt.Sprintf("%d", rep.TotalTokens().Total()),
			"$" + rep.TotalCost().StringFixed(2),
			"", "", "",
		})
	},
}

// ProjectsCmd reports usage per project over an optional date range.
var ProjectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Per-project usage report",
	Long:  "Aggregate usage and cost per project directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		sessions, err := e.loader.LoadAll(0)
		if err != nil {
			return err
		}
		r, err := dateRange(cmd)
		if err != nil {
			return err
		}

		rep := timeframe.ProjectBreakdown(sessions, e.table, r)
		return report.RenderWithFooter(os.Stdout, report.ProjectRows(rep), []string{
			"Total", "", "",
			fmt.Sprintf("%d", rep.TotalTokens().Total()),
			"$" + rep.TotalCost().StringFixed(4),
			"",
		})
	},
}

func init() {
	SessionsCmd.Flags().Int("limit", 0, "Maximum number of sessions to list (0 = config default)")

	DailyCmd.Flags().String("month", "", "Only show days in the given month (YYYY-MM)")
	DailyCmd.Flags().Bool("breakdown", false, "Show per-model rows under each day")

	WeeklyCmd.Flags().Int("year", 0, "Only show weeks starting in the given year")
	WeeklyCmd.Flags().Int("week-start", 0, "First day of the week (0=Monday .. 6=Sunday)")
	WeeklyCmd.Flags().Bool("breakdown", false, "Show per-model rows under each week")

	MonthlyCmd.Flags().Int("year", 0, "Only show months in the given year")
	MonthlyCmd.Flags().Bool("breakdown", false, "Show per-model rows under each month")

	ModelsCmd.Flags().String("from", "", "Start date (YYYY-MM-DD)")
	ModelsCmd.Flags().String("to", "", "End date (YYYY-MM-DD)")
	ProjectsCmd.Flags().String("from", "", "Start date (YYYY-MM-DD)")
	ProjectsCmd.Flags().String("to", "", "End date (YYYY-MM-DD)")
}

func dateRange(cmd *cobra.Command) (timeframe.DateRange, error) {
	var r timeframe.DateRange
	if from, _ := cmd.Flags().GetString("from"); from != "" {
		t, err := time.ParseInLocation("2006-01-02", from, time.Local)
		if err != nil {
			return r, fmt.Errorf("invalid --from %q (want YYYY-MM-DD)", from)
		}
		r.Start = t
	}
	if to, _ := cmd.Flags().GetString("to"); to != "" {
		t, err := time.ParseInLocation("2006-01-02", to, time.Local)
		if err != nil {
			return r, fmt.Errorf("invalid --to %q (want YYYY-MM-DD)", to)
		}
		r.End = t
	}
	return r, nil
}

func filterWeeksByYear(weeks []timeframe.WeeklyUsage, cmd *cobra.Command) []timeframe.WeeklyUsage {
	if !cmd.Flags().Changed("year") {
		return weeks
	}
	year, _ := cmd.Flags().GetInt("year")
	var kept []timeframe.WeeklyUsage
	for _, w := range weeks {
		if w.StartDate.Year() == year {
			kept = append(kept, w)
		}
	}
	return kept
}

func weekSessions(w timeframe.WeeklyUsage) []*session.SessionData {
	var out []*session.SessionData
	for _, d := range w.Days {
		out = append(out, d.Sessions...)
	}
	return out
}

func printPerModel(sessions []*session.SessionData, e *env) {
	for _, row := range report.BreakdownRows(timeframe.PerModel(sessions, e.table)) {
		fmt.Printf("%-40s %8s %8s %14s %10s\n", row[0], row[1], row[2], row[3], row[4])
	}
}
