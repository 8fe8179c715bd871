package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/valentindosimont/ocmon/internal/report"
	"github.com/valentindosimont/ocmon/internal/timeframe"
)

// ExportCmd writes a report to a CSV or JSON file.
var ExportCmd = &cobra.Command{
	Use:       "export <report>",
	Short:     "Export a report to a file",
	Long:      "Write a report (sessions, daily, weekly, monthly, models, projects) to a CSV or JSON file in the export directory",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"sessions", "daily", "weekly", "monthly", "models", "projects"},
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}

		formatFlag, _ := cmd.Flags().GetString("format")
		if formatFlag == "" {
			formatFlag = e.cfg.Export.DefaultFormat
		}
		format, err := report.ParseFormat(formatFlag)
		if err != nil {
			return err
		}

		sessions, err := e.loader.LoadAll(0)
		if err != nil {
			return err
		}

		var rows report.Rows
		name := args[0]
		switch name {
		case "sessions":
			rows = report.SessionRows(sessions, e.table)
		case "daily":
			rows = report.DailyRows(timeframe.DailyBreakdown(sessions), e.table)
		case "weekly":
			weeks := timeframe.WeeklyBreakdown(timeframe.DailyBreakdown(sessions), e.cfg.Analytics.WeekStartDay)
			rows = report.WeeklyRows(weeks, e.table)
		case "monthly":
			weeks := timeframe.WeeklyBreakdown(timeframe.DailyBreakdown(sessions), e.cfg.Analytics.WeekStartDay)
			rows = report.MonthlyRows(timeframe.MonthlyBreakdown(weeks), e.table)
		case "models":
			rows = report.ModelRows(timeframe.ModelBreakdown(sessions, e.table, timeframe.DateRange{}))
		case "projects":
			rows = report.ProjectRows(timeframe.ProjectBreakdown(sessions, e.table, timeframe.DateRange{}))
		default:
			return fmt.Errorf("unknown report %q", name)
		}

		path, err := report.ExportFile(e.cfg.Paths.ExportDir, name, format, rows, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Exported %s report to %s\n", name, path)
		return nil
	},
}

func init() {
	ExportCmd.Flags().String("format", "", "Export format: csv or json (defaults to config)")
}
