package commands

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/valentindosimont/ocmon/internal/live"
	"github.com/valentindosimont/ocmon/internal/tui"
)

// LiveCmd runs the live dashboard.
var LiveCmd = &cobra.Command{
	Use:   "live",
	Short: "Live session dashboard",
	Long:  "Follow the most recently active session with a full-screen dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}

		refresh := e.cfg.RefreshInterval()
		if cmd.Flags().Changed("interval") {
			secs, _ := cmd.Flags().GetInt("interval")
			if secs < 1 {
				return fmt.Errorf("invalid --interval %d (want >= 1 second)", secs)
			}
			refresh = time.Duration(secs) * time.Second
		}

		tracker := live.NewTracker(e.loader, e.table)
		model := tui.New(tracker, e.table, refresh)
		_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
		return err
	},
}

// StatusCmd prints a single live snapshot and exits.
var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "One-shot session status",
	Long:  "Print a single snapshot of the most recently active session",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}

		tracker := live.NewTracker(e.loader, e.table)
		status, err := tracker.Tick(time.Now())
		if err != nil {
			return err
		}

		s := status.Session
		fmt.Printf("Session:      %s\n", s.DisplayTitle())
		fmt.Printf("Project:      %s\n", s.ProjectName())
		fmt.Printf("Interactions: %d\n", s.InteractionCount())
		fmt.Printf("Tokens:       %d\n", s.TotalTokens().Total())
		fmt.Printf("Cost:         $%s\n", status.Cost.StringFixed(2))
		fmt.Printf("Output rate:  %.1f tok/s\n", status.OutputRate)

		activity := status.Activity.String()
		if status.LastActivity >= 0 {
			activity += fmt.Sprintf(" (%s ago)", status.LastActivity.Round(time.Second))
		}
		fmt.Printf("Activity:     %s\n", activity)

		if status.Context.Window > 0 {
			fmt.Printf("Context:      %.1f%% (%d / %d)\n",
				status.Context.Percent, status.Context.Size, status.Context.Window)
		}
		return nil
	},
}

func init() {
	LiveCmd.Flags().Int("interval", 0, "Refresh interval in seconds (defaults to config)")
}
