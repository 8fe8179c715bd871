package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valentindosimont/ocmon/internal/config"
	"github.com/valentindosimont/ocmon/internal/pricing"
	"github.com/valentindosimont/ocmon/internal/session"
)

// RootCmd is the ocmon entry command.
var RootCmd = &cobra.Command{
	Use:           "ocmon",
	Short:         "OpenCode usage monitor",
	Long:          "Track OpenCode session usage: tokens, cost, per-model and per-project reports, and a live dashboard.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().String("config", "", "Path to config file (default "+config.DefaultPath()+")")

	RootCmd.AddCommand(SessionsCmd)
	RootCmd.AddCommand(DailyCmd)
	RootCmd.AddCommand(WeeklyCmd)
	RootCmd.AddCommand(MonthlyCmd)
	RootCmd.AddCommand(ModelsCmd)
	RootCmd.AddCommand(ProjectsCmd)
	RootCmd.AddCommand(LiveCmd)
	RootCmd.AddCommand(StatusCmd)
	RootCmd.AddCommand(ExportCmd)
}

// env bundles the loaded configuration, pricing table and session
// loader shared by every command.
type env struct {
	cfg    *config.Config
	table  pricing.Table
	loader *session.Loader
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	table, err := pricing.LoadTable(cfg.Pricing.ModelsFile)
	if err != nil {
		return nil, fmt.Errorf("load pricing table: %w", err)
	}

	return &env{
		cfg:    cfg,
		table:  table,
		loader: session.NewLoader(cfg.MessagesDir(), cfg.TitleDir()),
	}, nil
}
