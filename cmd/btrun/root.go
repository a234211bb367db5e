package main

import (
	"github.com/spf13/cobra"

	"github.com/zeusync/behave/internal/injector"
	"github.com/zeusync/behave/internal/observability/log"
)

func newRootCmd() *cobra.Command {
	cfg, envErr := loadEnv()
	if envErr != nil {
		cfg = envConfig{LogLevel: "info", LogFormat: "console", Ticks: 10000}
	}
	root := &cobra.Command{
		Use:   "btrun",
		Short: "btrun loads and runs behavior tree definitions",
		Long: `btrun builds behavior trees from YAML or JSON definitions and advances
them step by step, printing the outcome and the final blackboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return envErr
		},
	}

	// Persistent flags (available to all commands)
	root.PersistentFlags().String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error or silent")
	root.PersistentFlags().String("log-format", cfg.LogFormat, "Log encoding: console or json")

	root.AddCommand(newRunCmd(cfg), newValidateCmd(), newTypesCmd())
	return root
}

// setup builds the process services from the persistent flags.
func setup(cmd *cobra.Command) (*injector.App, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	return injector.InitializeApp(log.Config{Level: level, Format: log.Format(format)})
}
