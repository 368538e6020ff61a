package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/forg-labs/forg/internal/branding"
	"github.com/forg-labs/forg/internal/config"
	"github.com/forg-labs/forg/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	logLevel string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` bootstraps Airflow data-pipeline projects: folder layout, Poetry
manifest, VS Code integration, pipeline skeleton and the machine-wide airflow.cfg.
Every command is safe to re-run inside an existing project.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logLevel
		var cfgErr error
		if level == "" {
			level, cfgErr = config.Get("log_level")
		}
		logging.Setup(level)
		if cfgErr != nil {
			log.Warn().Err(cfgErr).Msg("could not read log level from config")
		}
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	// After the first interrupt, a second one gets the default behaviour.
	go func() {
		<-ctx.Done()
		stop()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
