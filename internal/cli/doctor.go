package cli

import (
	"fmt"
	"os"

	"github.com/forg-labs/forg/internal/config"
	"github.com/forg-labs/forg/internal/doctor"
	"github.com/spf13/cobra"
)

var doctorDir string

func init() {
	doctorCmd.Flags().StringVar(&doctorDir, "dir", "", "Project directory (default: current directory)")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check a scaffolded project and its tooling",
	Long: `Run diagnostic checks on the project in the current directory (or --dir):
package manager and interpreter, pyproject.toml, folder layout, VS Code files
and the global airflow.cfg.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load()
		if err != nil {
			return err
		}
		root := doctorDir
		if root == "" {
			if root, err = os.Getwd(); err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		report, err := doctor.Run(cmd.Context(), out, doctor.Options{Root: root, Settings: settings})
		if err != nil {
			return err
		}
		if !report.Healthy() {
			return fmt.Errorf("%d missing, %d warning(s)", report.Miss, report.Warn)
		}
		fmt.Fprintf(out, "All %d checks passed.\n", report.OK)
		return nil
	},
}
