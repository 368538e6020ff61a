package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/forg-labs/forg/internal/config"
	"github.com/forg-labs/forg/internal/ports"
	"github.com/forg-labs/forg/internal/runner"
	"github.com/forg-labs/forg/internal/scaffold"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	initDir     string
	initWebPort string
	initLogPort string
	initStrict  bool
)

// newRunner builds the package-manager runner. Tests replace it.
var newRunner = func(binary string) runner.Runner {
	return runner.NewExec(binary)
}

func init() {
	initCmd.Flags().StringVar(&initDir, "dir", "", "Project directory (default: current directory; created if missing)")
	initCmd.Flags().StringVar(&initWebPort, "web-port", "", "Airflow webserver port; skips the prompt")
	initCmd.Flags().StringVar(&initLogPort, "log-port", "", "Airflow log server port; skips the prompt")
	initCmd.Flags().BoolVar(&initStrict, "strict", false, "Stop when a package manager step fails")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a data-pipeline project",
	Long: `Scaffold an Airflow data-pipeline project in the current directory (or --dir).

The directory name becomes the project and package name, so it must be a valid
Python identifier. Folders and __init__.py are created when missing, the Poetry
manifest is initialised (or installed when pyproject.toml already exists), the
VS Code files and pipeline sources are regenerated, and airflow.cfg is written
under $AIRFLOW_HOME (default ~/airflow) the first time only.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("strict") {
			settings.Strict = initStrict
		}

		root := initDir
		if root == "" {
			if root, err = os.Getwd(); err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		result, err := scaffold.Run(cmd.Context(), scaffold.Options{
			Root:     root,
			Settings: settings,
			Runner:   newRunner(settings.PackageManager),
			Ports:    portProvider(cmd, out),
			Out:      out,
			Log:      log.Logger,
		})
		if err != nil {
			return err
		}
		printSummary(out, result)
		return nil
	},
}

// portProvider prompts unless either port was given on the command line.
func portProvider(cmd *cobra.Command, out io.Writer) ports.Provider {
	if cmd.Flags().Changed("web-port") || cmd.Flags().Changed("log-port") {
		return ports.Static{WebServerPort: initWebPort, LogServerPort: initLogPort}
	}
	if in, ok := cmd.InOrStdin().(*os.File); ok {
		return ports.ForInput(in, out)
	}
	return ports.Interactive{In: cmd.InOrStdin(), Out: out}
}

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func printSummary(w io.Writer, result *scaffold.Result) {
	if len(result.Warnings) > 0 {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d warning(s):", len(result.Warnings))))
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warning)
		}
	}

	lines := []string{
		fmt.Sprintf("%s scaffolded in %s", result.Project.Name, result.Project.Root),
		fmt.Sprintf("%d files generated", len(result.Files)),
	}
	if result.SchedulerWritten {
		lines = append(lines, "scheduler config written to "+result.SchedulerConfig)
	}
	fmt.Fprintln(w, bannerStyle.Render(strings.Join(lines, "\n")))
}
