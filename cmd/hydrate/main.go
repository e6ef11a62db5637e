package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hydrate/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "hydrate",
		Short: "Render and hydrate marker-annotated templates",
		Long: `hydrate renders template fixtures to server markup and checks that the
markup hydrates back into the same part tree.

Fixtures are YAML files describing a template result graph. Markup is
annotated with comment markers that hydration uses to rebuild parts
without rewriting the DOM.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to hydrate.json or its directory")

	env := &cliEnv{configPath: &configPath}
	cmd.AddCommand(
		digestCmd(env),
		renderCmd(env),
		checkCmd(env),
		serveCmd(env),
		versionCmd(),
	)
	return cmd
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
