package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hydrate/internal/errors"
	"github.com/vango-dev/hydrate/pkg/fixture"
)

func renderCmd(env *cliEnv) *cobra.Command {
	var (
		output string
		minify bool
	)

	cmd := &cobra.Command{
		Use:   "render <fixture.yaml>",
		Short: "Render a fixture to annotated server markup",
		Long: `Render the root value of a fixture to server markup with hydration
markers.

Examples:
  hydrate render fixtures/card.yaml
  hydrate render fixtures/card.yaml --minify -o card.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := env.config()
			if err != nil {
				return err
			}
			f, err := fixture.Load(args[0])
			if err != nil {
				return err
			}
			v, err := f.Root()
			if err != nil {
				return err
			}
			tc, err := newToolchain(cfg, minify, os.Stderr, nil)
			if err != nil {
				return err
			}

			if output == "" {
				return tc.renderer.RenderToWriter(cmd.OutOrStdout(), v)
			}
			markup, err := tc.renderer.RenderToString(v)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, []byte(markup), 0644); err != nil {
				return errors.New("E070").WithDetailf("write %s", output).Wrap(err)
			}
			success("Rendered %s to %s", f.Name, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write markup to a file instead of stdout")
	cmd.Flags().BoolVar(&minify, "minify", false, "Minify the rendered markup")

	return cmd
}
