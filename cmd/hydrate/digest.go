package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hydrate/internal/errors"
	"github.com/vango-dev/hydrate/pkg/digest"
	"github.com/vango-dev/hydrate/pkg/fixture"
)

func digestCmd(_ *cliEnv) *cobra.Command {
	var (
		fixturePath string
		name        string
	)

	cmd := &cobra.Command{
		Use:   "digest [strings...]",
		Short: "Print the digest of a template's static strings",
		Long: `Print the digest that open markers carry for a template.

The static strings are given as arguments, or taken from a named
template of a fixture.

Examples:
  hydrate digest '<p>' '</p>'
  hydrate digest --fixture fixtures/card.yaml --template card
  hydrate digest --fixture fixtures/card.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if fixturePath == "" {
				if len(args) == 0 {
					return errors.New("E070").WithDetail("no strings given").
						WithSuggestion("Pass the static strings as arguments, or use --fixture")
				}
				fmt.Fprintln(out, digest.Compute(args))
				return nil
			}
			if len(args) > 0 {
				return errors.New("E070").WithDetail("strings and --fixture are exclusive")
			}

			f, err := fixture.Load(fixturePath)
			if err != nil {
				return err
			}
			if name != "" {
				strs, err := f.Strings(name)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, digest.Compute(strs))
				return nil
			}
			for _, n := range f.TemplateNames() {
				fmt.Fprintf(out, "%s\t%s\n", digest.Compute(f.Templates[n]), n)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&fixturePath, "fixture", "f", "", "Fixture file to read templates from")
	cmd.Flags().StringVarP(&name, "template", "t", "", "Template name within the fixture")

	return cmd
}
