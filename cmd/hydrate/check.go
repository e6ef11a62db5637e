package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/hydrate/internal/errors"
	"github.com/vango-dev/hydrate/pkg/dom"
	"github.com/vango-dev/hydrate/pkg/fixture"
	"github.com/vango-dev/hydrate/pkg/marker"
	"github.com/vango-dev/hydrate/pkg/part"
)

// report is the outcome of hydrating a fixture.
type report struct {
	Fixture string      `json:"fixture" yaml:"fixture"`
	Markup  string      `json:"markup,omitempty" yaml:"markup,omitempty"`
	Markers int         `json:"markers" yaml:"markers"`
	Parts   int         `json:"parts" yaml:"parts"`
	Shape   *part.Shape `json:"shape,omitempty" yaml:"shape,omitempty"`
	Error   *errorInfo  `json:"error,omitempty" yaml:"error,omitempty"`
}

type errorInfo struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// check hydrates markup against the fixture's root value. Empty markup
// falls back to the fixture's own markup, then to a fresh server render.
// A hydration failure is recorded in the report; the error is only
// returned when the check could not run.
func (tc *toolchain) check(ctx context.Context, f *fixture.File, markup string) (*report, error) {
	if markup == "" {
		markup = f.Markup
	}
	if markup == "" {
		v, err := f.Root()
		if err != nil {
			return nil, err
		}
		if markup, err = tc.renderer.RenderToString(v); err != nil {
			return nil, err
		}
	}

	container, err := dom.ParseFragment(markup, "div")
	if err != nil {
		return nil, errors.New("E070").WithDetail("parse markup").Wrap(err)
	}
	rep := &report{Fixture: f.Name, Markup: markup}
	markers := tc.runtime.Markers()
	for n := range marker.NewScanner(container).All() {
		if kind, _ := markers.Classify(n.Data); kind != marker.KindNone {
			rep.Markers++
		}
	}

	v, err := f.Root()
	if err != nil {
		return nil, err
	}
	root, err := tc.runtime.HydrateContext(ctx, v, container)
	if err != nil {
		rep.Error = &errorInfo{Code: errors.CodeOf(err), Message: err.Error()}
		return rep, nil
	}
	defer root.Release()

	rep.Shape = root.Shape()
	rep.Parts = rep.Shape.Count()
	return rep, nil
}

func checkCmd(env *cliEnv) *cobra.Command {
	var (
		markupPath string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "check <fixture.yaml>",
		Short: "Hydrate markup against a fixture",
		Long: `Hydrate markup against the root value of a fixture and print the
resulting part tree.

The markup is read from --markup, the fixture's markup field, or
rendered from the fixture itself.

Examples:
  hydrate check fixtures/card.yaml
  hydrate check fixtures/card.yaml --markup server.html --json`,
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
			var markup string
			if markupPath != "" {
				data, err := os.ReadFile(markupPath)
				if err != nil {
					return errors.New("E070").WithDetailf("read %s", markupPath).Wrap(err)
				}
				markup = string(data)
			}

			tc, err := newToolchain(cfg, false, os.Stderr, nil)
			if err != nil {
				return err
			}
			rep, err := tc.check(cmd.Context(), f, markup)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(rep); err != nil {
					return err
				}
			} else {
				data, err := yaml.Marshal(rep)
				if err != nil {
					return err
				}
				fmt.Fprint(out, string(data))
			}
			if rep.Error != nil {
				return errors.New("E070").WithDetailf("fixture %s does not hydrate: %s", f.Name, rep.Error.Code)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&markupPath, "markup", "m", "", "File with server markup to hydrate")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}
