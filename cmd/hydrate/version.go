package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hydrate/pkg/marker"
)

// buildInfo is the output of the version command.
type buildInfo struct {
	Version string         `json:"version"`
	Commit  string         `json:"commit"`
	Date    string         `json:"date"`
	Go      string         `json:"go"`
	Markers marker.Markers `json:"markers"`
}

func currentBuild() buildInfo {
	return buildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
		Go:      runtime.Version(),
		Markers: marker.Default(),
	}
}

func versionCmd() *cobra.Command {
	var short, asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print version, build information and the default marker format.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			b := currentBuild()
			switch {
			case short:
				fmt.Fprintln(out, b.Version)
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(b)
			default:
				printBanner()
				fmt.Fprintln(out)
				fmt.Fprintf(out, "  Version:    %s\n", b.Version)
				fmt.Fprintf(out, "  Commit:     %s (%s)\n", b.Commit, b.Date)
				fmt.Fprintf(out, "  Go version: %s %s/%s\n", b.Go, runtime.GOOS, runtime.GOARCH)
				fmt.Fprintf(out, "  Markers:    <!--%s--> <!--%s--> <!--%s-->\n",
					b.Markers.OpenText("<digest>"), b.Markers.CloseText(), b.Markers.Node+" <n>")
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print build information as JSON")

	return cmd
}

func printBanner() {
	fmt.Println("\033[36mhydrate\033[0m marker hydration toolkit")
}
