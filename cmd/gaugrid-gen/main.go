// Command gaugrid-gen emits blocked collocation kernels and inspects the
// generated whole-array kernels.
//
// Usage:
//
//	gaugrid-gen generate --config gaugrid.yaml
//	gaugrid-gen verify --output generated
//	gaugrid-gen inspect --l 2 --order molden
//	gaugrid-gen inspect --l 1 --target c --tile 16
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type app struct {
	configPath string
	verbose    bool
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "gaugrid-gen",
		Short:         "Generate collocation kernels for Gaussian-type orbitals",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.logger = newLogger(cmd.ErrOrStderr(), a.verbose)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to the YAML configuration")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newGenerateCmd(a), newVerifyCmd(a), newInspectCmd(a))
	return root
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
