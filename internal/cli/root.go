// Package cli implements the boxtree command-line interface.
//
// Commands:
//   - layout: lay out an HTML document and print its box tree
//   - tokens: lex a script into punctuator and number tokens
//
// All commands accept --verbose (-v) for debug logging on stderr.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree writing results to out and logs
// to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "boxtree",
		Short:         "boxtree lays out HTML documents into box trees",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(errOut, level)))
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newLayoutCmd())
	root.AddCommand(newTokensCmd())
	return root
}

// Execute runs the CLI against the process's standard streams.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
}
