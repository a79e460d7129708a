package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"boxtree/pkg/js"
)

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "Lex a script and print one token per line (stdin when no file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				src []byte
				err error
			)
			if len(args) == 1 {
				src, err = os.ReadFile(args[0])
			} else {
				src, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
			tokens, err := js.Lex(string(src))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, tok := range tokens {
				fmt.Fprintln(out, tok)
			}
			loggerFromContext(cmd.Context()).Debug("lexed script", "tokens", len(tokens))
			return nil
		},
	}
}
