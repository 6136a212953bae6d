package tokens

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/mediafusion/streamtmpl/cmd/streamtmpl/input"
	"github.com/mediafusion/streamtmpl/pkg/semtok"
)

type Handler struct {
	fs       afero.Fs
	template string
}

func NewTokensCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "tokens [template-file]",
		Short: "print the semantic tokens of a template",
		Args:  cobra.MaximumNArgs(1),
	}

	cmd.Flags().StringVarP(&me.template, "template", "t", "", "inline template text")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args)
	}

	return cmd
}

// Run prints one `line:col type modifier text` row per token, one-based.
func (me *Handler) Run(ctx context.Context, out io.Writer, args []string) error {
	_, text, err := input.Template(me.fs, me.template, args)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, tok := range semtok.GetTokensForText(ctx, text) {
		rng := tok.Range.GetRange(text)
		fmt.Fprintf(w, "%d:%d\t%s\t%s\t%q\n", rng.Start.Line+1, rng.Start.Character, tok.Type, tok.Modifier, tok.Range.Text)
	}
	if err := w.Flush(); err != nil {
		return errors.Errorf("writing tokens: %w", err)
	}
	return nil
}
