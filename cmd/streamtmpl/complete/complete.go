package complete

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/mediafusion/streamtmpl/cmd/streamtmpl/input"
	"github.com/mediafusion/streamtmpl/pkg/completion"
)

type Handler struct {
	fs       afero.Fs
	dir      string
	template string
	data     string
	offset   int
}

func NewCompleteCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs(), dir: "."}

	cmd := &cobra.Command{
		Use:   "complete [template-file]",
		Short: "print completion suggestions at a byte offset as JSON",
		Args:  cobra.MaximumNArgs(1),
	}

	cmd.Flags().StringVarP(&me.template, "template", "t", "", "inline template text")
	cmd.Flags().StringVarP(&me.data, "data", "d", "", "context file (.json or .yaml)")
	cmd.Flags().IntVar(&me.offset, "offset", -1, "byte offset of the cursor (default end of template)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, out io.Writer, args []string) error {
	settings, err := input.LoadSettings(ctx, me.fs, me.dir, me.data, 0)
	if err != nil {
		return err
	}

	_, text, err := input.Template(me.fs, me.template, args)
	if err != nil {
		return err
	}

	data, err := settings.Data(ctx, me.fs)
	if err != nil {
		return err
	}

	offset := me.offset
	if offset < 0 {
		offset = len(text)
	}

	items := completion.GetCompletions(ctx, text, offset, data)
	if err := json.NewEncoder(out).Encode(items); err != nil {
		return errors.Errorf("encoding completions: %w", err)
	}
	return nil
}
