package render

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mediafusion/streamtmpl"
	"github.com/mediafusion/streamtmpl/cmd/streamtmpl/input"
)

type Handler struct {
	fs       afero.Fs
	dir      string
	template string
	data     string
	maxDepth int
	watch    bool
}

func NewRenderCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs(), dir: "."}

	cmd := &cobra.Command{
		Use:   "render [template-file]",
		Short: "render a title or description template against a context file",
		Args:  cobra.MaximumNArgs(1),
	}

	cmd.Flags().StringVarP(&me.template, "template", "t", "", "inline template text")
	cmd.Flags().StringVarP(&me.data, "data", "d", "", "context file (.json or .yaml)")
	cmd.Flags().IntVar(&me.maxDepth, "max-depth", 0, "conditional nesting limit (default from config, else 64)")
	cmd.Flags().BoolVarP(&me.watch, "watch", "w", false, "render again whenever the template, context or config file changes")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, out io.Writer, args []string) error {
	if !me.watch {
		return me.renderOnce(ctx, out, args)
	}
	return me.runWatch(ctx, out, args)
}

func (me *Handler) renderOnce(ctx context.Context, out io.Writer, args []string) error {
	ctx = zerolog.Ctx(ctx).With().Str("render_id", uuid.NewString()).Logger().WithContext(ctx)

	settings, err := input.LoadSettings(ctx, me.fs, me.dir, me.data, me.maxDepth)
	if err != nil {
		return err
	}

	name, text, err := input.Template(me.fs, me.template, args)
	if err != nil {
		return err
	}

	data, err := settings.Data(ctx, me.fs)
	if err != nil {
		return err
	}

	engine := streamtmpl.New(streamtmpl.WithMaxDepth(settings.MaxDepth))
	result := engine.Render(ctx, text, data)

	zerolog.Ctx(ctx).Debug().Str("template", name).Int("output_len", len(result)).Msg("rendered")

	_, err = fmt.Fprintln(out, result)
	return err
}
