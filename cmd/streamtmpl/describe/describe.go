package describe

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/mediafusion/streamtmpl/cmd/streamtmpl/input"
	"github.com/mediafusion/streamtmpl/pkg/hover"
	"github.com/mediafusion/streamtmpl/pkg/position"
)

type Handler struct {
	fs       afero.Fs
	dir      string
	template string
	data     string
	offset   int
	pretty   bool
}

func NewDescribeCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs(), dir: "."}

	cmd := &cobra.Command{
		Use:   "describe [template-file]",
		Short: "explain how the directive at a byte offset renders",
		Args:  cobra.MaximumNArgs(1),
	}

	cmd.Flags().StringVarP(&me.template, "template", "t", "", "inline template text")
	cmd.Flags().StringVarP(&me.data, "data", "d", "", "context file (.json or .yaml)")
	cmd.Flags().IntVar(&me.offset, "offset", 0, "byte offset of the directive to describe")
	cmd.Flags().BoolVar(&me.pretty, "pretty", !color.NoColor, "render the markdown for a terminal")

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

	info, err := hover.BuildHoverResponse(ctx, text, position.NewBasicPosition("", me.offset), data)
	if err != nil {
		return err
	}
	if info == nil {
		_, err = fmt.Fprintln(out, "no directive at this offset")
		return err
	}

	doc := strings.Join(info.Content, "\n\n")
	if me.pretty {
		renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
		if err != nil {
			return errors.Errorf("creating markdown renderer: %w", err)
		}
		styled, err := renderer.Render(doc)
		if err != nil {
			return errors.Errorf("rendering markdown: %w", err)
		}
		_, err = io.WriteString(out, styled)
		return err
	}

	_, err = fmt.Fprintln(out, doc)
	return err
}
