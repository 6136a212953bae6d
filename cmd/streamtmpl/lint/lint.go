package lint

import (
	"context"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/mediafusion/streamtmpl/cmd/streamtmpl/input"
	"github.com/mediafusion/streamtmpl/pkg/diagnostic"
	"github.com/mediafusion/streamtmpl/pkg/finder"
)

type fileResult struct {
	diags *diagnostic.Diagnostics
	err   error
}

type Handler struct {
	fs       afero.Fs
	dir      string
	format   string // text, vscode
	colorize bool
	maxDepth int
}

func NewLintCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs(), dir: "."}

	cmd := &cobra.Command{
		Use:   "lint [patterns...]",
		Short: "report problems in template files matched by glob patterns",
		Long:  "Patterns support ** (doublestar). Without arguments the patterns from the config file's lint block are used.",
	}

	cmd.Flags().StringVar(&me.format, "format", "", "output format: text or vscode (default from config, else text)")
	cmd.Flags().BoolVar(&me.colorize, "color", !color.NoColor, "colorize text output")
	cmd.Flags().IntVar(&me.maxDepth, "max-depth", 0, "conditional nesting limit (default from config, else 64)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, out io.Writer, patterns []string) error {
	settings, err := input.LoadSettings(ctx, me.fs, me.dir, "", me.maxDepth)
	if err != nil {
		return err
	}

	format := me.format
	if len(patterns) == 0 && settings.Config.Lint != nil {
		patterns = settings.Config.Lint.Patterns
	}
	if format == "" && settings.Config.Lint != nil {
		format = settings.Config.Lint.Format
	}
	if len(patterns) == 0 {
		return errors.New("no patterns given and none configured")
	}

	var formatter diagnostic.Formatter
	switch format {
	case "", "text":
		formatter = diagnostic.NewTextFormatter(me.colorize)
	case "vscode":
		formatter = diagnostic.NewVSCodeFormatter()
	default:
		return errors.Errorf("unknown format %q", format)
	}

	files, err := finder.NewGlobFinder(me.fs).FindTemplates(ctx, patterns)
	if err != nil {
		return err
	}

	var opts []diagnostic.Option
	if settings.MaxDepth > 0 {
		opts = append(opts, diagnostic.WithMaxDepth(settings.MaxDepth))
	}

	// files are checked concurrently, output keeps the sorted file order
	results := make([]fileResult, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			data, err := afero.ReadFile(me.fs, file)
			if err != nil {
				results[i].err = errors.Errorf("reading %s: %w", file, err)
				return nil
			}
			results[i].diags = diagnostic.Generate(ctx, string(data), opts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var result error
	for i, file := range files {
		res := results[i]
		if res.err != nil {
			result = multierr.Append(result, res.err)
			continue
		}

		formatted, err := formatter.Format(file, res.diags)
		if err != nil {
			return errors.Errorf("formatting diagnostics for %s: %w", file, err)
		}
		if _, err := out.Write(formatted); err != nil {
			return errors.Errorf("writing diagnostics: %w", err)
		}
		if format == "vscode" {
			if _, err := io.WriteString(out, "\n"); err != nil {
				return errors.Errorf("writing diagnostics: %w", err)
			}
		}

		if err := res.diags.Err(); err != nil {
			result = multierr.Append(result, errors.Errorf("%s: %w", file, err))
		}
	}

	zerolog.Ctx(ctx).Debug().Int("files", len(files)).Int("failed", len(multierr.Errors(result))).Msg("lint finished")

	return result
}
