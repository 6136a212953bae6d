package main

import (
	"context"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/mediafusion/streamtmpl/cmd/streamtmpl/complete"
	"github.com/mediafusion/streamtmpl/cmd/streamtmpl/describe"
	"github.com/mediafusion/streamtmpl/cmd/streamtmpl/lint"
	"github.com/mediafusion/streamtmpl/cmd/streamtmpl/render"
	"github.com/mediafusion/streamtmpl/cmd/streamtmpl/tokens"
	logging "github.com/mediafusion/streamtmpl/pkg/debug"
)

func main() {
	if err := run(); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	var (
		logLevel string
		verbose  bool
	)

	rootCmd := &cobra.Command{
		Use:           "streamtmpl",
		Short:         "Render and check stream title and description templates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "debug", false, "enable debug logging with caller info")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		opts := logging.Options{
			Level:   logging.ParseLevel(logLevel),
			Color:   !color.NoColor,
			Console: true,
		}
		if verbose {
			opts.Level = logging.ParseLevel("debug")
			opts.Caller = true
		}
		cmd.SetContext(logging.WithLogger(cmd.Context(), os.Stderr, opts))
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	cmdVersion := &cobra.Command{
		Use: "raw-version",
		Run: func(cmdz *cobra.Command, args []string) {
			cmdz.Println(rootCmd.Version)
		},
		Hidden: true,
	}

	rootCmd.AddCommand(cmdVersion)

	rootCmd.AddCommand(render.NewRenderCommand())
	rootCmd.AddCommand(lint.NewLintCommand())
	rootCmd.AddCommand(tokens.NewTokensCommand())
	rootCmd.AddCommand(describe.NewDescribeCommand())
	rootCmd.AddCommand(complete.NewCompleteCommand())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return errors.Errorf("failed to execute command: %w", err)
	}

	return nil
}
