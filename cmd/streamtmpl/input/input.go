// Package input gathers what every subcommand needs before it can run: the
// template text, the render context and the project defaults.
package input

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/mediafusion/streamtmpl/pkg/config"
	"github.com/mediafusion/streamtmpl/pkg/datactx"
	"github.com/mediafusion/streamtmpl/pkg/value"
)

// Template returns the template named by args[0], or inline when set. Exactly
// one of the two must be given.
func Template(fs afero.Fs, inline string, args []string) (name string, text string, err error) {
	switch {
	case inline != "" && len(args) > 0:
		return "", "", errors.New("pass either a template file or --template, not both")
	case inline != "":
		return "<inline>", inline, nil
	case len(args) == 0:
		return "", "", errors.New("no template given; pass a file or --template")
	}

	data, err := afero.ReadFile(fs, args[0])
	if err != nil {
		return "", "", errors.Errorf("reading template %s: %w", args[0], err)
	}
	return args[0], string(data), nil
}

// Settings are the effective defaults after merging flags over the config file.
type Settings struct {
	Config     *config.Config
	ConfigPath string
	MaxDepth   int
	DataPath   string
}

// LoadSettings reads the config file in dir. Non-zero flag values win.
func LoadSettings(ctx context.Context, fs afero.Fs, dir string, dataFlag string, depthFlag int) (*Settings, error) {
	cfg, path, err := config.Find(ctx, fs, dir)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	s := &Settings{
		Config:     cfg,
		ConfigPath: path,
		MaxDepth:   cfg.MaxDepth,
		DataPath:   cfg.ContextPath(path),
	}
	if depthFlag > 0 {
		s.MaxDepth = depthFlag
	}
	if dataFlag != "" {
		s.DataPath = dataFlag
	}

	zerolog.Ctx(ctx).Debug().
		Str("config", s.ConfigPath).
		Int("max_depth", s.MaxDepth).
		Str("data", s.DataPath).
		Msg("resolved settings")

	return s, nil
}

// Data loads the render context, or an empty map when no file is configured.
func (s *Settings) Data(ctx context.Context, fs afero.Fs) (value.Value, error) {
	if s.DataPath == "" {
		return value.FromMap(nil), nil
	}
	return datactx.Load(ctx, fs, s.DataPath)
}
