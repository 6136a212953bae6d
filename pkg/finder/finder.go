// Package finder locates template files for batch commands.
package finder

import (
	"context"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// TemplateFinder is responsible for finding template files
type TemplateFinder interface {
	// FindTemplates returns the files matching any of the doublestar patterns
	FindTemplates(ctx context.Context, patterns []string) ([]string, error)
}

// GlobFinder matches patterns against an afero filesystem.
type GlobFinder struct {
	fs afero.Fs
}

var _ TemplateFinder = (*GlobFinder)(nil)

func NewGlobFinder(fs afero.Fs) *GlobFinder {
	return &GlobFinder{fs: fs}
}

// FindTemplates expands every pattern and returns the sorted, de-duplicated
// set of matching files. Patterns may be absolute or relative to the working
// directory, and a pattern matching nothing is logged, not an error.
func (f *GlobFinder) FindTemplates(ctx context.Context, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, errors.Errorf("invalid pattern %q", pattern)
		}
		base, pat := doublestar.SplitPattern(filepath.ToSlash(pattern))

		root := f.fs
		if base != "." {
			root = afero.NewBasePathFs(f.fs, base)
		}

		matches, err := doublestar.Glob(afero.NewIOFS(root), pat, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			zerolog.Ctx(ctx).Warn().Str("pattern", pattern).Msg("pattern matched no files")
		}

		for _, match := range matches {
			if base != "." {
				match = path.Join(base, match)
			}
			seen[match] = struct{}{}
		}
	}

	files := make([]string, 0, len(seen))
	for file := range seen {
		files = append(files, file)
	}
	sort.Strings(files)
	return files, nil
}
