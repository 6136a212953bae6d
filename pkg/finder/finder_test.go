package finder_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediafusion/streamtmpl/pkg/finder"
)

func TestGlobFinder_FindTemplates(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/work/title.tmpl":              "{stream.name}",
		"/work/description.txt":         "{stream.size|bytes}",
		"/work/sub/nested.tmpl":         "{if a}b{/if}",
		"/work/sub/deeper/nested2.tmpl": "{a}",
		"/other/x.tmpl":                 "{b}",
	}
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "test_recursive",
			patterns: []string{"/work/**/*.tmpl"},
			want:     []string{"/work/sub/deeper/nested2.tmpl", "/work/sub/nested.tmpl", "/work/title.tmpl"},
		},
		{
			name:     "test_single_level",
			patterns: []string{"/work/*.{tmpl,txt}"},
			want:     []string{"/work/description.txt", "/work/title.tmpl"},
		},
		{
			name:     "test_overlapping_patterns",
			patterns: []string{"/work/sub/*.tmpl", "/work/sub/**/*.tmpl", "/other/x.tmpl"},
			want:     []string{"/other/x.tmpl", "/work/sub/deeper/nested2.tmpl", "/work/sub/nested.tmpl"},
		},
		{
			name:     "test_no_match",
			patterns: []string{"/missing/**/*.tmpl"},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := finder.NewGlobFinder(fs).FindTemplates(context.Background(), tt.patterns)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGlobFinder_BadPattern(t *testing.T) {
	_, err := finder.NewGlobFinder(afero.NewMemMapFs()).FindTemplates(context.Background(), []string{"/work/[a"})
	assert.Error(t, err)
}
