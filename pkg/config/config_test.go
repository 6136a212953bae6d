package config_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediafusion/streamtmpl/pkg/config"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
		want    *config.Config
		wantErr bool
	}{
		{
			name: "test_yaml",
			path: "/p/.streamtmpl.yaml",
			content: `
max_depth: 8
context: data/sample.json
lint:
  patterns: ["templates/**/*.tmpl"]
  format: vscode
`,
			want: &config.Config{
				MaxDepth: 8,
				Context:  "data/sample.json",
				Lint:     &config.LintBlock{Patterns: []string{"templates/**/*.tmpl"}, Format: "vscode"},
			},
		},
		{
			name: "test_hcl",
			path: "/p/.streamtmpl.hcl",
			content: `
max_depth = 4
context   = "ctx.yaml"

lint {
  patterns = ["**/*.tmpl"]
}
`,
			want: &config.Config{
				MaxDepth: 4,
				Context:  "ctx.yaml",
				Lint:     &config.LintBlock{Patterns: []string{"**/*.tmpl"}},
			},
		},
		{
			name:    "test_empty_yaml",
			path:    "/p/.streamtmpl.yml",
			content: "",
			want:    &config.Config{},
		},
		{
			name:    "test_unknown_yaml_field",
			path:    "/p/.streamtmpl.yaml",
			content: "depth: 3\n",
			wantErr: true,
		},
		{
			name:    "test_negative_depth",
			path:    "/p/.streamtmpl.yaml",
			content: "max_depth: -1\n",
			wantErr: true,
		},
		{
			name:    "test_bad_pattern",
			path:    "/p/.streamtmpl.hcl",
			content: "lint {\n  patterns = [\"[a\"]\n}\n",
			wantErr: true,
		},
		{
			name:    "test_bad_hcl",
			path:    "/p/.streamtmpl.hcl",
			content: "max_depth = ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, tt.path, []byte(tt.content), 0o644))

			got, err := config.Load(fs, tt.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()

	cfg, path, err := config.Find(ctx, fs, "/work")
	require.NoError(t, err)
	assert.Equal(t, "", path)
	assert.Equal(t, &config.Config{}, cfg)

	require.NoError(t, afero.WriteFile(fs, "/work/.streamtmpl.hcl", []byte(`context = "a.json"`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/work/.streamtmpl.yaml", []byte("context: b.json\n"), 0o644))

	cfg, path, err = config.Find(ctx, fs, "/work")
	require.NoError(t, err)
	assert.Equal(t, "/work/.streamtmpl.yaml", path)
	assert.Equal(t, "/work/b.json", cfg.ContextPath(path))
}
