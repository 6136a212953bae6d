package datactx_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediafusion/streamtmpl/pkg/datactx"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()

	require.NoError(t, afero.WriteFile(fs, "ctx/stream.json", []byte(`{"stream": {"name": "Movie", "size": 1500000}}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "ctx/stream.yaml", []byte("stream:\n  name: Movie\n  size: 1500000\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "ctx/list.yml", []byte("- a\n- b\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "ctx/empty.yaml", []byte("\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "ctx/broken.json", []byte(`{"stream": `), 0o644))

	for _, path := range []string{"ctx/stream.json", "ctx/stream.yaml"} {
		t.Run(path, func(t *testing.T) {
			v, err := datactx.Load(ctx, fs, path)
			require.NoError(t, err)

			stream, ok := v.Get("stream")
			require.True(t, ok)
			assert.Equal(t, []string{"name", "size"}, stream.Map().Keys())

			size, _ := stream.Get("size")
			assert.Equal(t, 1500000.0, size.Float())
		})
	}

	t.Run("empty file is empty map", func(t *testing.T) {
		v, err := datactx.Load(ctx, fs, "ctx/empty.yaml")
		require.NoError(t, err)
		assert.Equal(t, 0, v.Map().Len())
	})

	t.Run("non mapping rejected", func(t *testing.T) {
		_, err := datactx.Load(ctx, fs, "ctx/list.yml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be a mapping")
	})

	t.Run("broken json", func(t *testing.T) {
		_, err := datactx.Load(ctx, fs, "ctx/broken.json")
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := datactx.Load(ctx, fs, "ctx/nope.json")
		require.Error(t, err)
	})
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, datactx.FormatJSON, datactx.FormatForPath("a/B.JSON"))
	assert.Equal(t, datactx.FormatYAML, datactx.FormatForPath("a/b.yaml"))
	assert.Equal(t, datactx.FormatYAML, datactx.FormatForPath("a/b"))
}
