package describe

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/ctx.json", []byte(`{"stream": {"seeders": 3}}`), 0o644))

	h := &Handler{fs: fs, dir: "/work", template: "x {if stream.seeders > 0}S{/if}", data: "/work/ctx.json", offset: 3}

	var out bytes.Buffer
	require.NoError(t, h.Run(context.Background(), &out, nil))
	assert.Contains(t, out.String(), "- `stream.seeders` = 3 (number)")
	assert.Contains(t, out.String(), "**Result**: true")
}

func TestRunOnText(t *testing.T) {
	h := &Handler{fs: afero.NewMemMapFs(), dir: "/work", template: "plain", offset: 1}

	var out bytes.Buffer
	require.NoError(t, h.Run(context.Background(), &out, nil))
	assert.Equal(t, "no directive at this offset\n", out.String())
}

func TestRunPretty(t *testing.T) {
	h := &Handler{fs: afero.NewMemMapFs(), dir: "/work", template: "{if true}x{/if}", offset: 1, pretty: true}

	var out bytes.Buffer
	require.NoError(t, h.Run(context.Background(), &out, nil))
	assert.Contains(t, out.String(), "Condition")
	assert.Contains(t, out.String(), "Result")
}
