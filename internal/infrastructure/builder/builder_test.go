package builder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wazoplugind/wazo-plugind/internal/domain/installctx"
)

func TestBuilderExtractMovesTreeAndReadsMetadata(t *testing.T) {
	downloadDir := t.TempDir()
	extractDir := t.TempDir()

	pluginDir := filepath.Join(downloadDir, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(pluginDir, "wazo"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(pluginDir, "wazo", "plugin.yml"),
		[]byte("namespace: plugindtests\nname: foobar\nversion: 1.0.0\n"),
		0o644,
	))

	ctx := installctx.New(context.Background(), "uuid-1", installctx.MethodGit, "19.01", nil)
	ctx.DownloadPath = pluginDir

	b := New(extractDir, nil)
	require.NoError(t, b.Extract(ctx))

	assert.Equal(t, filepath.Join(extractDir, "uuid-1"), ctx.ExtractPath)
	require.NotNil(t, ctx.Metadata)
	assert.Equal(t, "plugindtests", ctx.Metadata.Namespace)
	assert.Equal(t, "foobar", ctx.Metadata.Name)

	_, err := os.Stat(filepath.Join(ctx.ExtractPath, "wazo", "plugin.yml"))
	assert.NoError(t, err)
}

func TestBuilderCleanupRemovesExtractPath(t *testing.T) {
	extractDir := t.TempDir()
	path := filepath.Join(extractDir, "uuid-2")
	require.NoError(t, os.MkdirAll(path, 0o755))

	ctx := installctx.New(context.Background(), "uuid-2", installctx.MethodGit, "19.01", nil)
	ctx.ExtractPath = path

	b := New(extractDir, nil)
	require.NoError(t, b.Cleanup(ctx))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestBuilderCleanupNoOpWithoutExtractPath(t *testing.T) {
	ctx := installctx.New(context.Background(), "uuid-3", installctx.MethodGit, "19.01", nil)
	b := New(t.TempDir(), nil)
	assert.NoError(t, b.Cleanup(ctx))
}
