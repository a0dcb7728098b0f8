package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wazoplugind/wazo-plugind/internal/domain/plugin"
)

type fakePackageDB struct {
	packages []string
}

func (f *fakePackageDB) ListSection(ctx context.Context, section string) ([]string, error) {
	return f.packages, nil
}

func writeMetadata(t *testing.T, dir, namespace, name, content string) {
	t.Helper()
	path := filepath.Join(dir, namespace, name, "wazo")
	require.NoError(t, os.MkdirAll(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "plugin.yml"), []byte(content), 0o644))
}

func TestRegistryListSkipsUnreadableMetadata(t *testing.T) {
	dir := t.TempDir()
	writeMetadata(t, dir, "plugindtests", "foobar", "namespace: plugindtests\nname: foobar\nversion: 1.0.0\n")

	db := &fakePackageDB{packages: []string{
		"wazo-plugind-foobar-plugindtests",
		"wazo-plugind-missing-plugindtests",
		"some-unrelated-package",
	}}

	reg := New(db, dir, nil)
	metas, err := reg.List(context.Background())
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, "foobar", metas[0].Name)
}

func TestRegistryIsInstalled(t *testing.T) {
	dir := t.TempDir()
	writeMetadata(t, dir, "plugindtests", "foobar", "namespace: plugindtests\nname: foobar\nversion: 1.0.0\n")
	reg := New(&fakePackageDB{}, dir, nil)

	id := plugin.Identity{Namespace: "plugindtests", Name: "foobar"}
	ok, err := reg.IsInstalled(context.Background(), id, "")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = reg.IsInstalled(context.Background(), id, "2.0.0")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = reg.IsInstalled(context.Background(), plugin.Identity{Namespace: "plugindtests", Name: "absent"}, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegistryGetPluginNotFound(t *testing.T) {
	dir := t.TempDir()
	reg := New(&fakePackageDB{}, dir, nil)
	_, err := reg.GetPlugin(context.Background(), plugin.Identity{Namespace: "x", Name: "y"})
	var notFound *plugin.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
