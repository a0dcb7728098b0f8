package validator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wazoplugind/wazo-plugind/internal/domain/plugin"
)

type fakeRegistry struct {
	installed bool
}

func (f *fakeRegistry) IsInstalled(ctx context.Context, id plugin.Identity, version string) (bool, error) {
	return f.installed, nil
}

func validMetadata() plugin.Metadata {
	return plugin.Metadata{
		Namespace: "plugindtests",
		Name:      "foobar",
		Version:   "1.0.0",
	}
}

func TestValidatorLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plugin.yml")
	require.NoError(t, os.WriteFile(path, []byte("namespace: plugindtests\nname: foobar\nversion: 1.0.0\n"), 0o644))

	v := New(&fakeRegistry{}, nil)
	meta, err := v.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "plugindtests", meta.Namespace)
	assert.Equal(t, "foobar", meta.Name)
}

func TestValidatorAcceptsValidMetadata(t *testing.T) {
	v := New(&fakeRegistry{}, nil)
	err := v.Validate(context.Background(), validMetadata(), "19.01", false)
	assert.NoError(t, err)
}

func TestValidatorRejectsMissingRequiredFields(t *testing.T) {
	v := New(&fakeRegistry{}, nil)
	err := v.Validate(context.Background(), plugin.Metadata{}, "19.01", false)
	require.Error(t, err)

	var verr *plugin.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "namespace")
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "version")
	for _, fe := range verr.Fields {
		assert.Equal(t, "required", fe.ConstraintID)
	}
}

func TestValidatorRejectsInvalidNamespaceRegex(t *testing.T) {
	meta := validMetadata()
	meta.Namespace = "Invalid_NS"

	v := New(&fakeRegistry{}, nil)
	err := v.Validate(context.Background(), meta, "19.01", false)
	require.Error(t, err)

	var verr *plugin.ValidationError
	require.ErrorAs(t, err, &verr)
	fe, ok := verr.Fields["namespace"]
	require.True(t, ok)
	assert.Equal(t, "regex", fe.ConstraintID)
}

func TestValidatorRejectsPluginFormatVersionTooHigh(t *testing.T) {
	meta := validMetadata()
	meta.PluginFormatVersion = 3

	v := New(&fakeRegistry{}, nil)
	err := v.Validate(context.Background(), meta, "19.01", false)
	require.Error(t, err)

	var verr *plugin.ValidationError
	require.ErrorAs(t, err, &verr)
	fe, ok := verr.Fields["pluginformatversion"]
	require.True(t, ok)
	assert.Equal(t, "range", fe.ConstraintID)
}

func TestValidatorRejectsHostVersionBelowMin(t *testing.T) {
	meta := validMetadata()
	meta.MinWazoVersion = "20.01"

	v := New(&fakeRegistry{}, nil)
	err := v.Validate(context.Background(), meta, "19.01", false)
	require.Error(t, err)

	var verr *plugin.ValidationError
	require.ErrorAs(t, err, &verr)
	fe, ok := verr.Fields["min_wazo_version"]
	require.True(t, ok)
	assert.Equal(t, "range", fe.ConstraintID)
}

func TestValidatorRejectsHostVersionAboveMax(t *testing.T) {
	meta := validMetadata()
	meta.MaxWazoVersion = "18.01"

	v := New(&fakeRegistry{}, nil)
	err := v.Validate(context.Background(), meta, "19.01", false)
	require.Error(t, err)

	var verr *plugin.ValidationError
	require.ErrorAs(t, err, &verr)
	fe, ok := verr.Fields["max_wazo_version"]
	require.True(t, ok)
	assert.Equal(t, "range", fe.ConstraintID)
}

func TestValidatorRejectsInvalidDependencyIdentity(t *testing.T) {
	meta := validMetadata()
	meta.Depends = []plugin.Dependency{{Namespace: "Bad_NS", Name: "dep"}}

	v := New(&fakeRegistry{}, nil)
	err := v.Validate(context.Background(), meta, "19.01", false)
	require.Error(t, err)

	var verr *plugin.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "depends[0]")
}

func TestValidatorReturnsAlreadyInstalledWhenNotReinstalling(t *testing.T) {
	v := New(&fakeRegistry{installed: true}, nil)
	err := v.Validate(context.Background(), validMetadata(), "19.01", false)
	require.Error(t, err)

	var alreadyInstalled *plugin.AlreadyInstalledError
	require.ErrorAs(t, err, &alreadyInstalled)
}

func TestValidatorSkipsAlreadyInstalledCheckOnReinstall(t *testing.T) {
	v := New(&fakeRegistry{installed: true}, nil)
	err := v.Validate(context.Background(), validMetadata(), "19.01", true)
	assert.NoError(t, err)
}
