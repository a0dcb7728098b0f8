package market

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryUnmarshalCollectsDescriptiveFields(t *testing.T) {
	raw := []byte(`{
		"namespace": "plugindtests",
		"name": "foobar",
		"description": "a test plugin",
		"versions": [{"version": "1.0.0", "method": "git"}],
		"homepage": "https://example.invalid",
		"author": "wazo"
	}`)

	var e Entry
	require.NoError(t, json.Unmarshal(raw, &e))

	assert.Equal(t, "plugindtests", e.Namespace)
	assert.Equal(t, "foobar", e.Name)
	assert.Equal(t, "a test plugin", e.Description)
	assert.Equal(t, "https://example.invalid", e.Fields["homepage"])
	assert.Equal(t, "wazo", e.Fields["author"])
	assert.NotContains(t, e.Fields, "namespace")
}

func TestEntryMarshalRoundTripsDescriptiveFields(t *testing.T) {
	e := Entry{
		Namespace: "plugindtests",
		Name:      "foobar",
		Versions:  []VersionRow{{Version: "1.0.0", Method: "git"}},
		Fields:    map[string]interface{}{"homepage": "https://example.invalid"},
	}

	out, err := json.Marshal(e)
	require.NoError(t, err)

	var roundTripped map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &roundTripped))
	assert.Equal(t, "plugindtests", roundTripped["namespace"])
	assert.Equal(t, "https://example.invalid", roundTripped["homepage"])
}
