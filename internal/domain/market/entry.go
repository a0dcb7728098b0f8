// Package market models the catalog entries the Market Client works with,
// plus the filter/sort/paginate and installed/upgradable annotation logic
// applied to them before they reach an HTTP response.
package market

import "encoding/json"

// VersionRow is one installable version of a catalog entry.
type VersionRow struct {
	Version        string                 `json:"version"`
	MinWazoVersion string                 `json:"min_wazo_version,omitempty"`
	MaxWazoVersion string                 `json:"max_wazo_version,omitempty"`
	Method         string                 `json:"method"`
	Options        map[string]interface{} `json:"options"`
	Upgradable     bool                   `json:"upgradable"`
}

// Entry is a single plugin's catalog listing: identity, descriptive fields,
// and the available version rows.
type Entry struct {
	Namespace        string                 `json:"namespace"`
	Name             string                 `json:"name"`
	Description      string                 `json:"description,omitempty"`
	Versions         []VersionRow           `json:"versions"`
	InstalledVersion string                 `json:"installed_version,omitempty"`
	Fields           map[string]interface{} `json:"-"`
}

// IsInstalled reports whether the annotation step found this plugin in the
// registry.
func (e Entry) IsInstalled() bool {
	return e.InstalledVersion != ""
}

// knownFields lists the json tags handled by Entry's own struct fields, so
// MarshalJSON/UnmarshalJSON know which keys belong in Fields instead.
var knownFields = map[string]bool{
	"namespace": true, "name": true, "description": true,
	"versions": true, "installed_version": true,
}

// entryAlias has the same shape as Entry but without the custom
// (Un)MarshalJSON methods, used to avoid infinite recursion.
type entryAlias Entry

// MarshalJSON flattens Fields alongside the named struct fields, so a
// catalog entry's descriptive extras round-trip untouched.
func (e Entry) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(entryAlias(e))
	if err != nil {
		return nil, err
	}
	if len(e.Fields) == 0 {
		return base, nil
	}

	merged := make(map[string]interface{}, len(e.Fields)+4)
	for k, v := range e.Fields {
		merged[k] = v
	}
	var named map[string]interface{}
	if err := json.Unmarshal(base, &named); err != nil {
		return nil, err
	}
	for k, v := range named {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// UnmarshalJSON populates the named struct fields and collects every other
// key into Fields.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var alias entryAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*e = Entry(alias)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fields := make(map[string]interface{})
	for k, v := range raw {
		if knownFields[k] {
			continue
		}
		var val interface{}
		if err := json.Unmarshal(v, &val); err != nil {
			return err
		}
		fields[k] = val
	}
	if len(fields) > 0 {
		e.Fields = fields
	}
	return nil
}

// InstalledVersionLookup resolves the installed version of a (namespace,
// name) pair, mirroring Registry.is_installed/get_plugin. ok is false when
// the plugin is not installed.
type InstalledVersionLookup func(namespace, name string) (version string, ok bool)
