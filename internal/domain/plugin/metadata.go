package plugin

import "gopkg.in/yaml.v3"

// Dependency is one entry of a plugin's declared `depends` list: itself a
// valid identity, optionally pinned to a version.
type Dependency struct {
	Namespace string `yaml:"namespace" validate:"required"`
	Name      string `yaml:"name" validate:"required"`
	Version   string `yaml:"version,omitempty"`
}

// Identity projects a Dependency down to the (namespace, name) pair so it can
// be validated and compared against installed/market identities.
func (d Dependency) Identity() Identity {
	return Identity{Namespace: d.Namespace, Name: d.Name}
}

// Metadata is the parsed content of a plugin's wazo/plugin.yml file, the
// required and optional fields enumerated in the data model.
type Metadata struct {
	Namespace           string       `yaml:"namespace" validate:"required"`
	Name                string       `yaml:"name" validate:"required"`
	Version             string       `yaml:"version" validate:"required"`
	PluginFormatVersion int          `yaml:"plugin_format_version" validate:"max=2"`
	MinWazoVersion      string       `yaml:"min_wazo_version"`
	MaxWazoVersion      string       `yaml:"max_wazo_version"`
	Depends             []Dependency `yaml:"depends" validate:"dive"`
	DebianDepends       []string     `yaml:"debian_depends"`
}

// Identity projects Metadata down to its (namespace, name) pair.
func (m Metadata) Identity() Identity {
	return Identity{Namespace: m.Namespace, Name: m.Name}
}

// metadataAlias mirrors Metadata's yaml shape but reads the three version
// fields as nodes, so a plugin.yml author writing `version: 1.0` (a YAML
// float, not a string) coerces to "1.0" instead of failing to unmarshal.
type metadataAlias struct {
	Namespace           string       `yaml:"namespace"`
	Name                string       `yaml:"name"`
	Version             yaml.Node    `yaml:"version"`
	PluginFormatVersion int          `yaml:"plugin_format_version"`
	MinWazoVersion      yaml.Node    `yaml:"min_wazo_version"`
	MaxWazoVersion      yaml.Node    `yaml:"max_wazo_version"`
	Depends             []Dependency `yaml:"depends"`
	DebianDepends       []string     `yaml:"debian_depends"`
}

// UnmarshalYAML implements yaml.Unmarshaler so the version fields accept
// either a YAML string or a bare numeric scalar.
func (m *Metadata) UnmarshalYAML(value *yaml.Node) error {
	var alias metadataAlias
	if err := value.Decode(&alias); err != nil {
		return err
	}
	m.Namespace = alias.Namespace
	m.Name = alias.Name
	m.Version = scalarToString(alias.Version)
	m.PluginFormatVersion = alias.PluginFormatVersion
	m.MinWazoVersion = scalarToString(alias.MinWazoVersion)
	m.MaxWazoVersion = scalarToString(alias.MaxWazoVersion)
	m.Depends = alias.Depends
	m.DebianDepends = alias.DebianDepends
	return nil
}

// scalarToString reads a yaml.Node's raw text, which is how a YAML decoder
// represents a scalar before it is typed, regardless of whether the author
// quoted it.
func scalarToString(node yaml.Node) string {
	if node.Kind == 0 {
		return ""
	}
	return node.Value
}

// MaxSupportedPluginFormatVersion is the highest plugin_format_version this
// daemon understands; metadata declaring a higher version fails validation.
const MaxSupportedPluginFormatVersion = 2
