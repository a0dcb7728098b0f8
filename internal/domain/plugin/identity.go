// Package plugin defines the plugin identity and metadata domain model:
// the pure types and invariants shared by the registry, validator, market
// client, and install pipeline.
package plugin

import (
	"fmt"
	"regexp"
)

var (
	namespacePattern = regexp.MustCompile(`^[a-z0-9]+$`)
	namePattern      = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Identity is the (namespace, name) pair that uniquely identifies a plugin.
type Identity struct {
	Namespace string
	Name      string
}

// Validate checks the identity against the naming rules in the data model:
// namespace matches ^[a-z0-9]+$, name matches ^[a-z0-9-]+$.
func (id Identity) Validate() error {
	if !namespacePattern.MatchString(id.Namespace) {
		return &FieldError{Field: "namespace", ConstraintID: "regex", Constraint: namespacePattern.String(), Message: "namespace must match " + namespacePattern.String()}
	}
	if !namePattern.MatchString(id.Name) {
		return &FieldError{Field: "name", ConstraintID: "regex", Constraint: namePattern.String(), Message: "name must match " + namePattern.String()}
	}
	return nil
}

// String returns "namespace/name", used in log lines and error messages.
func (id Identity) String() string {
	return fmt.Sprintf("%s/%s", id.Namespace, id.Name)
}

// PackageName derives the canonical native package name for this identity:
// wazo-plugind-<name>-<namespace>.
func (id Identity) PackageName() string {
	return fmt.Sprintf("wazo-plugind-%s-%s", id.Name, id.Namespace)
}

// ReservedSection is the native-package section the registry scans.
const ReservedSection = "wazo-plugind-plugin"

// packageNamePattern extracts (name, namespace) from a native package name,
// mirroring ^wazo-plugind-([a-z0-9-]+)-([a-z0-9]+)$.
var packageNamePattern = regexp.MustCompile(`^wazo-plugind-([a-z0-9-]+)-([a-z0-9]+)$`)

// ParsePackageName extracts an Identity from a native package name. ok is
// false if the package name does not match the reserved naming convention.
func ParsePackageName(pkg string) (id Identity, ok bool) {
	m := packageNamePattern.FindStringSubmatch(pkg)
	if m == nil {
		return Identity{}, false
	}
	return Identity{Namespace: m[2], Name: m[1]}, true
}
