// Package validator implements ports.MetadataValidator with
// github.com/go-playground/validator/v10 for structural checks, and
// hand-written logic for the host-version-dependent range constraints that
// struct tags cannot express.
package validator

import (
	"context"
	"fmt"
	"os"
	"strings"

	govalidator "github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/wazoplugind/wazo-plugind/internal/domain/plugin"
	"github.com/wazoplugind/wazo-plugind/internal/domain/version"
	"github.com/wazoplugind/wazo-plugind/internal/ports"
)

// Registry is the narrow seam Validator needs from ports.Registry: a
// reinstall check against the exact (namespace, name, version).
type Registry interface {
	IsInstalled(ctx context.Context, id plugin.Identity, version string) (bool, error)
}

// Validator implements ports.MetadataValidator.
type Validator struct {
	v        *govalidator.Validate
	registry Registry
	logger   ports.Logger
}

func New(registry Registry, logger ports.Logger) *Validator {
	return &Validator{v: govalidator.New(), registry: registry, logger: logger}
}

func (val *Validator) Load(ctx context.Context, path string) (plugin.Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return plugin.Metadata{}, err
	}
	var meta plugin.Metadata
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return plugin.Metadata{}, err
	}
	return meta, nil
}

func (val *Validator) Validate(ctx context.Context, meta plugin.Metadata, hostVersion string, reinstall bool) error {
	verr := plugin.NewValidationError()

	if err := val.v.Struct(meta); err != nil {
		if fieldErrs, ok := err.(govalidator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				verr.Add(translateFieldError(fe))
			}
		}
	}

	if id := meta.Identity(); meta.Namespace != "" || meta.Name != "" {
		if err := id.Validate(); err != nil {
			var fe *plugin.FieldError
			if castErr, ok := err.(*plugin.FieldError); ok {
				fe = castErr
			}
			if fe != nil {
				verr.Add(fe)
			}
		}
	}

	for i, dep := range meta.Depends {
		if err := dep.Identity().Validate(); err != nil {
			verr.Add(&plugin.FieldError{
				Field:        fmt.Sprintf("depends[%d]", i),
				ConstraintID: "regex",
				Message:      "dependency is not a valid plugin identity",
			})
		}
	}

	if meta.MinWazoVersion != "" && version.LessThan(hostVersion, meta.MinWazoVersion) {
		verr.Add(&plugin.FieldError{
			Field: "min_wazo_version", ConstraintID: "range",
			Constraint: meta.MinWazoVersion,
			Message:    fmt.Sprintf("host version %s is below required minimum %s", hostVersion, meta.MinWazoVersion),
		})
	}
	if meta.MaxWazoVersion != "" && version.GreaterThan(hostVersion, meta.MaxWazoVersion) {
		verr.Add(&plugin.FieldError{
			Field: "max_wazo_version", ConstraintID: "range",
			Constraint: meta.MaxWazoVersion,
			Message:    fmt.Sprintf("host version %s is above supported maximum %s", hostVersion, meta.MaxWazoVersion),
		})
	}

	if verr.HasErrors() {
		return verr
	}

	if !reinstall && val.registry != nil {
		installed, err := val.registry.IsInstalled(ctx, meta.Identity(), meta.Version)
		if err == nil && installed {
			return &plugin.AlreadyInstalledError{Identity: meta.Identity(), Version: meta.Version}
		}
	}

	return nil
}

// translateFieldError maps a go-playground/validator tag to the daemon's
// constraint_id vocabulary (required, regex, range, length, enum, not_null,
// type).
func translateFieldError(fe govalidator.FieldError) *plugin.FieldError {
	field := strings.ToLower(fe.Field())
	constraintID := "type"
	switch fe.Tag() {
	case "required":
		constraintID = "required"
	case "max", "min":
		if fe.Kind().String() == "string" {
			constraintID = "length"
		} else {
			constraintID = "range"
		}
	case "oneof":
		constraintID = "enum"
	case "regex":
		constraintID = "regex"
	}

	return &plugin.FieldError{
		Field:        field,
		ConstraintID: constraintID,
		Constraint:   fe.Param(),
		Message:      fe.Error(),
	}
}

var _ ports.MetadataValidator = (*Validator)(nil)
