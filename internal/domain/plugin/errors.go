package plugin

import "fmt"

// FieldError describes a single offending field in a validation failure,
// matching the details shape {constraint_id, constraint, message} from the
// metadata validator contract.
type FieldError struct {
	Field        string
	ConstraintID string
	Constraint   string
	Message      string
}

func (e *FieldError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError aggregates one or more FieldErrors raised while validating
// plugin metadata. It carries only the per-field errors; the
// error_id/message/resource triple is supplied by the layer that renders it.
type ValidationError struct {
	Fields map[string]*FieldError
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]*FieldError)}
}

func (e *ValidationError) Add(fe *FieldError) {
	if e.Fields == nil {
		e.Fields = make(map[string]*FieldError)
	}
	e.Fields[fe.Field] = fe
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation error"
	}
	return fmt.Sprintf("validation error: %d field(s) invalid", len(e.Fields))
}

// Details renders the {field: {constraint_id, constraint, message}} payload
// shape the error_id="validation-error" response uses.
func (e *ValidationError) Details() map[string]interface{} {
	out := make(map[string]interface{}, len(e.Fields))
	for field, fe := range e.Fields {
		out[field] = map[string]interface{}{
			"constraint_id": fe.ConstraintID,
			"constraint":    fe.Constraint,
			"message":       fe.Message,
		}
	}
	return out
}

// AlreadyInstalledError is a distinct, non-error outcome: install_params.reinstall
// is false and the registry already holds the exact (namespace, name, version).
// The install pipeline converts this to a "completed" status, never "error".
type AlreadyInstalledError struct {
	Identity Identity
	Version  string
}

func (e *AlreadyInstalledError) Error() string {
	return fmt.Sprintf("plugin %s already installed at version %s", e.Identity, e.Version)
}

// DependencyAlreadyInstalledError mirrors AlreadyInstalledError for the market
// downloader's recursive dependency path.
type DependencyAlreadyInstalledError struct {
	Identity Identity
	Version  string
}

func (e *DependencyAlreadyInstalledError) Error() string {
	return fmt.Sprintf("dependency %s already installed at version %s", e.Identity, e.Version)
}

// NotFoundError indicates a plugin is absent from the registry or the market
// catalog (error_id="plugin-not-found").
type NotFoundError struct {
	Identity Identity
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("plugin %s not found", e.Identity)
}

// CommandExecutionError marks a pipeline stage failure caused by an external
// command exiting non-zero (the original's CommandExecutionFailed),
// distinct from an ordinary Go error so the install pipeline can map it to
// error_id="install-error" rather than the generic "<step>-error" fallback.
type CommandExecutionError struct {
	Command string
	Cause   error
}

func (e *CommandExecutionError) Error() string {
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Cause)
}

func (e *CommandExecutionError) Unwrap() error { return e.Cause }
