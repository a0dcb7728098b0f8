package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorPayload(t *testing.T) {
	err := NewValidationError("Validation error", map[string]interface{}{
		"min_wazo_version": map[string]interface{}{"constraint_id": "range"},
	})

	assert.Equal(t, 400, err.HTTPStatus())
	payload := err.Payload()
	assert.Equal(t, "validation-error", payload["error_id"])
	assert.Equal(t, "plugins", payload["resource"])
	assert.Contains(t, payload, "details")
}

func TestPluginNotFoundErrorHTTPStatus(t *testing.T) {
	err := NewPluginNotFoundError("plugins")
	assert.Equal(t, 404, err.HTTPStatus())
	assert.Equal(t, "plugin-not-found", err.Payload()["error_id"])
}

func TestInstallErrorDetailsCarriesStep(t *testing.T) {
	err := NewInstallError("building", assertErr{})
	assert.Equal(t, "install-error", err.Payload()["error_id"])
	details := err.Payload()["details"].(map[string]interface{})
	assert.Equal(t, "building", details["step"])
}

func TestStepErrorUsesDashedID(t *testing.T) {
	err := NewStepError("packaging", map[string]interface{}{"url": "file:///tmp"}, nil)
	assert.Equal(t, "packaging-error", err.Payload()["error_id"])
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
