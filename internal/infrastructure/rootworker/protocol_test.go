package rootworker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestRoundTrip(t *testing.T) {
	req := request{Op: opInstall, UUID: "uuid-1", Args: map[string]string{"path": "/tmp/x.deb"}}
	raw, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded request
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, req, decoded)
}

func TestExecuteUnknownCommand(t *testing.T) {
	resp := execute(request{Op: "bogus"})
	assert.False(t, resp.Result)
	assert.Contains(t, resp.Error, "unknown command")
}
