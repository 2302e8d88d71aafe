package request

import (
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
)

func TestToJsonReq(t *testing.T) {
	buf, err := ToJsonReq(map[string]string{"text": "hello"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"text":"hello"}`, buf.String())
}

func TestCall(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "https://example.com/hook",
		httpmock.NewStringResponder(200, `{"ok":true}`))

	body, err := ToJsonReq(map[string]string{"text": "hello"})
	assert.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, "https://example.com/hook", body)
	assert.NoError(t, err)

	var response map[string]interface{}
	resp, err := Call(req, &response)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, response["ok"])
}

func TestBasicAuth(t *testing.T) {
	assert.Equal(t, "dXNlcjpwYXNz", BasicAuth("user", "pass"))
}
