package apiclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error array", `{"response":"error","error":["First problem","Second"]}`, "First problem"},
		{"message wins over error string", `{"response":"error","message":"Bad input","error":"x"}`, "Bad input"},
		{"error string", `{"response":"error","error":"Email taken"}`, "Email taken"},
		{"errors field", `{"response":"Error","errors":"Auth failed"}`, "Auth failed"},
		{"empty error array falls through", `{"response":"error","error":[],"errors":"Nope"}`, "Nope"},
		{"nothing", `{"response":"error"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := decodeEnvelope([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, envelopeMessage(data))
		})
	}
}

func TestIsErrorEnvelope(t *testing.T) {
	assert.True(t, isErrorEnvelope(map[string]any{"response": "error"}))
	assert.True(t, isErrorEnvelope(map[string]any{"response": "Error"}))
	assert.False(t, isErrorEnvelope(map[string]any{"response": "success"}))
	assert.False(t, isErrorEnvelope(map[string]any{}))
}

func TestResponse_SearchAndDecode(t *testing.T) {
	resp, err := NewResponse(200, []byte(`{"response":"success","message":"ok","rfps":[{"rfp_id":"3"}]}`))
	require.NoError(t, err)

	v, err := resp.Search("rfps[0].rfp_id")
	require.NoError(t, err)
	assert.Equal(t, "3", v)
	assert.Equal(t, "ok", resp.Message())

	var out struct {
		RFPs []map[string]string `json:"rfps"`
	}
	require.NoError(t, resp.Decode(&out))
	assert.Len(t, out.RFPs, 1)
}

func TestNewResponse_EmptyBody(t *testing.T) {
	resp, err := NewResponse(204, nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Data)
	assert.Empty(t, resp.Message())
}

func TestClassifierInputs(t *testing.T) {
	got := classifierInputs(map[string]any{
		"message": "",
		"error":   []any{"a", "b"},
		"errors":  map[string]any{"token": "Unauthorized"},
	})
	assert.Equal(t, []string{"a, b", "Unauthorized"}, got)
}
