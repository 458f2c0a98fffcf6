package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMX_RequestDetection(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	assert.False(t, IsHTMX(r))
	assert.False(t, WantsPartial(r))

	r.Header.Set("Hx-Request", "true")
	assert.True(t, IsHTMX(r))
	assert.True(t, WantsPartial(r))

	r.Header.Set("Hx-History-Restore-Request", "true")
	assert.True(t, IsHistoryRestore(r))
	assert.False(t, WantsPartial(r), "history restores need the full document")
}

func TestSetHXTrigger(t *testing.T) {
	rec := httptest.NewRecorder()
	SetHXTrigger(rec, "saved", nil)
	assert.JSONEq(t, `{"saved":true}`, rec.Header().Get("Hx-Trigger"))

	rec = httptest.NewRecorder()
	SetHXTrigger(rec, "nav:activate", map[string]string{"path": "/rfp"})
	assert.JSONEq(t, `{"nav:activate":{"path":"/rfp"}}`, rec.Header().Get("Hx-Trigger"))
}

func TestRedirect(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()
	Redirect(rec, r, "/dashboard")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	r.Header.Set("Hx-Request", "true")
	rec = httptest.NewRecorder()
	Redirect(rec, r, "/dashboard")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Hx-Redirect"))
	assert.Empty(t, rec.Header().Get("Location"))
}

func TestHTMXResponse_Notify(t *testing.T) {
	rec := httptest.NewRecorder()
	HTMX(rec).Notify("error", "")
	assert.Empty(t, rec.Header().Get("Hx-Trigger"), "blank messages are dropped")

	HTMX(rec).Notify("error", "A previous request is still being processed. Please wait.")
	var payload map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("Hx-Trigger")), &payload))
	assert.Equal(t, map[string]string{
		"type":    "error",
		"message": "A previous request is still being processed. Please wait.",
	}, payload["notify"])
	assert.Equal(t, http.StatusOK, rec.Code, "Notify does not write a status")
}
