package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	c := NewHTTPClient(HTTPConfig{BaseURL: srv.URL, Retry: fastRetryConfig()}, zerolog.Nop())
	return c, srv.Close
}

func TestGetJSON_DecodesSuccessfulResponse(t *testing.T) {
	c, closeFn := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	})
	defer closeFn()

	var out map[string]string
	require.NoError(t, c.getJSON(context.Background(), "/whatever", nil, &out))
	assert.Equal(t, "yes", out["ok"])
}

func TestGetJSON_ReturnsStatusErrorOnNon200(t *testing.T) {
	c, closeFn := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer closeFn()

	err := c.getJSON(context.Background(), "/missing", nil, nil)
	require.Error(t, err)
}

func TestParseLocaleFloat_NormalizesPersianDigitsAndSeparators(t *testing.T) {
	v, err := parseLocaleFloat("۱۲,۳۴۵.۶")
	require.NoError(t, err)
	assert.InDelta(t, 12345.6, v, 0.0001)
}

func TestParseLocaleFloat_EmptyStringIsZero(t *testing.T) {
	v, err := parseLocaleFloat("  ")
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestParseISODate_FallsBackToDateOnly(t *testing.T) {
	got, err := parseISODate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, 2024, got.Year())
}
