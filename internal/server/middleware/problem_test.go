package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteProblem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		detail string
	}{
		{name: "ascii", detail: "rate limit exceeded"},
		{name: "non-ascii", detail: "zu viele Anfragen für Mandant Ünïcode ✓"},
		{name: "control characters", detail: "line\x00one\x07\x1b[31m"},
		{name: "quotes and backslashes", detail: `say "hi" \ bye`},
		{name: "invalid utf-8", detail: "bad \xff byte"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			writeProblem(rec, http.StatusTooManyRequests, tc.detail)

			assert.Equal(t, http.StatusTooManyRequests, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			require.True(t, json.Valid(rec.Body.Bytes()), "invalid JSON: %q", rec.Body.String())

			var body struct {
				Title  string `json:"title"`
				Status int    `json:"status"`
				Detail string `json:"detail"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Too Many Requests", body.Title)
			assert.Equal(t, http.StatusTooManyRequests, body.Status)
			assert.NotEmpty(t, body.Detail)
		})
	}
}
