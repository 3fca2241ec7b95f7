package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/offroutechronicles/offroute-server/internal/errors"
)

func TestEnvelopeTransformer(t *testing.T) {
	tests := []struct {
		name   string
		status string
		body   any
		want   any
	}{
		{
			name:   "success body",
			status: "200",
			body:   map[string]int{"n": 1},
			want:   Envelope{Version: EnvelopeVersion, Success: true, Data: map[string]int{"n": 1}},
		},
		{
			name:   "api error",
			status: "404",
			body:   &APIError{status: http.StatusNotFound, Code: "NOT_FOUND", Message: "gone"},
			want:   ErrorEnvelope{Version: EnvelopeVersion, Code: "NOT_FOUND", Message: "gone"},
		},
		{
			name:   "domain error",
			status: "400",
			body:   domainerrors.ValidationWithDetails("bad", map[string]string{"email": "is required"}),
			want: ErrorEnvelope{
				Version: EnvelopeVersion,
				Code:    "VALIDATION",
				Message: "bad",
				Details: map[string]string{"email": "is required"},
			},
		},
		{
			name:   "plain error",
			status: "503",
			body:   errors.New("down"),
			want:   ErrorEnvelope{Version: EnvelopeVersion, Code: "UNAVAILABLE", Message: "down"},
		},
		{
			name:   "already wrapped",
			status: "200",
			body:   Envelope{Version: EnvelopeVersion, Success: true},
			want:   Envelope{Version: EnvelopeVersion, Success: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EnvelopeTransformer(nil, tt.status, tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusToCode(t *testing.T) {
	assert.Equal(t, "VALIDATION", statusToCode(http.StatusUnprocessableEntity))
	assert.Equal(t, "UNAUTHORIZED", statusToCode(http.StatusUnauthorized))
	assert.Equal(t, "RATE_LIMITED", statusToCode(http.StatusTooManyRequests))
	assert.Equal(t, "INTERNAL", statusToCode(http.StatusTeapot))
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "10.0.0.1", clientIP("10.0.0.1:5555"))
	assert.Equal(t, "::1", clientIP("[::1]:80"))
	assert.Equal(t, "unix", clientIP("unix"))
}
