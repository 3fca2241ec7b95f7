package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/offroutechronicles/offroute-server/internal/errors"
)

// EnvelopeVersion is the "v" field of every response body. Clients
// reject versions they do not know.
const EnvelopeVersion = 1

// Envelope wraps a successful response body.
type Envelope struct {
	Version int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorEnvelope is the body of every error response.
type ErrorEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps huma response bodies in the envelope.
// Errors become an ErrorEnvelope; anything else is placed under data.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case Envelope, *Envelope, ErrorEnvelope, *ErrorEnvelope:
		return v, nil
	case *APIError:
		return newErrorEnvelope(body.Code, body.Message, body.Details), nil
	case *domainerrors.Error:
		return newErrorEnvelope(string(body.Code), body.Message, body.Details), nil
	case error:
		code, _ := strconv.Atoi(status)
		return newErrorEnvelope(statusToCode(code), body.Error(), nil), nil
	}

	code, err := strconv.Atoi(status)
	if err != nil {
		code = 200
	}
	return Envelope{
		Version: EnvelopeVersion,
		Success: code < 400,
		Data:    v,
	}, nil
}

func newErrorEnvelope(code, message string, details any) ErrorEnvelope {
	return ErrorEnvelope{
		Version: EnvelopeVersion,
		Success: false,
		Code:    code,
		Message: message,
		Details: details,
	}
}
