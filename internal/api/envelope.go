package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is the wire version of the response envelope. Bump
// only when the envelope structure itself changes.
const envelopeVersion = 1

// Envelope is the uniform JSON wrapper around every API response body.
// Success responses carry data; error responses carry a flat error
// string plus the structured code/message/details when available.
type Envelope struct {
	V       int    `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitempty" doc:"Response payload"`
	Error   string `json:"error,omitempty" doc:"Error summary"`
	Code    string `json:"code,omitempty" doc:"Machine-readable error code"`
	Message string `json:"message,omitempty" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// EnvelopeTransformer wraps every outgoing body in the Envelope
// structure. Registered on the huma config so handlers return plain
// response types.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if _, ok := v.(*Envelope); ok {
		return v, nil
	}

	code, err := strconv.Atoi(status)
	if err != nil {
		code = 200
	}
	success := code < 400

	if apiErr, ok := v.(*APIError); ok {
		return &Envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	if e, ok := v.(error); ok {
		return &Envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   e.Error(),
		}, nil
	}

	return &Envelope{
		V:       envelopeVersion,
		Success: success,
		Data:    v,
	}, nil
}
