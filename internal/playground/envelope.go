// Package playground builds, validates and dispatches requests described by a
// test configuration, against a mock backend or a real one.
package playground

import (
	"encoding/json"
	"net/http"

	"github.com/GabrielNunesIT/openapi-playground/internal/domain"
)

// Response codes carried in envelope metadata.
const (
	CodeSuccess         = "SUCCESS"
	CodeCreated         = "CREATED"
	CodeValidationError = "VALIDATION_ERROR"
	CodeInvalidBody     = "INVALID_BODY"
	CodeMockNotFound    = "MOCK_NOT_FOUND"
	CodeRequestError    = "REQUEST_ERROR"
	CodeAPIError        = "API_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeInternalError   = "INTERNAL_SERVER_ERROR"
	CodeNoOpenAPIDir    = "NO_OPENAPI_DIR"
	CodeNoSpecFiles     = "NO_YAML_FILES"
)

// Envelope is the {success, data, meta} shape shared by the playground API and mock backend.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Meta    Meta `json:"meta"`
}

// Meta carries the outcome of a request.
type Meta struct {
	HTTPStatusCode int                    `json:"http_status_code,omitempty"`
	Success        *Status                `json:"success,omitempty"`
	Error          *Status                `json:"error,omitempty"`
	Warnings       []domain.DocumentError `json:"warnings,omitempty"`
}

// Status is a code/message pair.
type Status struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorMessage returns the error message, if any.
func (e Envelope) ErrorMessage() string {
	if e.Meta.Error == nil {
		return ""
	}

	return e.Meta.Error.Message
}

func successEnvelope(data any, status int, code, message string) Envelope {
	return Envelope{
		Success: true,
		Data:    data,
		Meta: Meta{
			HTTPStatusCode: status,
			Success:        &Status{Code: code, Message: message},
		},
	}
}

func errorEnvelope(status int, code, message string) Envelope {
	return Envelope{
		Success: false,
		Data:    []any{},
		Meta: Meta{
			HTTPStatusCode: status,
			Error:          &Status{Code: code, Message: message},
		},
	}
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
