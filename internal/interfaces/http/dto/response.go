package dto

import appevent "github.com/eventi/backend/internal/application/event"

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse is the body of a failed JSON request
type ErrorResponse struct {
	Error ErrorInfo `json:"error"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message, requestID string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// PublicEventsResponse is the body of the public events API
type PublicEventsResponse struct {
	Events []appevent.PublicEvent `json:"events"`
}

// HealthResponse is the body of the health check
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
}
