package transport

import "encoding/json"

// ErrorBody is the payload of every non-2xx response.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// NewError returns an error body with optional details.
func NewError(code, message string, details interface{}) ErrorBody {
	return ErrorBody{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e ErrorBody) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// Health is returned by the unauthenticated root probe.
type Health struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
