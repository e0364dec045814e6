package models

// Error codes carried next to the human readable message.
const (
	CodeValidation       = "validation"
	CodeNotFound         = "not_found"
	CodeUnauthorized     = "unauthorized"
	CodeStorage          = "storage"
	CodeDerivative       = "derivative"
	CodeMethodNotAllowed = "method_not_allowed"
)

// Response is the envelope returned by every content endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Code    string `json:"code,omitempty"`
}

func OK(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

func Fail(code, message string) Response {
	return Response{Success: false, Message: message, Code: code}
}

type AuthStatus struct {
	Authenticated bool `json:"authenticated"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
