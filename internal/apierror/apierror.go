// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// StockError tells the client how many units were available so it can show them.
type StockError struct {
	Detail     string `json:"detail"`
	Disponible int    `json:"disponible"`
}

func NewStock(msg string, disponible int) *StockError {
	return &StockError{Detail: msg, Disponible: disponible}
}
