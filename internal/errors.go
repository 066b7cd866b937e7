package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// ErrorType represents different types of errors
type ErrorType int

const (
	ErrInvalidInput ErrorType = iota
	ErrNetwork
	ErrNetworkTimeout
	ErrNotFound
	ErrUnexpectedStatus
	ErrInvalidResponse
	ErrExtractionFailed
	ErrPermissionDenied
)

// ErrorSeverity represents the severity of an error
type ErrorSeverity int

const (
	SeverityInfo ErrorSeverity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

// ClientError is a BeatSaver client error. Code holds the HTTP status for
// transport errors and the raw extractor status for extraction errors.
type ClientError struct {
	Code       int                    `json:"code"`
	Message    string                 `json:"message"`
	Type       ErrorType              `json:"type"`
	Severity   ErrorSeverity          `json:"severity"`
	URL        string                 `json:"url,omitempty"`
	Suggestion string                 `json:"suggestion,omitempty"`
	Context    map[string]interface{} `json:"context,omitempty"`
	Cause      error                  `json:"-"`
}

// Error implements the error interface
func (e *ClientError) Error() string {
	parts := []string{fmt.Sprintf("beatsaver error (code: %d, type: %s)", e.Code, e.Type.String())}

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, " - ")
}

// Unwrap returns the underlying cause
func (e *ClientError) Unwrap() error {
	return e.Cause
}

// DetailedError returns a detailed error message with all available information
func (e *ClientError) DetailedError() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("[%s] %s Error", e.Severity.String(), e.Type.String()))

	if e.Code != 0 {
		parts = append(parts, fmt.Sprintf("Code: %d", e.Code))
	}
	if e.Message != "" {
		parts = append(parts, fmt.Sprintf("Message: %s", e.Message))
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("Cause: %v", e.Cause))
	}

	if e.URL != "" {
		parts = append(parts, fmt.Sprintf("URL: %s", redactSensitiveURL(e.URL)))
	}

	if len(e.Context) > 0 {
		contextParts := make([]string, 0, len(e.Context))
		for k, v := range e.Context {
			contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("Context: %s", strings.Join(contextParts, ", ")))
	}

	if e.Suggestion != "" {
		parts = append(parts, fmt.Sprintf("\nSuggestion: %s", e.Suggestion))
	}

	return strings.Join(parts, "\n")
}

// String returns the string representation of ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrInvalidInput:
		return "InvalidInput"
	case ErrNetwork:
		return "Network"
	case ErrNetworkTimeout:
		return "NetworkTimeout"
	case ErrNotFound:
		return "NotFound"
	case ErrUnexpectedStatus:
		return "UnexpectedStatus"
	case ErrInvalidResponse:
		return "InvalidResponse"
	case ErrExtractionFailed:
		return "ExtractionFailed"
	case ErrPermissionDenied:
		return "PermissionDenied"
	default:
		return "Unknown"
	}
}

// String returns the string representation of ErrorSeverity
func (es ErrorSeverity) String() string {
	switch es {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// NewClientError creates a new ClientError with default suggestion and severity
func NewClientError(code int, message string, errorType ErrorType) *ClientError {
	return &ClientError{
		Code:       code,
		Message:    message,
		Type:       errorType,
		Severity:   getDefaultSeverity(errorType),
		Suggestion: getDefaultSuggestion(errorType, code),
		Context:    make(map[string]interface{}),
	}
}

// WithSuggestion adds a custom suggestion to the error
func (e *ClientError) WithSuggestion(suggestion string) *ClientError {
	e.Suggestion = suggestion
	return e
}

// WithURL adds URL context to the error (redacted when printed)
func (e *ClientError) WithURL(url string) *ClientError {
	e.URL = url
	return e
}

// WithCause records the underlying error
func (e *ClientError) WithCause(err error) *ClientError {
	e.Cause = err
	return e
}

// WithContext adds context information to the error
func (e *ClientError) WithContext(key string, value interface{}) *ClientError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// IsCritical returns true if the error is critical and should stop execution
func (e *ClientError) IsCritical() bool {
	return e.Severity == SeverityCritical
}

// ErrorTypeOf reports the ErrorType of err if it wraps a ClientError
func ErrorTypeOf(err error) (ErrorType, bool) {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type, true
	}
	return 0, false
}

// StatusCodeOf returns the HTTP status recorded on err, or 0
func StatusCodeOf(err error) int {
	var ce *ClientError
	if errors.As(err, &ce) && ce.Type != ErrExtractionFailed {
		return ce.Code
	}
	return 0
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field      string                 `json:"field"`
	Message    string                 `json:"message"`
	Value      interface{}            `json:"value,omitempty"`
	Suggestion string                 `json:"suggestion,omitempty"`
	Context    map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := []string{fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)}

	if e.Suggestion != "" {
		parts = append(parts, fmt.Sprintf("Suggestion: %s", e.Suggestion))
	}

	return strings.Join(parts, " - ")
}

// DetailedError returns a detailed validation error message
func (e *ValidationError) DetailedError() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Validation Error for field '%s'", e.Field))
	parts = append(parts, fmt.Sprintf("Message: %s", e.Message))

	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("Provided value: %v", e.Value))
	}

	if len(e.Context) > 0 {
		contextParts := make([]string, 0, len(e.Context))
		for k, v := range e.Context {
			contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("Context: %s", strings.Join(contextParts, ", ")))
	}

	if e.Suggestion != "" {
		parts = append(parts, fmt.Sprintf("\nSuggestion: %s", e.Suggestion))
	}

	return strings.Join(parts, "\n")
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// NewValidationErrorWithValue creates a ValidationError with the invalid value
func NewValidationErrorWithValue(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Context: make(map[string]interface{}),
	}
}

// WithSuggestion adds a suggestion to the validation error
func (e *ValidationError) WithSuggestion(suggestion string) *ValidationError {
	e.Suggestion = suggestion
	return e
}

// WithContext adds context to the validation error
func (e *ValidationError) WithContext(key string, value interface{}) *ValidationError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func getDefaultSuggestion(errorType ErrorType, code int) string {
	switch errorType {
	case ErrInvalidInput:
		return "Check the key, hash or query passed to the command"
	case ErrNetwork:
		return "Check your internet connection and try again. Consider using a proxy if needed"
	case ErrNetworkTimeout:
		return "The request timed out. Try again or raise the timeout"
	case ErrNotFound:
		return "Verify the map key or hash; the map may have been deleted"
	case ErrUnexpectedStatus:
		if code >= 500 {
			return "Server error occurred. Please try again later"
		}
		return "The service rejected the request"
	case ErrInvalidResponse:
		return "Invalid response from server. The API might have changed"
	case ErrExtractionFailed:
		return "The downloaded archive could not be extracted. Check disk space and the songs directory"
	case ErrPermissionDenied:
		return "Permission denied. Check permissions on the songs directory"
	default:
		return "Please check the error details and try again"
	}
}

func getDefaultSeverity(errorType ErrorType) ErrorSeverity {
	switch errorType {
	case ErrNetwork, ErrNetworkTimeout, ErrNotFound:
		return SeverityWarning
	case ErrPermissionDenied:
		return SeverityCritical
	default:
		return SeverityError
	}
}

// redactSensitiveURL strips the query string
func redactSensitiveURL(url string) string {
	if strings.Contains(url, "?") {
		parts := strings.Split(url, "?")
		return parts[0] + "?[REDACTED]"
	}
	return url
}

// NewNotFoundError creates an error for a missing map
func NewNotFoundError(url string) *ClientError {
	return NewClientError(404, "Map not found", ErrNotFound).WithURL(url)
}

// NewStatusError creates an error for a non-2xx response
func NewStatusError(url string, status int) *ClientError {
	if status == 404 {
		return NewNotFoundError(url)
	}
	return NewClientError(status, fmt.Sprintf("unexpected HTTP status %d", status), ErrUnexpectedStatus).
		WithURL(url)
}

// NewNetworkTimeoutError creates an error for network timeouts
func NewNetworkTimeoutError(operation string) *ClientError {
	return NewClientError(408, fmt.Sprintf("Network timeout during %s", operation), ErrNetworkTimeout)
}

// NewExtractionError creates an error for a failed archive extraction
func NewExtractionError(code int, dest string, cause error) *ClientError {
	err := NewClientError(code, "archive extraction failed", ErrExtractionFailed).
		WithContext("destination", dest).
		WithCause(cause)
	if errors.Is(cause, fs.ErrPermission) {
		err.Severity = SeverityCritical
		err.Suggestion = "Check write permissions of the custom levels folder"
	}
	return err
}
