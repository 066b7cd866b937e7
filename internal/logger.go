package internal

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"time"
)

// LogLevel represents different logging levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "ERROR"
	case LogLevelWarn:
		return "WARN"
	case LogLevelInfo:
		return "INFO"
	case LogLevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// SecureLogger provides leveled logging with sensitive data redaction
type SecureLogger struct {
	logger    *log.Logger
	mutex     sync.RWMutex
	level     LogLevel
	debug     bool
	quiet     bool
	redactors []Redactor
}

// Redactor defines an interface for redacting sensitive information
type Redactor interface {
	Redact(input string) string
}

// CredentialRedactor redacts credentials carried in header-like text
type CredentialRedactor struct{}

var credentialPattern = regexp.MustCompile(`(?i)(authorization:\s*(?:bearer\s+|basic\s+)?|bearer\s+|x-api-key:\s*|cookie:\s*)([^\s;]+)`)

func (r *CredentialRedactor) Redact(input string) string {
	return credentialPattern.ReplaceAllString(input, "${1}[REDACTED]")
}

// URLRedactor redacts sensitive URL parameters
type URLRedactor struct{}

var sensitiveParamPattern = regexp.MustCompile(`(?i)\b(access_token|token|api_key|key|secret|password)=([^&\s]+)`)

func (r *URLRedactor) Redact(input string) string {
	return sensitiveParamPattern.ReplaceAllString(input, "${1}=[REDACTED]")
}

// NewSecureLogger creates a new secure logger
func NewSecureLogger(output io.Writer, level LogLevel, debug, quiet bool) *SecureLogger {
	return &SecureLogger{
		logger: log.New(output, "", 0),
		level:  level,
		debug:  debug,
		quiet:  quiet,
		redactors: []Redactor{
			&CredentialRedactor{},
			&URLRedactor{},
		},
	}
}

// NewDefaultLogger creates a logger with default settings
func NewDefaultLogger(debug, quiet bool) *SecureLogger {
	logger := NewSecureLogger(os.Stderr, LogLevelInfo, false, false)
	logger.SetDebug(debug)
	logger.SetQuiet(quiet)
	return logger
}

// NewDiscardLogger returns a logger that drops everything
func NewDiscardLogger() *SecureLogger {
	return NewSecureLogger(io.Discard, LogLevelError, false, true)
}

func (sl *SecureLogger) redactSensitiveData(input string) string {
	sl.mutex.RLock()
	redactors := sl.redactors
	sl.mutex.RUnlock()

	result := input
	for _, redactor := range redactors {
		result = redactor.Redact(result)
	}
	return result
}

func (sl *SecureLogger) formatMessage(level LogLevel, message string) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	if sl.isDebug() {
		// Skip frames inside this file to find the real caller
		for depth := 3; depth <= 5; depth++ {
			_, file, line, ok := runtime.Caller(depth)
			filename := filepath.Base(file)
			if ok && filename != "logger.go" && filename != "log.go" {
				return fmt.Sprintf("[%s] %s %s:%d %s", timestamp, level.String(), filename, line, message)
			}
		}
	}

	return fmt.Sprintf("[%s] %s %s", timestamp, level.String(), message)
}

func (sl *SecureLogger) isDebug() bool {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()
	return sl.debug
}

func (sl *SecureLogger) shouldLog(level LogLevel) bool {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	if sl.quiet && level > LogLevelError {
		return false
	}
	return level <= sl.level
}

func (sl *SecureLogger) output(level LogLevel, format string, args ...interface{}) {
	if !sl.shouldLog(level) {
		return
	}

	message := sl.redactSensitiveData(fmt.Sprintf(format, args...))
	sl.logger.Print(sl.formatMessage(level, message))
}

// Error logs an error message
func (sl *SecureLogger) Error(format string, args ...interface{}) {
	sl.output(LogLevelError, format, args...)
}

// Warn logs a warning message
func (sl *SecureLogger) Warn(format string, args ...interface{}) {
	sl.output(LogLevelWarn, format, args...)
}

// Info logs an info message
func (sl *SecureLogger) Info(format string, args ...interface{}) {
	sl.output(LogLevelInfo, format, args...)
}

// Debug logs a debug message
func (sl *SecureLogger) Debug(format string, args ...interface{}) {
	sl.output(LogLevelDebug, format, args...)
}

// LogHTTPRequest logs an HTTP request with sensitive data redacted
func (sl *SecureLogger) LogHTTPRequest(req *http.Request) {
	if !sl.shouldLog(LogLevelDebug) {
		return
	}

	sl.Debug("HTTP Request: %s %s Headers: %v", req.Method, req.URL.String(), sl.sanitizeHeaders(req.Header))
}

// LogHTTPResponse logs an HTTP response with sensitive data redacted
func (sl *SecureLogger) LogHTTPResponse(resp *http.Response) {
	if !sl.shouldLog(LogLevelDebug) {
		return
	}

	sl.Debug("HTTP Response: %s length=%d Headers: %v", resp.Status, resp.ContentLength, sl.sanitizeHeaders(resp.Header))
}

func (sl *SecureLogger) sanitizeHeaders(header http.Header) map[string]string {
	sanitized := make(map[string]string, len(header))
	for name, values := range header {
		if sl.isSensitiveHeader(name) {
			sanitized[name] = "[REDACTED]"
		} else {
			sanitized[name] = strings.Join(values, ", ")
		}
	}
	return sanitized
}

func (sl *SecureLogger) isSensitiveHeader(name string) bool {
	sensitiveHeaders := []string{
		"authorization",
		"cookie",
		"x-auth-token",
		"x-api-key",
		"bearer",
		"token",
	}

	lowerName := strings.ToLower(name)
	for _, sensitive := range sensitiveHeaders {
		if strings.Contains(lowerName, sensitive) {
			return true
		}
	}
	return false
}

// SetDebug enables or disables debug mode
func (sl *SecureLogger) SetDebug(debug bool) {
	sl.mutex.Lock()
	defer sl.mutex.Unlock()
	sl.debug = debug
	if debug {
		sl.level = LogLevelDebug
	}
}

// SetQuiet enables or disables quiet mode
func (sl *SecureLogger) SetQuiet(quiet bool) {
	sl.mutex.Lock()
	defer sl.mutex.Unlock()
	sl.quiet = quiet
	if quiet {
		sl.level = LogLevelError
	}
}
