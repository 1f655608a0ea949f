package exam

import (
	"errors"
	"fmt"
)

// ErrorType classifies why a report could not be turned into a Record
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeIO
	ErrorTypeConversion
	ErrorTypeStructure
	ErrorTypeInvalidArgument
)

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeIO:
		return "IO_ERROR"
	case ErrorTypeConversion:
		return "CONVERSION_ERROR"
	case ErrorTypeStructure:
		return "STRUCTURE_ERROR"
	case ErrorTypeInvalidArgument:
		return "INVALID_ARGUMENT"
	default:
		return "UNKNOWN"
	}
}

// Sentinel errors wrapped by ParseError so callers can use errors.Is
var (
	ErrUnknownLaterality = errors.New("laterality code (\"OS\" or \"OD\") not found in expected location")
	ErrInvalidEye        = errors.New("eye must be either \"left\" or \"right\"")
	ErrLineOutOfRange    = errors.New("line index out of range")
	ErrDelimiterNotFound = errors.New("delimiter not found")
	ErrTokenNotFound     = errors.New("token not found")
	ErrSliceOutOfRange   = errors.New("character offset out of range")
	ErrInvalidNumber     = errors.New("invalid integer value")
	ErrRowTooWide        = errors.New("row has more than 9 values")
	ErrNoPages           = errors.New("document has no pages")
	ErrNoText            = errors.New("no text content could be extracted")
)

// ParseError describes a failed layout assumption. Line is -1 when the
// failure is not tied to a single line of the report.
type ParseError struct {
	Type    ErrorType `json:"type"`
	Field   string    `json:"field,omitempty"`
	Line    int       `json:"line"`
	Path    string    `json:"path,omitempty"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// Error implements the error interface
func (e *ParseError) Error() string {
	msg := fmt.Sprintf("[%s]", e.Type)
	if e.Path != "" {
		msg += " " + e.Path + ":"
	}
	if e.Field != "" {
		msg += " field " + e.Field
	}
	if e.Line >= 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	if e.Field != "" || e.Line >= 0 {
		msg += ":"
	}
	msg += " " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Err
}

// WithPath returns a copy of the error annotated with the source document
func (e *ParseError) WithPath(path string) *ParseError {
	cp := *e
	cp.Path = path
	return &cp
}

// NewStructureError reports a missing delimiter, token, line or code
func NewStructureError(field string, line int, err error, message string) *ParseError {
	return &ParseError{Type: ErrorTypeStructure, Field: field, Line: line, Message: message, Err: err}
}

// NewConversionError reports text that could not be converted to a value
func NewConversionError(field string, line int, err error, message string) *ParseError {
	return &ParseError{Type: ErrorTypeConversion, Field: field, Line: line, Message: message, Err: err}
}

// NewIOError reports a document that could not be read
func NewIOError(path string, err error, message string) *ParseError {
	return &ParseError{Type: ErrorTypeIO, Line: -1, Path: path, Message: message, Err: err}
}

// IsType reports whether err is a ParseError of the given type
func IsType(err error, t ErrorType) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Type == t
	}
	return false
}
