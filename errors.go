package idjson

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/reoring/idjson/i18n"
	eng "github.com/reoring/idjson/internal/engine"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeInvalidFormat = "invalid_format"
	CodeUnknownKey    = "unknown_key"
	CodeDuplicateKey  = "duplicate_key"
	CodeParseError    = "parse_error"
	CodeOverflow      = "overflow"
	CodeTruncated     = "truncated"
	CodeUnsupported   = "unsupported_type"
)

// Issue represents a single serialization problem.
type Issue struct {
	Path    string `json:"path"` // Field path (for example: Child.ChildId, Items[2].OwnerId).
	Code    string `json:"code"` // One of the codes listed above.
	Message string `json:"message"`
	// Value is the offending wire text when one is available.
	Value  string `json:"value,omitempty"`
	Cause  error  `json:"-"`
	Offset int64  `json:"offset,omitempty"` // Byte offset in the input source (-1 or 0 when unknown).
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_format at Child.ChildId
		fmt.Fprintf(b, "%s at %s", it.Code, renderPath(it.Path))
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error. A *SerializationError anywhere in the
// chain is reported as a single issue.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var se *SerializationError
	if errors.As(err, &se) {
		return Issues{se.Issue()}, true
	}
	return nil, false
}

// SerializationError reports a value that could not be converted between its
// wire form and its Go form.
type SerializationError struct {
	Path    FieldPath
	Code    string
	Value   string // offending wire text, if any
	Message string
	Cause   error
}

func (e *SerializationError) Error() string {
	b := &strings.Builder{}
	b.WriteString("idjson: ")
	b.WriteString(e.Message)
	if e.Value != "" {
		fmt.Fprintf(b, ": %q", e.Value)
	}
	fmt.Fprintf(b, " (%s at %s)", e.Code, renderPath(string(e.Path)))
	return b.String()
}

func (e *SerializationError) Unwrap() error { return e.Cause }

// Issue projects the error into the Issue model used at API boundaries.
func (e *SerializationError) Issue() Issue {
	return Issue{Path: string(e.Path), Code: e.Code, Message: e.Message, Value: e.Value, Cause: e.Cause}
}

// NewSerializationError builds a SerializationError whose message is the
// localized text for code.
func NewSerializationError(path FieldPath, code, value string, cause error) *SerializationError {
	return &SerializationError{Path: path, Code: code, Value: value, Message: i18n.T(code, nil), Cause: cause}
}

func renderPath(p string) string {
	if p == "" {
		return "$"
	}
	return p
}

// toIssues maps token-level failures (enforcement, syntax, EOF) onto Issues,
// leaving errors that already carry a structured form untouched.
func toIssues(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsIssues(err); ok {
		return err
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return Issues{{Path: ie.Path, Code: ie.Code, Message: i18n.T(ie.Code, nil), Cause: err}}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return Issues{{Code: CodeTruncated, Message: i18n.T(CodeTruncated, nil), Cause: err}}
	}
	return Issues{{Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err}}
}
