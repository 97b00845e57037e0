package idjson

import (
	"fmt"
	"io"
	"sync"

	eng "github.com/reoring/idjson/internal/engine"
	gojsonsrc "github.com/reoring/idjson/source/gojson"
	jsonsrc "github.com/reoring/idjson/source/json"
)

// TokenKind enumerates JSON token kinds.
type TokenKind int

const (
	TokenBeginObject TokenKind = iota
	TokenEndObject
	TokenBeginArray
	TokenEndArray
	TokenKey
	TokenString
	TokenNumber
	TokenBool
	TokenNull
)

var tokenKindNames = [...]string{"begin_object", "end_object", "begin_array", "end_array", "key", "string", "number", "bool", "null"}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token describes a token in the input stream. Offset records the byte position
// when known (-1 otherwise).
type Token struct {
	Kind   TokenKind
	String string // Stored for key/string tokens.
	Number string // Stored as text so int64 values keep full precision.
	Bool   bool
	Offset int64
}

// Source abstracts over polymorphic input sources.
type Source interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
}

// JSONDriver converts JSON input into a Source. The default implementation is
// backed by encoding/json; SetJSONDriver swaps it process-wide.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = StdJSONDriver()
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

func getJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

// GoJSONDriver tokenizes with goccy/go-json. Input is buffered and validated
// before tokenizing, so reader sources are drained up front.
func GoJSONDriver() JSONDriver {
	return engineDriver{name: "go-json", reader: gojsonsrc.NewReader, bytes: gojsonsrc.NewBytes}
}

// StdJSONDriver tokenizes with encoding/json. It is the default driver; unlike
// the go-json driver it streams and reports byte offsets.
func StdJSONDriver() JSONDriver {
	return engineDriver{name: "encoding/json", reader: jsonsrc.NewReader, bytes: jsonsrc.NewBytes}
}

// DriverByName resolves a configured driver name ("gojson" or "json").
func DriverByName(name string) (JSONDriver, error) {
	switch name {
	case "", "json", "encoding/json", "std":
		return StdJSONDriver(), nil
	case "gojson", "go-json":
		return GoJSONDriver(), nil
	}
	return nil, fmt.Errorf("idjson: unknown JSON driver %q", name)
}

type engineDriver struct {
	name   string
	reader func(io.Reader) eng.TokenSource
	bytes  func([]byte) eng.TokenSource
}

func (d engineDriver) NewReader(r io.Reader) Source { return SourceFromEngine(d.reader(r)) }
func (d engineDriver) NewBytes(b []byte) Source     { return SourceFromEngine(d.bytes(b)) }
func (d engineDriver) Name() string                 { return d.name }

// JSONReader wraps an io.Reader as a JSON Source using the global driver.
func JSONReader(r io.Reader) Source { return getJSONDriver().NewReader(r) }

// JSONBytes wraps a byte slice as a JSON Source using the global driver.
func JSONBytes(b []byte) Source { return getJSONDriver().NewBytes(b) }

// SourceFromEngine wraps an engine.TokenSource as an idjson.Source.
func SourceFromEngine(inner eng.TokenSource) Source {
	return &engineSourceAdapter{inner: inner}
}

// EnforceSource wraps a Source with runtime enforcement (duplicate keys, depth, bytes).
// Duplicate keys at Warn severity are forwarded to sink when it is non-nil.
func EnforceSource(s Source, opt DecodeOpt, sink func(Issue)) Source {
	var forward func(eng.SimpleIssue)
	if sink != nil {
		forward = func(si eng.SimpleIssue) {
			sink(Issue{Path: si.Path, Code: si.Code, Message: si.Message, Offset: s.Location()})
		}
	}
	eo := eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   forward,
	}
	// Fast-path: unwrap to avoid public<->engine adapter round-trips.
	if ea, ok := s.(*engineSourceAdapter); ok {
		return &engineSourceAdapter{inner: eng.WrapWithEnforcement(ea.inner, eo)}
	}
	return SourceFromEngine(eng.WrapWithEnforcement(&tokenSourceAdapter{inner: s}, eo))
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	default:
		return eng.DupIgnore
	}
}

type engineSourceAdapter struct {
	inner eng.TokenSource
}

func (s *engineSourceAdapter) NextToken() (Token, error) {
	t, err := s.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	return Token{Kind: TokenKind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}
func (s *engineSourceAdapter) Location() int64 { return s.inner.Location() }

// tokenSourceAdapter exposes a public Source as an engine.TokenSource.
type tokenSourceAdapter struct {
	inner Source
}

func (a *tokenSourceAdapter) NextToken() (eng.Token, error) {
	t, err := a.inner.NextToken()
	if err != nil {
		return eng.Token{}, err
	}
	return eng.Token{Kind: eng.Kind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}
func (a *tokenSourceAdapter) Location() int64 { return a.inner.Location() }
