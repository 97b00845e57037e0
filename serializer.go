package idjson

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"

	gojson "github.com/goccy/go-json"
)

// Serializer walks Go object graphs to and from JSON, handing values to the
// first registered Converter whose CanConvert accepts their static type and
// falling back to default handling otherwise.
//
// A Serializer is immutable after NewSerializer and safe for concurrent use.
// Per-type plans are built on first use and cached for its lifetime.
type Serializer struct {
	converters  []Converter
	driver      JSONDriver
	opt         DecodeOpt
	prefix      string
	indent      string
	onMalformed func(path FieldPath, raw string)

	codecs sync.Map // reflect.Type -> *typeCodec
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithConverters appends converters. Order matters: for each type the first
// converter that accepts it wins.
func WithConverters(cs ...Converter) Option {
	return func(s *Serializer) {
		for _, c := range cs {
			if c != nil {
				s.converters = append(s.converters, c)
			}
		}
	}
}

// WithDriver selects the tokenizer used by Unmarshal and DecodeReader. When
// unset the global driver (see SetJSONDriver) is used.
func WithDriver(d JSONDriver) Option { return func(s *Serializer) { s.driver = d } }

// WithDecodeOpt sets decode-time enforcement and unknown-key handling.
func WithDecodeOpt(o DecodeOpt) Option { return func(s *Serializer) { s.opt = o } }

// WithIndent makes Marshal and Encode produce indented output.
func WithIndent(prefix, indent string) Option {
	return func(s *Serializer) { s.prefix, s.indent = prefix, indent }
}

// WithMalformedHandler registers fn to be called whenever a converter accepts
// a value as "no value" because it could not be parsed.
func WithMalformedHandler(fn func(path FieldPath, raw string)) Option {
	return func(s *Serializer) { s.onMalformed = fn }
}

// NewSerializer builds a Serializer from opts.
func NewSerializer(opts ...Option) *Serializer {
	s := &Serializer{}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Converters returns the registered converters in precedence order.
func (s *Serializer) Converters() []Converter { return append([]Converter(nil), s.converters...) }

// Marshal returns the JSON encoding of v.
func (s *Serializer) Marshal(v any) ([]byte, error) {
	w := NewWriter()
	if err := s.encodeRoot(w, v); err != nil {
		return nil, err
	}
	if s.prefix == "" && s.indent == "" {
		return w.Bytes(), nil
	}
	return indent(w.Bytes(), s.prefix, s.indent)
}

// MarshalIndent is like Marshal but applies prefix and indent to the output.
func (s *Serializer) MarshalIndent(v any, prefix, ind string) ([]byte, error) {
	w := NewWriter()
	if err := s.encodeRoot(w, v); err != nil {
		return nil, err
	}
	return indent(w.Bytes(), prefix, ind)
}

// Encode writes the JSON encoding of v followed by a newline.
func (s *Serializer) Encode(out io.Writer, v any) error {
	b, err := s.Marshal(v)
	if err != nil {
		return err
	}
	_, err = out.Write(append(b, '\n'))
	return err
}

// Unmarshal decodes data into the value pointed to by v.
func (s *Serializer) Unmarshal(data []byte, v any) error {
	_, err := s.UnmarshalWithMeta(data, v)
	return err
}

// UnmarshalWithMeta decodes data into v and reports presence flags for every
// object member it visited.
func (s *Serializer) UnmarshalWithMeta(data []byte, v any) (PresenceMap, error) {
	if s.opt.MaxBytes > 0 && int64(len(data)) > s.opt.MaxBytes {
		return nil, errMaxBytes(s.opt.MaxBytes)
	}
	return s.Decode(s.jsonDriver().NewBytes(data), v)
}

// DecodeReader decodes a single JSON value from r into v.
func (s *Serializer) DecodeReader(r io.Reader, v any) (PresenceMap, error) {
	if s.opt.MaxBytes <= 0 {
		return s.Decode(s.jsonDriver().NewReader(r), v)
	}
	mr := &maxBytesReader{r: r, n: s.opt.MaxBytes}
	pm, err := s.Decode(s.jsonDriver().NewReader(mr), v)
	if mr.exceeded {
		// some tokenizers replace the reader's error with their own
		return pm, errMaxBytes(s.opt.MaxBytes)
	}
	return pm, err
}

// Decode consumes exactly one JSON value from src into v. Token-level
// failures are reported as Issues; conversion failures as *SerializationError.
func (s *Serializer) Decode(src Source, v any) (PresenceMap, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, &SerializationError{Code: CodeUnsupported, Message: fmt.Sprintf("decode target must be a non-nil pointer, got %T", v)}
	}
	if s.opt.enforced() {
		src = EnforceSource(src, s.opt, nil)
	}
	tok, err := src.NextToken()
	if err != nil {
		return nil, toIssues(err)
	}
	d := &decodeState{s: s, src: src, pm: make(PresenceMap)}
	if err := s.codecFor(rv.Type().Elem()).dec(d, tok, "", rv.Elem()); err != nil {
		return d.pm, toIssues(err)
	}
	if _, err := src.NextToken(); !errors.Is(err, io.EOF) {
		if err == nil {
			return d.pm, Issues{{Code: CodeParseError, Message: "unexpected data after top-level value"}}
		}
		return d.pm, toIssues(err)
	}
	return d.pm, nil
}

// DecodeWithMeta decodes data into a fresh T using s.
func DecodeWithMeta[T any](s *Serializer, data []byte) (Decoded[T], error) {
	var out Decoded[T]
	pm, err := s.UnmarshalWithMeta(data, &out.Value)
	out.Presence = pm
	return out, err
}

func (s *Serializer) jsonDriver() JSONDriver {
	if s.driver != nil {
		return s.driver
	}
	return getJSONDriver()
}

func (s *Serializer) encodeRoot(w *Writer, v any) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		w.WriteNull()
		return nil
	}
	return s.codecFor(rv.Type()).enc(w, "", rv)
}

func indent(src []byte, prefix, ind string) ([]byte, error) {
	var buf bytes.Buffer
	if err := gojson.Indent(&buf, src, prefix, ind); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func errMaxBytes(limit int64) error {
	return Issues{{Code: CodeTruncated, Message: "max bytes exceeded", Offset: limit}}
}

type maxBytesReader struct {
	r        io.Reader
	n        int64
	exceeded bool
}

func (m *maxBytesReader) Read(p []byte) (int, error) {
	if m.n <= 0 {
		// input ending exactly at the limit is fine
		var one [1]byte
		n, err := m.r.Read(one[:])
		if n == 0 {
			return 0, err
		}
		m.exceeded = true
		return 0, errMaxBytes(0)
	}
	if int64(len(p)) > m.n {
		p = p[:m.n]
	}
	n, err := m.r.Read(p)
	m.n -= int64(n)
	return n, err
}
