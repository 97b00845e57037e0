// Package gojson tokenizes JSON input with goccy/go-json.
//
// go-json's Decoder.Token does not check separators, so the input is buffered
// and checked with Valid before any token is handed out.
package gojson

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/idjson/internal/engine"
)

// ErrSyntax is returned for input that go-json rejects as malformed JSON.
var ErrSyntax = errors.New("go-json: invalid JSON")

type source struct {
	r    io.Reader
	dec  *j.Decoder
	err  error
	keys eng.KeyTracker
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
// The reader is drained on the first NextToken call.
func NewReader(r io.Reader) eng.TokenSource { return &source{r: r} }

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) load() error {
	b, err := io.ReadAll(s.r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(b)) > 0 && !j.Valid(b) {
		return invalid(b)
	}
	s.dec = newDecoder(b)
	return nil
}

// invalid tells truncated input apart from malformed input: when the
// tokenizer runs out of data inside an open container the input was cut short.
func invalid(b []byte) error {
	dec := newDecoder(b)
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) && depth > 0 {
				return io.ErrUnexpectedEOF
			}
			return ErrSyntax
		}
		switch tok {
		case j.Delim('{'), j.Delim('['):
			depth++
		case j.Delim('}'), j.Delim(']'):
			depth--
		}
	}
}

func newDecoder(b []byte) *j.Decoder {
	dec := j.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec
}

func (s *source) NextToken() (eng.Token, error) {
	if s.dec == nil && s.err == nil {
		s.err = s.load()
	}
	if s.err != nil {
		return eng.Token{}, s.err
	}
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		return eng.Token{Kind: s.keys.Delim(byte(v)), Offset: -1}, nil
	case string:
		if s.keys.IsKey() {
			return eng.Token{Kind: eng.KindKey, String: v, Offset: -1}, nil
		}
		return eng.Token{Kind: eng.KindString, String: v, Offset: -1}, nil
	case bool:
		s.keys.Scalar()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: -1}, nil
	case j.Number:
		s.keys.Scalar()
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: -1}, nil
	case float64:
		s.keys.Scalar()
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: -1}, nil
	}
	s.keys.Scalar()
	return eng.Token{Kind: eng.KindNull, Offset: -1}, nil
}

func (s *source) Location() int64 { return -1 }
