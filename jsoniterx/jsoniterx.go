// Package jsoniterx binds the identifier int64 rules to json-iterator.
//
// The extension swaps the encoder and decoder of every int64 and *int64 struct
// field whose wire name ends with "id" (any case). Only the field name is
// known to json-iterator, so classification uses the member name rather than
// the full path; map values are never converted.
//
// API.Unmarshal reports a malformed required identifier as an
// *idjson.SerializationError whose path lists the enclosing member names.
// Array indexes are not part of that path. Streams read through NewDecoder
// get json-iterator's plain error instead.
package jsoniterx

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

// Options configures New.
type Options struct {
	// Indent is the indentation step for MarshalIndent-style output; 0 means
	// compact output.
	Indent int
	// OnMalformed is called with the field name and raw text whenever an
	// optional identifier is read as nil because it did not parse.
	OnMalformed func(field, raw string)
}

// API is a json-iterator configuration carrying the identifier extension.
type API struct {
	jsoniter.API
}

// Unmarshal decodes data into v, returning *idjson.SerializationError for
// malformed required identifiers.
func (a API) Unmarshal(data []byte, v any) error {
	iter := a.BorrowIterator(data)
	defer a.ReturnIterator(iter)
	f := &fault{}
	iter.Attachment = f
	iter.ReadVal(v)
	if f.err != nil {
		return f.err
	}
	if iter.Error != nil && iter.Error != io.EOF {
		return iter.Error
	}
	iter.WhatIsNext()
	if iter.Error == io.EOF {
		return nil
	}
	iter.ReportError("Unmarshal", "there are bytes left after unmarshal")
	return iter.Error
}

// New returns a json-iterator API with the identifier extension registered on
// that configuration only.
func New(opts Options) API {
	api := jsoniter.Config{
		IndentionStep:          opts.Indent,
		EscapeHTML:             true,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
	}.Froze()
	api.RegisterExtension(&identifierExtension{onMalformed: opts.OnMalformed})
	return API{api}
}

var std = New(Options{})

var (
	Marshal    = std.Marshal
	Unmarshal  = std.Unmarshal
	NewEncoder = std.NewEncoder
	NewDecoder = std.NewDecoder
)
