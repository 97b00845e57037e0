// Package codec holds the identifier-aware int64 converters for idjson.
//
// A field is an identifier when the last segment of its path ends with "id",
// compared case-insensitively. Identifier int64 values travel as JSON strings
// of decimal text so that clients limited to double precision numbers keep
// every digit. All other fields keep their normal JSON encoding.
//
// Two converters share the rule. StrictInt64 serves required int64 fields and
// rejects identifier strings that do not parse. LenientInt64 serves optional
// *int64 fields and turns such strings into nil. Register them together, strict
// first:
//
//	s := codec.NewSerializer()
//	b, _ := s.Marshal(model)
package codec
