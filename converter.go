package idjson

import "reflect"

// EncodeFunc writes v, located at path, to w.
type EncodeFunc func(w *Writer, path FieldPath, v reflect.Value) error

// DecodeFunc stores the value that starts with tok, located at path, into dst.
// dst is always settable.
type DecodeFunc func(tok Token, path FieldPath, dst reflect.Value) error

// Converter takes over encoding and decoding of values whose static type it
// accepts. The Serializer asks CanConvert once per type while building its
// plan; WriteJSON and ReadJSON then run for every value of that type, with
// next bound to the default handling so a converter can defer to it.
//
// Converters must be safe for concurrent use.
type Converter interface {
	Name() string
	CanConvert(t reflect.Type) bool
	WriteJSON(w *Writer, path FieldPath, v reflect.Value, next EncodeFunc) error
	// ReadJSON returns extra presence flags for path (usually 0). Returning
	// PresenceMalformed tells the Serializer the value was present but was
	// decoded as "no value".
	ReadJSON(tok Token, path FieldPath, dst reflect.Value, next DecodeFunc) (Presence, error)
}
