package idjson

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"

	gojson "github.com/goccy/go-json"
)

func (s *Serializer) defaultEncoder(t reflect.Type, plan func() *structPlan) EncodeFunc {
	if t.Implements(marshalerType) || t.Implements(textMarshalerType) {
		return marshalerEncoder
	}
	switch t.Kind() {
	case reflect.Bool:
		return func(w *Writer, _ FieldPath, v reflect.Value) error {
			w.WriteBool(v.Bool())
			return nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(w *Writer, _ FieldPath, v reflect.Value) error {
			w.WriteInt64(v.Int())
			return nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(w *Writer, _ FieldPath, v reflect.Value) error {
			w.WriteUint64(v.Uint())
			return nil
		}
	case reflect.Float32, reflect.Float64:
		return floatEncoder(t.Bits())
	case reflect.String:
		return func(w *Writer, _ FieldPath, v reflect.Value) error {
			w.WriteString(v.String())
			return nil
		}
	case reflect.Interface:
		return func(w *Writer, path FieldPath, v reflect.Value) error {
			if v.IsNil() {
				w.WriteNull()
				return nil
			}
			e := v.Elem()
			return s.codecFor(e.Type()).enc(w, path, e)
		}
	case reflect.Pointer:
		elem := s.codecFor(t.Elem())
		return func(w *Writer, path FieldPath, v reflect.Value) error {
			if v.IsNil() {
				w.WriteNull()
				return nil
			}
			return elem.enc(w, path, v.Elem())
		}
	case reflect.Struct:
		return func(w *Writer, path FieldPath, v reflect.Value) error {
			sp := plan()
			w.BeginObject()
			for i := range sp.fields {
				f := &sp.fields[i]
				fv := v.FieldByIndex(f.index)
				if f.omitEmpty && isEmptyValue(fv) {
					continue
				}
				w.Key(f.name)
				if err := f.codec.enc(w, path.Field(f.name), fv); err != nil {
					return err
				}
			}
			w.EndObject()
			return nil
		}
	case reflect.Map:
		return s.mapEncoder(t)
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 && !t.Elem().Implements(marshalerType) {
			return func(w *Writer, _ FieldPath, v reflect.Value) error {
				if v.IsNil() {
					w.WriteNull()
					return nil
				}
				b, err := gojson.Marshal(v.Bytes())
				if err != nil {
					return err
				}
				w.WriteRaw(b)
				return nil
			}
		}
		elem := s.codecFor(t.Elem())
		return func(w *Writer, path FieldPath, v reflect.Value) error {
			if v.IsNil() {
				w.WriteNull()
				return nil
			}
			return encodeElements(w, path, v, elem)
		}
	case reflect.Array:
		elem := s.codecFor(t.Elem())
		return func(w *Writer, path FieldPath, v reflect.Value) error {
			return encodeElements(w, path, v, elem)
		}
	}
	return unsupportedEncoder(t)
}

func encodeElements(w *Writer, path FieldPath, v reflect.Value, elem *typeCodec) error {
	w.BeginArray()
	for i := 0; i < v.Len(); i++ {
		if err := elem.enc(w, path.Index(i), v.Index(i)); err != nil {
			return err
		}
	}
	w.EndArray()
	return nil
}

func (s *Serializer) mapEncoder(t reflect.Type) EncodeFunc {
	keyString, ok := mapKeyFormatter(t.Key())
	if !ok {
		return unsupportedEncoder(t)
	}
	elem := s.codecFor(t.Elem())
	return func(w *Writer, path FieldPath, v reflect.Value) error {
		if v.IsNil() {
			w.WriteNull()
			return nil
		}
		type entry struct {
			key string
			val reflect.Value
		}
		entries := make([]entry, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			entries = append(entries, entry{key: keyString(iter.Key()), val: iter.Value()})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
		w.BeginObject()
		for _, e := range entries {
			w.Key(e.key)
			if err := elem.enc(w, path.Field(e.key), e.val); err != nil {
				return err
			}
		}
		w.EndObject()
		return nil
	}
}

func mapKeyFormatter(kt reflect.Type) (func(reflect.Value) string, bool) {
	switch kt.Kind() {
	case reflect.String:
		return func(k reflect.Value) string { return k.String() }, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(k reflect.Value) string { return strconv.FormatInt(k.Int(), 10) }, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(k reflect.Value) string { return strconv.FormatUint(k.Uint(), 10) }, true
	}
	return nil, false
}

func floatEncoder(bits int) EncodeFunc {
	return func(w *Writer, path FieldPath, v reflect.Value) error {
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &SerializationError{Path: path, Code: CodeUnsupported, Value: strconv.FormatFloat(f, 'g', -1, bits), Message: "unsupported float value"}
		}
		var (
			b   []byte
			err error
		)
		if bits == 32 {
			b, err = gojson.Marshal(float32(f))
		} else {
			b, err = gojson.Marshal(f)
		}
		if err != nil {
			return err
		}
		w.WriteRaw(b)
		return nil
	}
}

func marshalerEncoder(w *Writer, path FieldPath, v reflect.Value) error {
	if v.Kind() == reflect.Pointer && v.IsNil() {
		w.WriteNull()
		return nil
	}
	b, err := gojson.Marshal(v.Interface())
	if err != nil {
		return &SerializationError{Path: path, Code: CodeInvalidType, Message: err.Error(), Cause: err}
	}
	w.WriteRaw(b)
	return nil
}

func unsupportedEncoder(t reflect.Type) EncodeFunc {
	return func(_ *Writer, path FieldPath, _ reflect.Value) error {
		return &SerializationError{Path: path, Code: CodeUnsupported, Message: fmt.Sprintf("cannot encode %s", t)}
	}
}
