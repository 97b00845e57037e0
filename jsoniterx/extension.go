package jsoniterx

import (
	"reflect"
	"strconv"
	"strings"
	"unsafe"

	jsoniter "github.com/json-iterator/go"

	idjson "github.com/reoring/idjson"
	"github.com/reoring/idjson/codec"
)

// fault rides on Iterator.Attachment during API.Unmarshal. Struct decoders
// flatten field errors into strings, so the first identifier failure is kept
// here along with the member path.
type fault struct {
	path []string
	err  *idjson.SerializationError
}

func pathOf(iter *jsoniter.Iterator, field string) idjson.FieldPath {
	if f, ok := iter.Attachment.(*fault); ok && len(f.path) > 0 {
		return idjson.FieldPath(strings.Join(f.path, "."))
	}
	return idjson.FieldPath(field)
}

type pathDecoder struct {
	name string
	next jsoniter.ValDecoder
}

func (d *pathDecoder) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	f, ok := iter.Attachment.(*fault)
	if !ok {
		d.next.Decode(ptr, iter)
		return
	}
	f.path = append(f.path, d.name)
	d.next.Decode(ptr, iter)
	f.path = f.path[:len(f.path)-1]
}

type identifierExtension struct {
	jsoniter.DummyExtension
	onMalformed func(field, raw string)
}

func (e *identifierExtension) UpdateStructDescriptor(desc *jsoniter.StructDescriptor) {
	for _, binding := range desc.Fields {
		if len(binding.ToNames) == 0 {
			continue
		}
		if hasStringOption(binding.Field.Tag().Get("json")) {
			binding.Decoder = &pathDecoder{name: binding.ToNames[0], next: binding.Decoder}
			continue
		}
		name := binding.ToNames[0]
		if codec.IsIdentifierField(name) {
			t := binding.Field.Type().Type1()
			switch {
			case t.Kind() == reflect.Int64:
				binding.Encoder = &strictEncoder{}
				binding.Decoder = &strictDecoder{field: name, next: binding.Decoder}
			case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Int64:
				binding.Encoder = &lenientEncoder{}
				binding.Decoder = &lenientDecoder{field: name, next: binding.Decoder, onMalformed: e.onMalformed}
			}
		}
		binding.Decoder = &pathDecoder{name: name, next: binding.Decoder}
	}
}

// hasStringOption reports the `json:",string"` option, which json-iterator
// already honours on its own.
func hasStringOption(tag string) bool {
	parts := strings.Split(tag, ",")
	for _, p := range parts[1:] {
		if p == "string" {
			return true
		}
	}
	return false
}

type strictEncoder struct{}

func (*strictEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	stream.WriteString(strconv.FormatInt(*(*int64)(ptr), 10))
}

func (*strictEncoder) IsEmpty(ptr unsafe.Pointer) bool { return *(*int64)(ptr) == 0 }

type strictDecoder struct {
	field string
	next  jsoniter.ValDecoder
}

func (d *strictDecoder) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	if iter.WhatIsNext() != jsoniter.StringValue {
		d.next.Decode(ptr, iter)
		return
	}
	s := iter.ReadString()
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		se := idjson.NewSerializationError(pathOf(iter, d.field), idjson.CodeInvalidFormat, s, err)
		if f, ok := iter.Attachment.(*fault); ok && f.err == nil {
			f.err = se
		}
		iter.ReportError("decode "+d.field, "invalid string value for int64: "+strconv.Quote(s))
		return
	}
	*(*int64)(ptr) = n
}

type lenientEncoder struct{}

func (*lenientEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	p := *(**int64)(ptr)
	if p == nil {
		stream.WriteNil()
		return
	}
	stream.WriteString(strconv.FormatInt(*p, 10))
}

func (*lenientEncoder) IsEmpty(ptr unsafe.Pointer) bool { return *(**int64)(ptr) == nil }

type lenientDecoder struct {
	field       string
	next        jsoniter.ValDecoder
	onMalformed func(field, raw string)
}

func (d *lenientDecoder) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		*(**int64)(ptr) = nil
	case jsoniter.StringValue:
		s := iter.ReadString()
		n, outcome := codec.ParseIdentifier(s)
		if outcome == codec.Malformed {
			*(**int64)(ptr) = nil
			if d.onMalformed != nil {
				d.onMalformed(string(pathOf(iter, d.field)), s)
			}
			return
		}
		*(**int64)(ptr) = &n
	default:
		d.next.Decode(ptr, iter)
	}
}
