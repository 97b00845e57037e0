package jsonschema

import (
	"reflect"
	"strings"
	"time"

	idjson "github.com/reoring/idjson"
	"github.com/reoring/idjson/codec"
)

var (
	timeType    = reflect.TypeOf((*time.Time)(nil)).Elem()
	int64String = `^-?[0-9]+$`
)

// IdentifierKey matches map keys whose values are encoded as identifiers.
const IdentifierKey = `[Ii][Dd]$`

// Reflect describes the JSON shape of t as produced by a codec.NewSerializer:
// identifier int64 members are strings of decimal digits, pointers are
// nullable, and every non-pointer member without omitempty is required.
func Reflect(t reflect.Type) *Schema {
	s := reflectType(t, "", map[reflect.Type]bool{})
	s.SchemaURI = Draft
	s.Title = t.Name()
	return s
}

// For is Reflect for a static type.
func For[T any]() *Schema { return Reflect(reflect.TypeOf((*T)(nil)).Elem()) }

func reflectType(t reflect.Type, path idjson.FieldPath, visiting map[reflect.Type]bool) *Schema {
	if t.Kind() == reflect.Pointer {
		s := reflectType(t.Elem(), path, visiting)
		s.Nullable = true
		return s
	}
	if t == timeType {
		return &Schema{Type: "string", Format: "date-time"}
	}
	switch t.Kind() {
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Int64:
		if codec.IsIdentifierField(string(path)) {
			return &Schema{Type: "string", Format: "int64", Pattern: int64String}
		}
		return &Schema{Type: "integer", Format: "int64"}
	case reflect.Int32:
		return &Schema{Type: "integer", Format: "int32"}
	case reflect.Int, reflect.Int8, reflect.Int16,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}
	case reflect.Float32:
		return &Schema{Type: "number", Format: "float"}
	case reflect.Float64:
		return &Schema{Type: "number", Format: "double"}
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return &Schema{Type: "string", Format: "byte"}
		}
		return &Schema{Type: "array", Items: reflectType(t.Elem(), path.Index(0), visiting)}
	case reflect.Map:
		return reflectMap(t, path, visiting)
	case reflect.Struct:
		return reflectStruct(t, path, visiting)
	}
	return &Schema{}
}

// reflectMap mirrors the serializer, which classifies map values by their key.
func reflectMap(t reflect.Type, path idjson.FieldPath, visiting map[reflect.Type]bool) *Schema {
	s := &Schema{Type: "object", AdditionalProperties: reflectType(t.Elem(), path.Index(0), visiting)}
	elem := t.Elem()
	for elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	if elem.Kind() == reflect.Int64 {
		s.PatternProperties = map[string]*Schema{IdentifierKey: reflectType(t.Elem(), path.Field("id"), visiting)}
	}
	return s
}

func reflectStruct(t reflect.Type, path idjson.FieldPath, visiting map[reflect.Type]bool) *Schema {
	s := &Schema{Type: "object"}
	if visiting[t] {
		// recursive reference; describe it as an open object
		return s
	}
	visiting[t] = true
	defer delete(visiting, t)

	s.Properties = map[string]*Schema{}
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || (sf.Anonymous && sf.Type.Kind() == reflect.Struct && sf.Tag.Get("json") == "") {
			continue
		}
		name := idjson.ResolveStructKey(sf)
		if name == "-" {
			continue
		}
		if _, dup := s.Properties[name]; dup {
			continue
		}
		prop := reflectType(sf.Type, path.Field(name), visiting)
		s.Properties[name] = prop
		if sf.Type.Kind() != reflect.Pointer && !omitEmpty(sf) {
			s.Required = append(s.Required, name)
		}
	}
	return s
}

func omitEmpty(sf reflect.StructField) bool {
	_, opts, _ := strings.Cut(sf.Tag.Get("json"), ",")
	for _, o := range strings.Split(opts, ",") {
		if o == "omitempty" {
			return true
		}
	}
	return false
}
