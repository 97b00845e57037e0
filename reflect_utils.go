package idjson

import (
	"reflect"
	"strings"
)

// ResolveStructKey applies the repository-wide rule to resolve a struct field's
// external key. Priority: idjson:"name=..." > json tag name > field name; "-"
// disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	if gt := sf.Tag.Get("idjson"); gt != "" {
		for _, p := range strings.Split(gt, ",") {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if jt[:i] == "" {
				return sf.Name
			}
			return jt[:i]
		}
		return jt
	}
	return sf.Name
}

// hasOmitEmpty reports whether the json tag carries the omitempty option.
func hasOmitEmpty(sf reflect.StructField) bool {
	jt := sf.Tag.Get("json")
	i := strings.IndexByte(jt, ',')
	if i < 0 {
		return false
	}
	for _, opt := range strings.Split(jt[i+1:], ",") {
		if opt == "omitempty" {
			return true
		}
	}
	return false
}
