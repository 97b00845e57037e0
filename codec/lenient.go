package codec

import (
	"fmt"
	"reflect"
	"strconv"

	idjson "github.com/reoring/idjson"
)

// LenientInt64 converts optional *int64 values. A nil pointer is written as
// null. Reading null, or an identifier string that does not parse, yields nil
// without an error; the latter is reported as idjson.PresenceMalformed so
// callers can tell it apart from an absent field.
//
// It also accepts plain int64 kinds so it can serve on its own; registered
// after StrictInt64 it only ever sees pointers.
type LenientInt64 struct{}

var _ idjson.Converter = LenientInt64{}

func (LenientInt64) Name() string { return "lenient-int64" }

func (LenientInt64) CanConvert(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Int64
}

func (LenientInt64) WriteJSON(w *idjson.Writer, path idjson.FieldPath, v reflect.Value, next idjson.EncodeFunc) error {
	elem := v
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			w.WriteNull()
			return nil
		}
		elem = v.Elem()
	}
	if elem.Kind() != reflect.Int64 {
		panic(fmt.Sprintf("codec: LenientInt64 cannot write %s at %s", v.Type(), path))
	}
	if !IsIdentifierField(string(path)) {
		return next(w, path, v)
	}
	w.WriteString(strconv.FormatInt(elem.Int(), 10))
	return nil
}

func (LenientInt64) ReadJSON(tok idjson.Token, path idjson.FieldPath, dst reflect.Value, next idjson.DecodeFunc) (idjson.Presence, error) {
	switch {
	case tok.Kind == idjson.TokenNull:
		dst.SetZero()
		return 0, nil
	case tok.Kind == idjson.TokenString && IsIdentifierField(string(path)):
		n, outcome := ParseIdentifier(tok.String)
		if outcome == Malformed {
			dst.SetZero()
			return idjson.PresenceMalformed, nil
		}
		setInt64(dst, n)
		return 0, nil
	}
	return 0, next(tok, path, dst)
}

func setInt64(dst reflect.Value, n int64) {
	if dst.Kind() != reflect.Pointer {
		dst.SetInt(n)
		return
	}
	p := reflect.New(dst.Type().Elem())
	p.Elem().SetInt(n)
	dst.Set(p)
}

// Outcome classifies the result of reading an optional identifier.
type Outcome int

const (
	Absent    Outcome = iota // no value on the wire (null)
	Present                  // parsed
	Malformed                // a string that is not a valid int64
)

func (o Outcome) String() string {
	switch o {
	case Present:
		return "present"
	case Malformed:
		return "malformed"
	}
	return "absent"
}

// ParseIdentifier parses the decimal text of an identifier.
func ParseIdentifier(s string) (int64, Outcome) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, Malformed
	}
	return n, Present
}
