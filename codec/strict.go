package codec

import (
	"fmt"
	"reflect"
	"strconv"

	idjson "github.com/reoring/idjson"
)

// StrictInt64 converts required int64 values. Identifier fields are written as
// JSON strings; reading an identifier string that is not a valid int64 fails
// with *idjson.SerializationError. Numbers, nulls and non-identifier fields are
// left to default handling.
type StrictInt64 struct{}

var _ idjson.Converter = StrictInt64{}

func (StrictInt64) Name() string { return "strict-int64" }

// CanConvert accepts every type whose kind is int64, named types included.
func (StrictInt64) CanConvert(t reflect.Type) bool { return t.Kind() == reflect.Int64 }

func (StrictInt64) WriteJSON(w *idjson.Writer, path idjson.FieldPath, v reflect.Value, next idjson.EncodeFunc) error {
	if v.Kind() != reflect.Int64 {
		panic(fmt.Sprintf("codec: StrictInt64 cannot write %s at %s", v.Type(), path))
	}
	if !IsIdentifierField(string(path)) {
		return next(w, path, v)
	}
	w.WriteString(strconv.FormatInt(v.Int(), 10))
	return nil
}

func (StrictInt64) ReadJSON(tok idjson.Token, path idjson.FieldPath, dst reflect.Value, next idjson.DecodeFunc) (idjson.Presence, error) {
	if tok.Kind != idjson.TokenString || !IsIdentifierField(string(path)) {
		return 0, next(tok, path, dst)
	}
	n, err := strconv.ParseInt(tok.String, 10, 64)
	if err != nil {
		return 0, idjson.NewSerializationError(path, idjson.CodeInvalidFormat, tok.String, err)
	}
	dst.SetInt(n)
	return 0, nil
}
