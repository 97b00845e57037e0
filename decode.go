package idjson

import (
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"
	"strconv"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/idjson/i18n"
	eng "github.com/reoring/idjson/internal/engine"
)

// decodeState is the per-call state shared by every decodeFn of one Decode.
type decodeState struct {
	s   *Serializer
	src Source
	pm  PresenceMap
}

// bind exposes fn as the DecodeFunc handed to converters.
func (d *decodeState) bind(fn decodeFn) DecodeFunc {
	return func(tok Token, path FieldPath, dst reflect.Value) error {
		return fn(d, tok, path, dst)
	}
}

func (d *decodeState) malformed(path FieldPath, tok Token) {
	if d.s.onMalformed != nil {
		d.s.onMalformed(path, tokenText(tok))
	}
}

func (d *decodeState) next() (Token, error) { return d.src.NextToken() }

func (d *decodeState) skip(tok Token) error {
	return eng.Skip(&tokenSourceAdapter{inner: d.src}, toEngineToken(tok))
}

// decodeAny materializes the value starting at tok as map/slice/scalar data.
func (d *decodeState) decodeAny(tok Token) (any, error) {
	return eng.DecodeValue(&tokenSourceAdapter{inner: d.src}, toEngineToken(tok))
}

func toEngineToken(t Token) eng.Token {
	return eng.Token{Kind: eng.Kind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}
}

// tokenText is the wire text of a scalar token, used in error values.
func tokenText(tok Token) string {
	switch tok.Kind {
	case TokenString, TokenKey:
		return tok.String
	case TokenNumber:
		return tok.Number
	case TokenBool:
		return strconv.FormatBool(tok.Bool)
	case TokenNull:
		return "null"
	}
	return tok.Kind.String()
}

func typeMismatch(path FieldPath, t reflect.Type, tok Token) error {
	return &SerializationError{
		Path:    path,
		Code:    CodeInvalidType,
		Value:   tokenText(tok),
		Message: fmt.Sprintf("%s: expected %s, got %s", i18n.T(CodeInvalidType, map[string]string{"expected": t.String()}), t, tok.Kind),
	}
}

func (s *Serializer) defaultDecoder(t reflect.Type, plan func() *structPlan) decodeFn {
	if t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface {
		pt := reflect.PointerTo(t)
		if pt.Implements(unmarshalerType) || pt.Implements(textUnmarshalerType) {
			return unmarshalerDecoder
		}
	}
	switch t.Kind() {
	case reflect.Bool:
		return func(d *decodeState, tok Token, path FieldPath, dst reflect.Value) error {
			switch tok.Kind {
			case TokenNull:
				return nil
			case TokenBool:
				dst.SetBool(tok.Bool)
				return nil
			}
			return typeMismatch(path, t, tok)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(d *decodeState, tok Token, path FieldPath, dst reflect.Value) error {
			switch tok.Kind {
			case TokenNull:
				return nil
			case TokenNumber:
				n, err := strconv.ParseInt(tok.Number, 10, t.Bits())
				if err != nil {
					return numberError(path, t, tok, err)
				}
				dst.SetInt(n)
				return nil
			}
			return typeMismatch(path, t, tok)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(d *decodeState, tok Token, path FieldPath, dst reflect.Value) error {
			switch tok.Kind {
			case TokenNull:
				return nil
			case TokenNumber:
				n, err := strconv.ParseUint(tok.Number, 10, t.Bits())
				if err != nil {
					return numberError(path, t, tok, err)
				}
				dst.SetUint(n)
				return nil
			}
			return typeMismatch(path, t, tok)
		}
	case reflect.Float32, reflect.Float64:
		return func(d *decodeState, tok Token, path FieldPath, dst reflect.Value) error {
			switch tok.Kind {
			case TokenNull:
				return nil
			case TokenNumber:
				f, err := strconv.ParseFloat(tok.Number, t.Bits())
				if err != nil {
					return numberError(path, t, tok, err)
				}
				dst.SetFloat(f)
				return nil
			}
			return typeMismatch(path, t, tok)
		}
	case reflect.String:
		return func(d *decodeState, tok Token, path FieldPath, dst reflect.Value) error {
			switch tok.Kind {
			case TokenNull:
				return nil
			case TokenString:
				dst.SetString(tok.String)
				return nil
			}
			return typeMismatch(path, t, tok)
		}
	case reflect.Interface:
		if t.NumMethod() != 0 {
			break
		}
		return func(d *decodeState, tok Token, path FieldPath, dst reflect.Value) error {
			v, err := d.decodeAny(tok)
			if err != nil {
				return err
			}
			if v == nil {
				dst.SetZero()
				return nil
			}
			dst.Set(reflect.ValueOf(v))
			return nil
		}
	case reflect.Pointer:
		elem := s.codecFor(t.Elem())
		return func(d *decodeState, tok Token, path FieldPath, dst reflect.Value) error {
			if tok.Kind == TokenNull {
				dst.SetZero()
				return nil
			}
			if dst.IsNil() {
				dst.Set(reflect.New(t.Elem()))
			}
			return elem.dec(d, tok, path, dst.Elem())
		}
	case reflect.Struct:
		return s.structDecoder(t, plan)
	case reflect.Map:
		return s.mapDecoder(t)
	case reflect.Slice:
		return s.sliceDecoder(t)
	case reflect.Array:
		return s.arrayDecoder(t)
	}
	return func(_ *decodeState, _ Token, path FieldPath, _ reflect.Value) error {
		return &SerializationError{Path: path, Code: CodeUnsupported, Message: fmt.Sprintf("cannot decode into %s", t)}
	}
}

func numberError(path FieldPath, t reflect.Type, tok Token, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return &SerializationError{Path: path, Code: CodeOverflow, Value: tok.Number, Message: i18n.T(CodeOverflow, nil), Cause: err}
	}
	se := typeMismatch(path, t, tok).(*SerializationError)
	se.Cause = err
	return se
}

func (s *Serializer) structDecoder(t reflect.Type, plan func() *structPlan) decodeFn {
	return func(d *decodeState, tok Token, path FieldPath, dst reflect.Value) error {
		if tok.Kind == TokenNull {
			return nil
		}
		if tok.Kind != TokenBeginObject {
			return typeMismatch(path, t, tok)
		}
		sp := plan()
		for {
			kt, err := d.next()
			if err != nil {
				return err
			}
			if kt.Kind == TokenEndObject {
				return nil
			}
			if kt.Kind != TokenKey {
				return typeMismatch(path, t, kt)
			}
			vt, err := d.next()
			if err != nil {
				return err
			}
			f, ok := sp.lookup(kt.String)
			if !ok {
				if d.s.opt.Unknown == UnknownReject {
					return &SerializationError{Path: path.Field(kt.String), Code: CodeUnknownKey, Value: kt.String, Message: i18n.T(CodeUnknownKey, nil)}
				}
				if err := d.skip(vt); err != nil {
					return err
				}
				continue
			}
			fp := path.Field(f.name)
			d.pm.mark(fp, seenFlags(vt))
			if err := f.codec.dec(d, vt, fp, dst.FieldByIndex(f.index)); err != nil {
				return err
			}
		}
	}
}

func seenFlags(tok Token) Presence {
	if tok.Kind == TokenNull {
		return PresenceSeen | PresenceWasNull
	}
	return PresenceSeen
}

func (s *Serializer) mapDecoder(t reflect.Type) decodeFn {
	kt := t.Key()
	switch kt.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
	default:
		return func(_ *decodeState, _ Token, path FieldPath, _ reflect.Value) error {
			return &SerializationError{Path: path, Code: CodeUnsupported, Message: fmt.Sprintf("cannot decode into %s", t)}
		}
	}
	elem := s.codecFor(t.Elem())
	return func(d *decodeState, tok Token, path FieldPath, dst reflect.Value) error {
		if tok.Kind == TokenNull {
			dst.SetZero()
			return nil
		}
		if tok.Kind != TokenBeginObject {
			return typeMismatch(path, t, tok)
		}
		if dst.IsNil() {
			dst.Set(reflect.MakeMap(t))
		}
		for {
			ktok, err := d.next()
			if err != nil {
				return err
			}
			if ktok.Kind == TokenEndObject {
				return nil
			}
			if ktok.Kind != TokenKey {
				return typeMismatch(path, t, ktok)
			}
			fp := path.Field(ktok.String)
			key, err := mapKey(kt, ktok.String)
			if err != nil {
				return &SerializationError{Path: fp, Code: CodeInvalidType, Value: ktok.String, Message: i18n.T(CodeInvalidType, nil), Cause: err}
			}
			vt, err := d.next()
			if err != nil {
				return err
			}
			d.pm.mark(fp, seenFlags(vt))
			v := reflect.New(t.Elem()).Elem()
			if err := elem.dec(d, vt, fp, v); err != nil {
				return err
			}
			dst.SetMapIndex(key, v)
		}
	}
}

func mapKey(kt reflect.Type, s string) (reflect.Value, error) {
	k := reflect.New(kt).Elem()
	switch kt.Kind() {
	case reflect.String:
		k.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, kt.Bits())
		if err != nil {
			return k, err
		}
		k.SetInt(n)
	default:
		n, err := strconv.ParseUint(s, 10, kt.Bits())
		if err != nil {
			return k, err
		}
		k.SetUint(n)
	}
	return k, nil
}

func (s *Serializer) sliceDecoder(t reflect.Type) decodeFn {
	if t.Elem().Kind() == reflect.Uint8 {
		return func(d *decodeState, tok Token, path FieldPath, dst reflect.Value) error {
			switch tok.Kind {
			case TokenNull:
				dst.SetZero()
				return nil
			case TokenString:
				b, err := base64.StdEncoding.DecodeString(tok.String)
				if err != nil {
					return &SerializationError{Path: path, Code: CodeInvalidFormat, Value: tok.String, Message: "invalid base64 data", Cause: err}
				}
				dst.SetBytes(b)
				return nil
			}
			return typeMismatch(path, t, tok)
		}
	}
	elem := s.codecFor(t.Elem())
	return func(d *decodeState, tok Token, path FieldPath, dst reflect.Value) error {
		if tok.Kind == TokenNull {
			dst.SetZero()
			return nil
		}
		if tok.Kind != TokenBeginArray {
			return typeMismatch(path, t, tok)
		}
		out := reflect.MakeSlice(t, 0, 4)
		for i := 0; ; i++ {
			et, err := d.next()
			if err != nil {
				return err
			}
			if et.Kind == TokenEndArray {
				break
			}
			out = reflect.Append(out, reflect.Zero(t.Elem()))
			if err := elem.dec(d, et, path.Index(i), out.Index(i)); err != nil {
				return err
			}
		}
		dst.Set(out)
		return nil
	}
}

func (s *Serializer) arrayDecoder(t reflect.Type) decodeFn {
	elem := s.codecFor(t.Elem())
	return func(d *decodeState, tok Token, path FieldPath, dst reflect.Value) error {
		if tok.Kind == TokenNull {
			return nil
		}
		if tok.Kind != TokenBeginArray {
			return typeMismatch(path, t, tok)
		}
		i := 0
		for ; ; i++ {
			et, err := d.next()
			if err != nil {
				return err
			}
			if et.Kind == TokenEndArray {
				break
			}
			if i >= dst.Len() {
				if err := d.skip(et); err != nil {
					return err
				}
				continue
			}
			if err := elem.dec(d, et, path.Index(i), dst.Index(i)); err != nil {
				return err
			}
		}
		for ; i < dst.Len(); i++ {
			dst.Index(i).SetZero()
		}
		return nil
	}
}

// unmarshalerDecoder hands the raw value to the type's own UnmarshalJSON or
// UnmarshalText through go-json.
func unmarshalerDecoder(d *decodeState, tok Token, path FieldPath, dst reflect.Value) error {
	v, err := d.decodeAny(tok)
	if err != nil {
		return err
	}
	raw, err := gojson.Marshal(v)
	if err != nil {
		return err
	}
	if err := gojson.Unmarshal(raw, dst.Addr().Interface()); err != nil {
		return &SerializationError{Path: path, Code: CodeInvalidFormat, Value: tokenText(tok), Message: err.Error(), Cause: err}
	}
	return nil
}
