package json

import (
	"errors"
	"io"
	"testing"

	eng "github.com/reoring/idjson/internal/engine"
)

func TestTokenKinds(t *testing.T) {
	src := NewBytes([]byte(`{"a":["x",9007199254740993,true,null],"b":{"c":"d"}}`))
	want := []eng.Kind{
		eng.KindBeginObject,
		eng.KindKey, eng.KindBeginArray, eng.KindString, eng.KindNumber, eng.KindBool, eng.KindNull, eng.KindEndArray,
		eng.KindKey, eng.KindBeginObject, eng.KindKey, eng.KindString, eng.KindEndObject,
		eng.KindEndObject,
	}
	for i, k := range want {
		tok, err := src.NextToken()
		if err != nil {
			t.Fatalf("token %d: %v", i, err)
		}
		if tok.Kind != k {
			t.Fatalf("token %d: kind %d, want %d", i, tok.Kind, k)
		}
		if tok.Kind == eng.KindNumber && tok.Number != "9007199254740993" {
			t.Fatalf("number lost precision: %s", tok.Number)
		}
	}
	if _, err := src.NextToken(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestOffsets(t *testing.T) {
	src := NewBytes([]byte(`{"ab":1}`))
	if src.Location() != -1 {
		t.Fatalf("location before first token: %d", src.Location())
	}
	_, _ = src.NextToken()
	key, _ := src.NextToken()
	if key.Offset != 5 || src.Location() != 5 {
		t.Fatalf("key offset %d, location %d", key.Offset, src.Location())
	}
}
