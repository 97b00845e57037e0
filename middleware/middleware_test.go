package middleware

import (
	"context"
	"errors"
	"testing"

	idjson "github.com/reoring/idjson"
)

func TestIssuesFrom(t *testing.T) {
	se := idjson.NewSerializationError("Child.ChildId", idjson.CodeInvalidFormat, "abc", nil)
	iss := IssuesFrom(se)
	if len(iss) != 1 || iss[0].Path != "Child.ChildId" || iss[0].Code != idjson.CodeInvalidFormat {
		t.Fatalf("unexpected issues: %+v", iss)
	}

	iss = IssuesFrom(errors.New("readObjectStart: expect {"))
	if len(iss) != 1 || iss[0].Code != idjson.CodeParseError {
		t.Fatalf("unstructured errors must become parse_error: %+v", iss)
	}
}

func TestDecodedContext(t *testing.T) {
	type payload struct{ OwnerId int64 }
	ctx := ContextWithDecoded(context.Background(), idjson.Decoded[payload]{Value: payload{OwnerId: 3}})
	got, ok := DecodedFromContext[payload](ctx)
	if !ok || got.Value.OwnerId != 3 {
		t.Fatalf("round trip through context failed: %+v %v", got, ok)
	}
	if _, ok := DecodedFromContext[struct{}](ctx); ok {
		t.Fatalf("keys must be distinct per type")
	}
}

func TestDefaultDecodeOpt(t *testing.T) {
	o := DefaultDecodeOpt()
	if o.Strictness.OnDuplicateKey != idjson.Error || o.MaxDepth == 0 {
		t.Fatalf("unexpected defaults: %+v", o)
	}
}
