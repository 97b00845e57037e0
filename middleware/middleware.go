// Package middleware holds the HTTP-framework-neutral pieces shared by the
// echo and gin adapters.
package middleware

import (
	"context"

	idjson "github.com/reoring/idjson"
)

// Codec is what the adapters need from a JSON pipeline. *idjson.Serializer
// and json-iterator APIs both satisfy it.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// ctxKeyDecoded is a typed context key for storing Decoded[T].
// Using a generic struct type ensures uniqueness per T.
type ctxKeyDecoded[T any] struct{}

// ContextWithDecoded attaches a Decoded[T] to the context.
func ContextWithDecoded[T any](ctx context.Context, db idjson.Decoded[T]) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded[T]{}, db)
}

// DecodedFromContext retrieves a Decoded[T] from context.
func DecodedFromContext[T any](ctx context.Context) (idjson.Decoded[T], bool) {
	v, ok := ctx.Value(ctxKeyDecoded[T]{}).(idjson.Decoded[T])
	return v, ok
}

// DefaultDecodeOpt returns a recommended default for HTTP JSON boundaries.
// - Duplicate keys are errors
// - Nesting is capped at 64 levels
func DefaultDecodeOpt() idjson.DecodeOpt {
	return idjson.DecodeOpt{
		Strictness: idjson.Strictness{OnDuplicateKey: idjson.Error},
		MaxDepth:   64,
	}
}

// IssuesFrom projects any decode error into Issues. Errors that carry no
// structured form become a single parse_error issue.
func IssuesFrom(err error) idjson.Issues {
	if iss, ok := idjson.AsIssues(err); ok {
		return iss
	}
	return idjson.Issues{{Code: idjson.CodeParseError, Message: err.Error(), Cause: err}}
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues []idjson.Issue) map[string]any {
	return map[string]any{"issues": issues}
}
