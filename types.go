package idjson

// UnknownPolicy controls how unknown keys are handled on decode.
type UnknownPolicy int

const (
	UnknownIgnore UnknownPolicy = iota // Skip unknown keys.
	UnknownReject                      // Reject unknown keys with an issue.
)

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Warn or Error (duplicate JSON keys).
}

// DecodeOpt bundles decoding options.
type DecodeOpt struct {
	Strictness Strictness
	Unknown    UnknownPolicy
	MaxDepth   int
	MaxBytes   int64
}

// enforced reports whether the token stream needs the enforcement wrapper.
func (o DecodeOpt) enforced() bool {
	return o.Strictness.OnDuplicateKey != Ignore || o.MaxDepth > 0 || o.MaxBytes > 0
}
