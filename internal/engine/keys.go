package engine

// KeyTracker tells object keys apart from string values for decoders that
// report both as plain strings.
type KeyTracker struct {
	stack []keyFrame
}

type keyFrame struct {
	object       bool
	expectingKey bool
}

// Delim records a structural delimiter and returns its token kind.
func (k *KeyTracker) Delim(d byte) Kind {
	switch d {
	case '{':
		k.stack = append(k.stack, keyFrame{object: true, expectingKey: true})
		return KindBeginObject
	case '[':
		k.stack = append(k.stack, keyFrame{})
		return KindBeginArray
	case '}':
		k.pop()
		return KindEndObject
	default:
		k.pop()
		return KindEndArray
	}
}

// IsKey consumes a string token and reports whether it is an object key.
func (k *KeyTracker) IsKey() bool {
	if n := len(k.stack); n > 0 {
		top := &k.stack[n-1]
		if top.object && top.expectingKey {
			top.expectingKey = false
			return true
		}
	}
	k.Scalar()
	return false
}

// Scalar records that a value completed in the current container.
func (k *KeyTracker) Scalar() {
	if n := len(k.stack); n > 0 {
		top := &k.stack[n-1]
		if top.object && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

func (k *KeyTracker) pop() {
	if n := len(k.stack); n > 0 {
		k.stack = k.stack[:n-1]
	}
	k.Scalar()
}
