package idjson

import (
	"strconv"

	gojson "github.com/goccy/go-json"
)

// Writer accumulates compact JSON output. Separators are inserted
// automatically; callers only describe structure and values.
type Writer struct {
	buf      []byte
	stack    []bool // per open container: true until the first member is written
	afterKey bool
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{buf: make([]byte, 0, 256)} }

// Bytes returns the output written so far.
func (w *Writer) Bytes() []byte { return w.buf }

// Reset clears the output while keeping the buffer.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.stack = w.stack[:0]
	w.afterKey = false
}

func (w *Writer) beforeValue() {
	if w.afterKey {
		w.afterKey = false
		return
	}
	w.separator()
}

func (w *Writer) separator() {
	if n := len(w.stack); n > 0 {
		if w.stack[n-1] {
			w.stack[n-1] = false
		} else {
			w.buf = append(w.buf, ',')
		}
	}
}

// BeginObject opens an object.
func (w *Writer) BeginObject() {
	w.beforeValue()
	w.buf = append(w.buf, '{')
	w.stack = append(w.stack, true)
}

// EndObject closes the innermost object.
func (w *Writer) EndObject() {
	w.stack = w.stack[:len(w.stack)-1]
	w.buf = append(w.buf, '}')
}

// BeginArray opens an array.
func (w *Writer) BeginArray() {
	w.beforeValue()
	w.buf = append(w.buf, '[')
	w.stack = append(w.stack, true)
}

// EndArray closes the innermost array.
func (w *Writer) EndArray() {
	w.stack = w.stack[:len(w.stack)-1]
	w.buf = append(w.buf, ']')
}

// Key writes an object member name; the next value belongs to it.
func (w *Writer) Key(name string) {
	w.separator()
	w.buf = appendQuoted(w.buf, name)
	w.buf = append(w.buf, ':')
	w.afterKey = true
}

// WriteString writes s as a JSON string.
func (w *Writer) WriteString(s string) {
	w.beforeValue()
	w.buf = appendQuoted(w.buf, s)
}

// WriteInt64 writes v as a JSON number.
func (w *Writer) WriteInt64(v int64) {
	w.beforeValue()
	w.buf = strconv.AppendInt(w.buf, v, 10)
}

// WriteUint64 writes v as a JSON number.
func (w *Writer) WriteUint64(v uint64) {
	w.beforeValue()
	w.buf = strconv.AppendUint(w.buf, v, 10)
}

// WriteBool writes true or false.
func (w *Writer) WriteBool(v bool) {
	w.beforeValue()
	w.buf = strconv.AppendBool(w.buf, v)
}

// WriteNull writes null.
func (w *Writer) WriteNull() {
	w.beforeValue()
	w.buf = append(w.buf, "null"...)
}

// WriteRaw writes an already-encoded JSON value.
func (w *Writer) WriteRaw(raw []byte) {
	w.beforeValue()
	w.buf = append(w.buf, raw...)
}

func appendQuoted(dst []byte, s string) []byte {
	// Marshalling a string cannot fail.
	b, _ := gojson.Marshal(s)
	return append(dst, b...)
}
