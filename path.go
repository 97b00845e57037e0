package idjson

import eng "github.com/reoring/idjson/internal/engine"

// FieldPath is the location of a value inside the object graph being encoded
// or decoded: Parent.Child.ChildId, Items[2], Lookup['a.b']. The root value has
// the empty path.
type FieldPath string

// Field returns the path of the named member of p.
func (p FieldPath) Field(name string) FieldPath { return FieldPath(eng.JoinField(string(p), name)) }

// Index returns the path of the i-th element of p.
func (p FieldPath) Index(i int) FieldPath { return FieldPath(eng.JoinIndex(string(p), i)) }

// Terminal returns the last segment: a member name, or an index such as "[2]".
func (p FieldPath) Terminal() string { return eng.Terminal(string(p)) }

// Segments splits the path into its member names and index segments.
func (p FieldPath) Segments() []string { return eng.Segments(string(p)) }

func (p FieldPath) String() string { return string(p) }
