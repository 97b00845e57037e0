package idjson

import "sort"

// Presence is the bit flag collected by the WithMeta decode APIs.
type Presence uint8

const (
	PresenceSeen      Presence = 1 << iota // Field appeared in the input.
	PresenceWasNull                        // Field value was null.
	PresenceMalformed                      // Field value was present but unusable and was decoded as "no value".
)

// PresenceMap maps field paths to Presence flags.
type PresenceMap map[FieldPath]Presence

// Decoded carries the decoded value along with presence metadata.
type Decoded[T any] struct {
	Value    T
	Presence PresenceMap
}

// Seen reports whether path appeared in the input.
func (pm PresenceMap) Seen(path FieldPath) bool { return pm[path]&PresenceSeen != 0 }

// WasNull reports whether path was an explicit null in the input.
func (pm PresenceMap) WasNull(path FieldPath) bool { return pm[path]&PresenceWasNull != 0 }

// Malformed reports whether path carried a value that was normalized to
// "no value" instead of failing the decode.
func (pm PresenceMap) Malformed(path FieldPath) bool { return pm[path]&PresenceMalformed != 0 }

// MalformedPaths lists every path flagged PresenceMalformed, sorted.
func (pm PresenceMap) MalformedPaths() []FieldPath {
	var out []FieldPath
	for p, v := range pm {
		if v&PresenceMalformed != 0 {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (pm PresenceMap) mark(path FieldPath, p Presence) {
	if pm == nil {
		return
	}
	pm[path] |= p
}
