package codec

import idjson "github.com/reoring/idjson"

// IsIdentifierField reports whether the value at path is an identifier: its
// terminal segment ends with "id" in any letter case. The suffix rule is
// literal, so names like "Android" or "Paid" match too. Index segments such as
// "[3]" never match.
func IsIdentifierField(path string) bool {
	return hasIDSuffix(idjson.FieldPath(path).Terminal())
}

func hasIDSuffix(name string) bool {
	n := len(name)
	if n < 2 {
		return false
	}
	// ASCII fold; 'I'|0x20 == 'i' and 'D'|0x20 == 'd'.
	return name[n-2]|0x20 == 'i' && name[n-1]|0x20 == 'd'
}
