package engine

import (
	"strconv"
	"strings"
)

// Paths use the dotted form Parent.Child.Name with [n] for array elements.
// Keys that contain '.', '[', ']' or '\'' (or are empty) are written as
// ['key'] with '\'' and '\\' escaped by a backslash.

// JoinField appends an object key to base.
func JoinField(base, name string) string {
	if needsQuoting(name) {
		return base + "['" + quoteEscaper.Replace(name) + "']"
	}
	if base == "" {
		return name
	}
	return base + "." + name
}

// JoinIndex appends an array index to base.
func JoinIndex(base string, i int) string {
	return base + "[" + strconv.Itoa(i) + "]"
}

// Segments splits a path into its segments. Key segments are returned
// unquoted; index segments keep their brackets ("[3]").
func Segments(path string) []string {
	var segs []string
	i := 0
	for i < len(path) {
		switch path[i] {
		case '.':
			i++
		case '[':
			if i+1 < len(path) && path[i+1] == '\'' {
				name, next := readQuoted(path, i+2)
				segs = append(segs, name)
				i = next
				continue
			}
			j := strings.IndexByte(path[i:], ']')
			if j < 0 {
				segs = append(segs, path[i:])
				return segs
			}
			segs = append(segs, path[i:i+j+1])
			i += j + 1
		default:
			j := i
			for j < len(path) && path[j] != '.' && path[j] != '[' {
				j++
			}
			segs = append(segs, path[i:j])
			i = j
		}
	}
	return segs
}

// Terminal returns the last segment of path, or "" for the root path.
func Terminal(path string) string {
	if path == "" {
		return ""
	}
	// fast path: plain trailing key
	if last := path[len(path)-1]; last != ']' {
		if i := strings.LastIndexAny(path, ".]"); i >= 0 {
			return path[i+1:]
		}
		return path
	}
	segs := Segments(path)
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// readQuoted reads a quoted key starting after "['" and returns the key and
// the index just past the closing "']".
func readQuoted(path string, start int) (string, int) {
	var b strings.Builder
	j := start
	for j < len(path) {
		c := path[j]
		if c == '\\' && j+1 < len(path) {
			b.WriteByte(path[j+1])
			j += 2
			continue
		}
		if c == '\'' {
			break
		}
		b.WriteByte(c)
		j++
	}
	// skip the closing quote and bracket
	j += 2
	if j > len(path) {
		j = len(path)
	}
	return b.String(), j
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func needsQuoting(name string) bool {
	if name == "" {
		return true
	}
	return strings.ContainsAny(name, ".[]'")
}
