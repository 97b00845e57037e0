package engine

import (
	"reflect"
	"testing"
)

func TestJoinField(t *testing.T) {
	cases := []struct{ base, name, want string }{
		{"", "ParentId", "ParentId"},
		{"Child", "ChildId", "Child.ChildId"},
		{"Lookup", "a.b", "Lookup['a.b']"},
		{"", "", "['']"},
		{"m", "it's", `m['it\'s']`},
	}
	for _, c := range cases {
		if got := JoinField(c.base, c.name); got != c.want {
			t.Fatalf("JoinField(%q,%q) = %q, want %q", c.base, c.name, got, c.want)
		}
	}
	if got := JoinIndex("Items", 3); got != "Items[3]" {
		t.Fatalf("JoinIndex: %q", got)
	}
}

func TestSegmentsAndTerminal(t *testing.T) {
	p := JoinField(JoinIndex(JoinField("Lookup", "a.b"), 2), "OwnerId")
	want := []string{"Lookup", "a.b", "[2]", "OwnerId"}
	if got := Segments(p); !reflect.DeepEqual(got, want) {
		t.Fatalf("Segments(%q) = %q, want %q", p, got, want)
	}
	if got := Terminal(p); got != "OwnerId" {
		t.Fatalf("Terminal: %q", got)
	}
	if got := Terminal("Items[2]"); got != "[2]" {
		t.Fatalf("Terminal index: %q", got)
	}
	if got := Terminal(`m['it\'s.id']`); got != "it's.id" {
		t.Fatalf("Terminal quoted: %q", got)
	}
	if got := Terminal(""); got != "" {
		t.Fatalf("Terminal root: %q", got)
	}
}
