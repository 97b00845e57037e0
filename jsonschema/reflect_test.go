package jsonschema

import (
	"encoding/json"
	"testing"

	"github.com/reoring/idjson/internal/model"
)

func TestReflect_ParentModel(t *testing.T) {
	s := For[model.ParentModel]()
	if s.Type != "object" || s.Title != "ParentModel" || s.SchemaURI != Draft {
		t.Fatalf("unexpected root: %+v", s)
	}
	pid := s.Properties["ParentId"]
	if pid == nil || pid.Type != "string" || pid.Format != "int64" || !pid.Nullable {
		t.Fatalf("ParentId: %+v", pid)
	}
	child := s.Properties["Child"]
	if child == nil || child.Type != "object" {
		t.Fatalf("Child: %+v", child)
	}
	if cid := child.Properties["ChildId"]; cid.Type != "string" || cid.Nullable {
		t.Fatalf("ChildId: %+v", cid)
	}
	if d := child.Properties["Description"]; d.Type != "string" {
		t.Fatalf("Description: %+v", d)
	}
	if len(s.Required) != 2 || s.Required[0] != "Name" || s.Required[1] != "Child" {
		t.Fatalf("required: %v", s.Required)
	}
}

func TestReflect_NonIdentifierInt64(t *testing.T) {
	type counters struct {
		Total   int64  `json:"total"`
		OwnerID int64  `json:"owner_id"`
		Notes   []byte `json:"notes,omitempty"`
	}
	s := For[counters]()
	if p := s.Properties["total"]; p.Type != "integer" {
		t.Fatalf("total: %+v", p)
	}
	if p := s.Properties["owner_id"]; p.Type != "string" || p.Pattern == "" {
		t.Fatalf("owner_id: %+v", p)
	}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Schema
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back.Required) != 2 {
		t.Fatalf("omitempty members must not be required: %v", back.Required)
	}
}

func TestReflect_Recursive(t *testing.T) {
	type node struct {
		NodeId int64
		Next   *node
	}
	s := For[node]()
	next := s.Properties["Next"]
	if next == nil || next.Type != "object" || !next.Nullable || next.Properties != nil {
		t.Fatalf("recursive member: %+v", next)
	}
}

func TestReflect_MapValuesByKey(t *testing.T) {
	type index struct {
		Counts map[string]int64  `json:"counts"`
		Refs   map[string]*int64 `json:"refs"`
		Labels map[string]string `json:"labels"`
	}
	s := For[index]()

	counts := s.Properties["counts"]
	if ap, ok := counts.AdditionalProperties.(*Schema); !ok || ap.Type != "integer" {
		t.Fatalf("counts values: %+v", counts.AdditionalProperties)
	}
	if p := counts.PatternProperties[IdentifierKey]; p == nil || p.Type != "string" || p.Format != "int64" {
		t.Fatalf("counts id values: %+v", p)
	}
	if p := s.Properties["refs"].PatternProperties[IdentifierKey]; p == nil || p.Type != "string" || !p.Nullable {
		t.Fatalf("refs id values: %+v", p)
	}
	if s.Properties["labels"].PatternProperties != nil {
		t.Fatalf("string maps need no key patterns")
	}
}
