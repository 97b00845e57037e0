// Package openapi builds the OpenAPI 3 description of the idserver routes.
package openapi

import (
	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	js "github.com/reoring/idjson/jsonschema"
	"github.com/reoring/idjson/internal/model"
)

// Document is the subset of an OpenAPI 3.0 document that idserver serves.
type Document struct {
	OpenAPI    string              `json:"openapi" yaml:"openapi"`
	Info       Info                `json:"info" yaml:"info"`
	Paths      map[string]PathItem `json:"paths" yaml:"paths"`
	Components Components          `json:"components" yaml:"components"`
}

type Info struct {
	Title   string `json:"title" yaml:"title"`
	Version string `json:"version" yaml:"version"`
}

type PathItem struct {
	Get  *Operation `json:"get,omitempty" yaml:"get,omitempty"`
	Post *Operation `json:"post,omitempty" yaml:"post,omitempty"`
}

type Operation struct {
	Summary     string              `json:"summary,omitempty" yaml:"summary,omitempty"`
	OperationID string              `json:"operationId" yaml:"operationId"`
	RequestBody *RequestBody        `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]Response `json:"responses" yaml:"responses"`
}

type RequestBody struct {
	Required bool                 `json:"required" yaml:"required"`
	Content  map[string]MediaType `json:"content" yaml:"content"`
}

type Response struct {
	Description string               `json:"description" yaml:"description"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

type MediaType struct {
	Schema *Ref `json:"schema" yaml:"schema"`
}

// Ref is either a $ref to a component or an inline type.
type Ref struct {
	Ref  string `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

type Components struct {
	Schemas map[string]*js.Schema `json:"schemas" yaml:"schemas"`
}

const jsonMedia = "application/json"

// Build returns the document for the given API version.
func Build(version string) *Document {
	parent := js.For[model.ParentModel]()
	parent.SchemaURI = ""
	issues := &js.Schema{
		Type: "object",
		Properties: map[string]*js.Schema{
			"issues": {Type: "array", Items: &js.Schema{
				Type: "object",
				Properties: map[string]*js.Schema{
					"path":    {Type: "string"},
					"code":    {Type: "string"},
					"message": {Type: "string"},
					"value":   {Type: "string"},
				},
			}},
		},
	}

	parentBody := map[string]MediaType{jsonMedia: {Schema: &Ref{Ref: "#/components/schemas/ParentModel"}}}
	return &Document{
		OpenAPI: "3.0.3",
		Info:    Info{Title: "idjson sample API", Version: version},
		Paths: map[string]PathItem{
			"/api/post": {
				Get: &Operation{
					Summary:     "Return the sample parent/child graph",
					OperationID: "getPost",
					Responses:   map[string]Response{"200": {Description: "OK", Content: parentBody}},
				},
				Post: &Operation{
					Summary:     "Decode a ParentModel and echo it back",
					OperationID: "postPost",
					RequestBody: &RequestBody{Required: true, Content: parentBody},
					Responses: map[string]Response{
						"200": {Description: "OK", Content: parentBody},
						"400": {Description: "Malformed payload", Content: map[string]MediaType{jsonMedia: {Schema: &Ref{Ref: "#/components/schemas/Issues"}}}},
					},
				},
			},
			"/schema": {Get: &Operation{
				Summary:     "JSON Schema of ParentModel",
				OperationID: "getSchema",
				Responses:   map[string]Response{"200": {Description: "OK", Content: map[string]MediaType{jsonMedia: {Schema: &Ref{Type: "object"}}}}},
			}},
			"/healthz": {Get: &Operation{
				OperationID: "healthz",
				Responses:   map[string]Response{"200": {Description: "OK"}},
			}},
		},
		Components: Components{Schemas: map[string]*js.Schema{
			"ParentModel": parent,
			"Issues":      issues,
		}},
	}
}

// JSON renders d as indented JSON.
func (d *Document) JSON() ([]byte, error) { return gojson.MarshalIndent(d, "", "  ") }

// YAML renders d as YAML.
func (d *Document) YAML() ([]byte, error) { return yaml.Marshal(d) }
