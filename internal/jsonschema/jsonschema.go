package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Schema is the subset of JSON Schema the tools need.
type Schema struct {
	Type                 string             `json:"type,omitempty"`
	Description          string             `json:"description,omitempty"`
	Format               string             `json:"format,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`
	Enum                 []any              `json:"enum,omitempty"`
	Minimum              *float64           `json:"minimum,omitempty"`
	Maximum              *float64           `json:"maximum,omitempty"`
	Ref                  string             `json:"$ref,omitempty"`
	Defs                 map[string]*Schema `json:"$defs,omitempty"`
}

var (
	timeType       = reflect.TypeFor[time.Time]()
	rawMessageType = reflect.TypeFor[json.RawMessage]()
)

// GenerateJSONSchema returns the schema of T. Pointer types describe their
// element type.
func GenerateJSONSchema[T any]() *Schema {
	g := &generator{
		defs:     make(map[string]*Schema),
		building: make(map[reflect.Type]bool),
		named:    make(map[reflect.Type]string),
	}
	root := g.schemaFor(reflect.TypeFor[T]())
	if len(g.defs) > 0 {
		root.Defs = g.defs
	}
	return root
}

type generator struct {
	defs     map[string]*Schema
	building map[reflect.Type]bool
	named    map[reflect.Type]string
}

func (g *generator) schemaFor(t reflect.Type) *Schema {
	switch t {
	case timeType:
		return &Schema{Type: "string", Format: "date-time"}
	case rawMessageType:
		return &Schema{}
	}

	switch t.Kind() {
	case reflect.Pointer:
		return g.schemaFor(t.Elem())
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return &Schema{Type: "string", Format: "byte"}
		}
		return &Schema{Type: "array", Items: g.schemaFor(t.Elem())}
	case reflect.Map:
		return &Schema{Type: "object", AdditionalProperties: g.schemaFor(t.Elem())}
	case reflect.Struct:
		return g.structSchema(t)
	case reflect.Interface:
		return &Schema{}
	default:
		return &Schema{Type: "object"}
	}
}

func (g *generator) structSchema(t reflect.Type) *Schema {
	if g.building[t] {
		name := g.defName(t)
		return &Schema{Ref: "#/$defs/" + name}
	}
	g.building[t] = true
	defer delete(g.building, t)

	s := &Schema{Type: "object", Properties: make(map[string]*Schema)}
	g.addFields(s, t)
	if len(s.Properties) == 0 {
		s.Properties = nil
	}

	if name, ok := g.named[t]; ok {
		def := *s
		g.defs[name] = &def
	}
	return s
}

func (g *generator) addFields(s *Schema, t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(jsonTag, ",")

		if field.Anonymous && name == "" {
			ft := field.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				g.addFields(s, ft)
				continue
			}
		}
		if !field.IsExported() {
			continue
		}
		if name == "" {
			name = field.Name
		}

		fs := g.schemaFor(field.Type)
		if strings.Contains(opts, "string") && fs.Type == "integer" {
			fs = &Schema{Type: "string"}
		}

		requiredByTag := false
		if fs.Ref == "" {
			requiredByTag = applyTag(field, fs)
		}
		omitempty := strings.Contains(opts, "omitempty") || strings.Contains(opts, "omitzero")
		if requiredByTag || (field.Type.Kind() != reflect.Pointer && !omitempty) {
			s.Required = append(s.Required, name)
		}
		s.Properties[name] = fs
	}
}

func (g *generator) defName(t reflect.Type) string {
	if name, ok := g.named[t]; ok {
		return name
	}
	name := strings.ToLower(t.Name())
	if name == "" {
		name = fmt.Sprintf("anonymous%d", len(g.named))
	}
	g.named[t] = name
	return name
}

// applyTag reads `jsonschema:"description=...,enum=a,enum=b,minimum=1,required"`
// into s and reports whether the field is explicitly required. Values cannot
// contain commas.
func applyTag(field reflect.StructField, s *Schema) bool {
	tag := field.Tag.Get("jsonschema")
	if tag == "" {
		return false
	}

	required := false
	kind := field.Type.Kind()
	if kind == reflect.Pointer {
		kind = field.Type.Elem().Kind()
	}

	for _, item := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(item, "=")
		if !hasValue {
			if key == "required" {
				required = true
			}
			continue
		}
		switch key {
		case "description":
			s.Description = value
		case "format":
			s.Format = value
		case "minimum":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				s.Minimum = &f
			}
		case "maximum":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				s.Maximum = &f
			}
		case "enum":
			if v, ok := enumValue(kind, value); ok {
				s.Enum = append(s.Enum, v)
			}
		}
	}
	return required
}

func enumValue(kind reflect.Kind, value string) (any, bool) {
	switch kind {
	case reflect.String:
		return value, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseInt(value, 10, 64)
		return v, err == nil
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(value, 64)
		return v, err == nil
	case reflect.Bool:
		v, err := strconv.ParseBool(value)
		return v, err == nil
	default:
		return nil, false
	}
}

// JSON marshals the schema compactly.
func (s *Schema) JSON() (json.RawMessage, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return b, nil
}

// String returns the indented JSON form.
func (s *Schema) String() string {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}
