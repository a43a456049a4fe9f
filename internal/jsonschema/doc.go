// Package jsonschema derives JSON Schema documents from Go types.
//
// [GenerateJSONSchema] walks a type with reflection. Field names follow the
// json tag, required-ness follows omitempty and pointer-ness (or an explicit
// `jsonschema:"required"`), and the jsonschema tag adds description, enum,
// minimum, maximum and format. Self-referencing types are emitted once under
// $defs and referenced with $ref.
package jsonschema
