// Package parse turns loosely formatted tool arguments into typed values.
//
// Agents and MCP clients do not always send clean JSON. [ParseStringAs]
// tries a strict decode, then strips code fences and repairs the text with
// kaptinlin/jsonrepair, then unwraps schema-shaped envelopes such as
// {"type":"string","value":"go"} before giving up.
package parse
