package models

import (
	"encoding/json"
	"strconv"
)

// Field names a garment attribute in extraction rules.
type Field string

// Garment fields, named by their wire keys.
const (
	FieldID       Field = "item_id"
	FieldName     Field = "nome"
	FieldCategory Field = "categoria"
	FieldColor    Field = "cor"
	FieldPattern  Field = "padrao"
	FieldMaterial Field = "material"
	FieldStyle    Field = "estilo"
	FieldOccasion Field = "ocasion"
	FieldClimate  Field = "clima"
)

// Rule extracts one raw value from a recommendation payload.
// ok is false when the location is missing or null.
type Rule func(raw map[string]any) (value any, ok bool)

// Flat reads raw[key].
func Flat(key string) Rule {
	return func(raw map[string]any) (any, bool) {
		v, ok := raw[key]
		return v, ok && v != nil
	}
}

// Nested reads raw[parent][key] when raw[parent] is an object.
func Nested(parent, key string) Rule {
	return func(raw map[string]any) (any, bool) {
		obj, ok := raw[parent].(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := obj[key]
		return v, ok && v != nil
	}
}

// attributeRules covers descriptive fields: flat, then attrs.<f>, then item.<f>.
func attributeRules(f Field) []Rule {
	key := string(f)
	return []Rule{Flat(key), Nested("attrs", key), Nested("item", key)}
}

// FieldRules lists, per field, the payload locations tried in priority order.
// The first location present wins even if its value turns out unusable,
// so a blank "nome" is not replaced by "name".
var FieldRules = map[Field][]Rule{
	FieldID:       {Flat("item_id"), Flat("id")},
	FieldName:     {Flat("nome"), Flat("name")},
	FieldCategory: {Flat("categoria"), Flat("category")},
	FieldColor:    {Flat("cor"), Flat("color"), Nested("attrs", "cor"), Nested("item", "cor")},
	FieldPattern:  attributeRules(FieldPattern),
	FieldMaterial: attributeRules(FieldMaterial),
	FieldStyle:    attributeRules(FieldStyle),
	FieldOccasion: attributeRules(FieldOccasion),
	FieldClimate:  attributeRules(FieldClimate),
}

// Extract applies the rules of f in order and returns the first hit.
func Extract(raw map[string]any, f Field) (any, bool) {
	if raw == nil {
		return nil, false
	}
	for _, rule := range FieldRules[f] {
		if v, ok := rule(raw); ok {
			return v, true
		}
	}
	return nil, false
}

// ExtractString returns the field as a string. Non-string values yield "".
func ExtractString(raw map[string]any, f Field) string {
	v, _ := Extract(raw, f)
	s, _ := v.(string)
	return s
}

// ExtractID returns the identifier. Numeric identifiers are formatted
// as decimal strings.
func ExtractID(raw map[string]any) string {
	v, ok := Extract(raw, FieldID)
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}

// Candidate builds a garment directly from a loosely-shaped payload.
// The result may be invalid; check it with IsValid.
func Candidate(raw map[string]any) Garment {
	return Garment{
		ItemID:   ExtractID(raw),
		Name:     ExtractString(raw, FieldName),
		Category: ExtractString(raw, FieldCategory),
		Color:    ExtractString(raw, FieldColor),
		Pattern:  Optional(ExtractString(raw, FieldPattern)),
		Material: Optional(ExtractString(raw, FieldMaterial)),
		Style:    Optional(ExtractString(raw, FieldStyle)),
		Occasion: Optional(ExtractString(raw, FieldOccasion)),
		Climate:  Optional(ExtractString(raw, FieldClimate)),
	}
}
