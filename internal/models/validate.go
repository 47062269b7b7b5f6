package models

import "strings"

// IsValid reports whether v qualifies as a well-formed garment record:
// non-nil, with name, category and color each a string holding at least
// one non-whitespace character.
//
// It accepts Garment, *Garment and loosely-typed map[string]any payloads
// keyed by the wire names (nome, categoria, cor). Anything else is invalid.
func IsValid(v any) bool {
	switch x := v.(type) {
	case Garment:
		return filled(x.Name) && filled(x.Category) && filled(x.Color)
	case *Garment:
		return x != nil && IsValid(*x)
	case map[string]any:
		if x == nil {
			return false
		}
		return filledAny(x["nome"]) && filledAny(x["categoria"]) && filledAny(x["cor"])
	default:
		return false
	}
}

func filled(s string) bool {
	return strings.TrimSpace(s) != ""
}

func filledAny(v any) bool {
	s, ok := v.(string)
	return ok && filled(s)
}
