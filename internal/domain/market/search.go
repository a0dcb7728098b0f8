package market

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransform strips combining marks (accents) after Unicode NFD
// decomposition, ports the original's unidecode-based normalize_caseless.
var foldTransform = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeCaseless lower-cases and accent-strips s for case-insensitive,
// accent-insensitive substring matching.
func normalizeCaseless(s string) string {
	folded, _, err := transform.String(foldTransform, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// matchesSearch reports whether needle appears, case/accent-insensitively,
// in any string or list-of-strings value carried by the entry: namespace,
// name, description, and every value in Fields.
func matchesSearch(e Entry, needle string) bool {
	if needle == "" {
		return true
	}
	target := normalizeCaseless(needle)

	candidates := []string{e.Namespace, e.Name, e.Description}
	for _, row := range e.Versions {
		candidates = append(candidates, row.Version, row.Method)
	}
	for _, v := range e.Fields {
		candidates = append(candidates, stringValues(v)...)
	}

	for _, c := range candidates {
		if strings.Contains(normalizeCaseless(c), target) {
			return true
		}
	}
	return false
}

func stringValues(v interface{}) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []string:
		return t
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
