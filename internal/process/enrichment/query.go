package enrichment

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// queryFolder strips diacritics so accented names ("jalapeño") match the
// ASCII-keyed reference API.
var queryFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// stopTokens are descriptors that carry no search signal on their own.
var stopTokens = map[string]bool{
	"raw": true, "fresh": true, "organic": true, "cooked": true,
	"the": true, "and": true, "with": true, "of": true, "a": true,
}

// normalizeQuery cleans a free-text food name for the reference API:
// quotes stripped, slashes and runs of whitespace collapsed, diacritics
// folded.
func normalizeQuery(s string) string {
	folded, _, err := transform.String(queryFolder, s)
	if err == nil {
		s = folded
	}

	s = strings.NewReplacer(`"`, "", "'", "", "“", "", "”", "").Replace(s)
	s = strings.ReplaceAll(s, "/", " ")
	s = strings.ReplaceAll(s, "\\", " ")

	return strings.Join(strings.Fields(s), " ")
}

// searchQueries returns the lookup attempts in order: the full branded
// name, the bare name without brand or parenthetical qualifiers, and the
// first significant token as a last resort.
func searchQueries(name, brand string) []string {
	name = normalizeQuery(name)
	brand = normalizeQuery(brand)

	var queries []string

	add := func(q string) {
		q = strings.TrimSpace(q)
		if q == "" {
			return
		}

		for _, existing := range queries {
			if strings.EqualFold(existing, q) {
				return
			}
		}

		queries = append(queries, q)
	}

	if brand != "" {
		add(brand + " " + name)
	}

	add(stripQualifiers(name))
	add(firstSignificantToken(name))

	return queries
}

// stripQualifiers removes parenthetical notes and anything after the first
// comma ("Broccoli, raw (frozen)" -> "Broccoli").
func stripQualifiers(name string) string {
	if i := strings.Index(name, "("); i >= 0 {
		name = name[:i]
	}

	if i := strings.Index(name, ","); i >= 0 {
		name = name[:i]
	}

	return strings.TrimSpace(name)
}

// firstSignificantToken returns the first token longer than two runes that
// is not a pure descriptor.
func firstSignificantToken(name string) string {
	for _, tok := range strings.Fields(name) {
		clean := strings.Trim(strings.ToLower(tok), ",.()")
		if len([]rune(clean)) <= 2 || stopTokens[clean] {
			continue
		}

		return strings.Trim(tok, ",.()")
	}

	return ""
}
