// Package classify infers an entity's category from its declared type
// string or, failing that, from name-pattern heuristics. Classification
// is a pure function with no I/O; unresolvable inputs come back as
// TypeUnknown and the fallback policy belongs to the caller.
package classify

import (
	"regexp"
	"sort"
	"strings"

	"github.com/nomina-io/nomina/pkg/entities"
)

// synonyms maps declared type strings to entity types. Matched exactly
// first, then by substring in either direction.
var synonyms = map[string]entities.Type{
	"person":       entities.TypePerson,
	"people":       entities.TypePerson,
	"human":        entities.TypePerson,
	"individual":   entities.TypePerson,
	"name":         entities.TypePerson,
	"author":       entities.TypeAuthor,
	"writer":       entities.TypeAuthor,
	"creator":      entities.TypeAuthor,
	"artist":       entities.TypeAuthor,
	"place":        entities.TypePlace,
	"location":     entities.TypePlace,
	"geographic":   entities.TypePlace,
	"city":         entities.TypePlace,
	"country":      entities.TypePlace,
	"region":       entities.TypePlace,
	"organization": entities.TypeOrganization,
	"organisation": entities.TypeOrganization,
	"org":          entities.TypeOrganization,
	"institution":  entities.TypeOrganization,
	"company":      entities.TypeOrganization,
	"corporate":    entities.TypeOrganization,
	"agency":       entities.TypeOrganization,
	"subject":      entities.TypeSubject,
	"topic":        entities.TypeSubject,
	"theme":        entities.TypeSubject,
	"concept":      entities.TypeSubject,
	"keyword":      entities.TypeSubject,
	"artwork":      entities.TypeArtwork,
	"art object":   entities.TypeArtwork,
	"painting":     entities.TypeArtwork,
	"sculpture":    entities.TypeArtwork,
}

// orderedSynonyms holds synonym keys longest-first so the most specific
// substring match wins. "geographic name" resolves on "geographic", not
// on "name".
var orderedSynonyms = func() []string {
	keys := make([]string, 0, len(synonyms))
	for k := range synonyms {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// honorifics and suffix tokens that mark a personal name.
var personTokens = map[string]bool{
	"dr": true, "prof": true, "professor": true,
	"mr": true, "mrs": true, "ms": true, "miss": true,
	"sir": true, "rev": true, "fr": true, "st": true,
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true,
}

// placeKeywords mark geographic names.
var placeKeywords = []string{
	"city", "county", "state", "country", "province", "village",
	"township", "district", "river", "lake", "mountain", "island",
}

// orgSuffixes mark institutional names.
var orgSuffixes = []string{
	"inc", "inc.", "corp", "corp.", "ltd", "ltd.", "llc", "co.",
	"university", "college", "institute", "museum", "library",
	"society", "association", "foundation", "academy", "school",
	"church", "hospital", "center", "centre", "committee",
	"department", "bureau", "council", "archives", "gallery",
}

// firstLast matches a "Firstname Lastname" capitalization pattern,
// allowing a middle initial.
var firstLast = regexp.MustCompile(`^[A-Z][a-z]+(?: [A-Z]\.?)* [A-Z][a-z]+$`)

// lastFirst matches a "Lastname, Firstname" comma pattern.
var lastFirst = regexp.MustCompile(`^[A-Z][A-Za-z'\-]+, ?[A-Z][A-Za-z'\-. ]*$`)

// Classify infers the entity type. A non-empty rawType is consulted
// first against the synonym table; otherwise name heuristics apply in
// priority order.
func Classify(rawType, name string) entities.Type {
	if t := FromTypeString(rawType); t != entities.TypeUnknown {
		return t
	}
	if rawType != "" {
		// A declared type that matched nothing stays Unknown rather
		// than falling through to name guessing.
		return entities.TypeUnknown
	}
	return FromName(name)
}

// FromTypeString resolves a declared type string against the synonym
// table: exact match first, then substring containment in either
// direction.
func FromTypeString(rawType string) entities.Type {
	declared := strings.ToLower(strings.TrimSpace(rawType))
	if declared == "" {
		return entities.TypeUnknown
	}

	if t, ok := synonyms[declared]; ok {
		return t
	}
	for _, synonym := range orderedSynonyms {
		if strings.Contains(declared, synonym) || strings.Contains(synonym, declared) {
			return synonyms[synonym]
		}
	}
	return entities.TypeUnknown
}

// FromName applies name-pattern heuristics in priority order:
// honorific tokens, personal-name capitalization patterns, place
// keywords, organizational suffixes.
func FromName(name string) entities.Type {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return entities.TypeUnknown
	}
	lower := strings.ToLower(trimmed)

	if hasPersonToken(lower) {
		return entities.TypePerson
	}

	// Names like "Hennepin County" or "British Museum" fit the
	// Firstname Lastname shape; a place or institutional keyword
	// anywhere in the name disqualifies the personal-name reading.
	isPlace := containsWord(lower, placeKeywords)
	isOrg := containsWord(lower, orgSuffixes)

	if !isPlace && !isOrg && (firstLast.MatchString(trimmed) || lastFirst.MatchString(trimmed)) {
		return entities.TypePerson
	}
	if isPlace {
		return entities.TypePlace
	}
	if isOrg {
		return entities.TypeOrganization
	}
	return entities.TypeUnknown
}

// hasPersonToken reports whether any whitespace-delimited token is an
// honorific or generational suffix.
func hasPersonToken(lower string) bool {
	for _, token := range strings.Fields(lower) {
		token = strings.TrimSuffix(token, ".")
		token = strings.Trim(token, ",")
		if personTokens[token] {
			return true
		}
	}
	return false
}

// containsWord reports whether any keyword appears as a whole word.
func containsWord(lower string, keywords []string) bool {
	words := strings.Fields(lower)
	for i, w := range words {
		words[i] = strings.Trim(w, ".,;:")
	}
	for _, keyword := range keywords {
		keyword = strings.TrimSuffix(keyword, ".")
		for _, w := range words {
			if w == keyword {
				return true
			}
		}
	}
	return false
}
