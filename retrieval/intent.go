package retrieval

import "strings"

// Intent classifies what a query is asking for.
type Intent string

const (
	// IntentPerson marks queries about a specific named person.
	IntentPerson Intent = "person"
	// IntentSection marks queries routable to a known knowledge-base section.
	IntentSection Intent = "section"
	// IntentGeneric marks everything else.
	IntentGeneric Intent = "generic"
)

// Route maps trigger keywords to a knowledge-base section. The first route
// whose keyword appears in the lowercased query wins, so order matters.
type Route struct {
	Keywords []string
	Section  string
}

// DefaultRoutes returns the section routing table for the institutional
// knowledge base. "principle" is a common misspelling of "principal" in
// student queries and routes the same way.
func DefaultRoutes() []Route {
	return []Route{
		{Keywords: []string{"captain"}, Section: "class_captains"},
		{Keywords: []string{"teacher", "instructor", "faculty"}, Section: "teachers"},
		{Keywords: []string{"official", "staff"}, Section: "officials"},
		{Keywords: []string{"principal", "principle", "head of institute"}, Section: "principal"},
		{Keywords: []string{"club", "bncc", "rover", "scout", "debate"}, Section: "clubs"},
	}
}

// personIndicators are phrasings that signal a query about an individual.
var personIndicators = []string{
	"who is",
	"tell me about",
	"information about",
	"details about",
	"contact",
	"about",
}

// Classification is the outcome of query classification: an intent plus the
// section to try first, if any.
type Classification struct {
	Intent  Intent
	Section string
}

// Classify inspects the query and decides its intent and, when a routing
// keyword matches, the section to search first. A query can be both
// person-focused and section-routed ("who is the chemistry teacher"), in
// which case the person intent wins but the section is still set.
func Classify(query string, routes []Route) Classification {
	lower := strings.ToLower(query)

	c := Classification{Intent: IntentGeneric}
	for _, route := range routes {
		for _, kw := range route.Keywords {
			if strings.Contains(lower, kw) {
				c.Intent = IntentSection
				c.Section = route.Section
				break
			}
		}
		if c.Section != "" {
			break
		}
	}

	if isPersonQuery(query, lower) {
		c.Intent = IntentPerson
	}
	return c
}

// isPersonQuery reports whether the query looks like a question about an
// individual: either it uses an indicator phrase, or it is at least two
// words and contains a capitalized word that is not the sentence start.
func isPersonQuery(query, lower string) bool {
	for _, phrase := range personIndicators {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	words := strings.Fields(query)
	if len(words) < 2 {
		return false
	}
	for i, word := range words {
		if i == 0 {
			continue
		}
		r := rune(word[0])
		if r >= 'A' && r <= 'Z' {
			return true
		}
	}
	return false
}
