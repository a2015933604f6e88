package retrieval

import "strings"

// scaffolding are question phrasings stripped from a query to isolate the
// name or subject being asked about.
var scaffolding = []string{
	"who is",
	"tell me about",
	"information about",
	"details about",
	"contact of",
	"contact",
	"what is",
	"the",
}

// CandidateName strips question scaffolding and trailing punctuation from a
// query, leaving the probable name or subject. "Who is Julekha Akter Koli?"
// becomes "Julekha Akter Koli".
func CandidateName(query string) string {
	name := strings.TrimSpace(query)
	name = strings.TrimRight(name, "?!.")

	lower := strings.ToLower(name)
	for _, phrase := range scaffolding {
		for {
			idx := strings.Index(lower, phrase)
			if idx < 0 {
				break
			}
			// Only strip whole-word occurrences.
			if (idx == 0 || lower[idx-1] == ' ') &&
				(idx+len(phrase) == len(lower) || lower[idx+len(phrase)] == ' ') {
				name = name[:idx] + name[idx+len(phrase):]
				lower = lower[:idx] + lower[idx+len(phrase):]
				continue
			}
			break
		}
	}
	return strings.Join(strings.Fields(name), " ")
}

// NameTokens returns the lowercased alphabetic tokens of a name that are
// long enough to be meaningful for confirmation matching.
func NameTokens(name string) []string {
	var tokens []string
	for _, word := range strings.Fields(name) {
		word = strings.Trim(word, ".,!?;:'\"-()")
		if len(word) <= 2 {
			continue
		}
		if !isAlpha(word) {
			continue
		}
		tokens = append(tokens, strings.ToLower(word))
	}
	return tokens
}

func isAlpha(word string) bool {
	for _, r := range word {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// roleSuffixes are appended to a candidate name to form expansion queries.
// They cover the roles a named person can hold in the knowledge base.
var roleSuffixes = []string{
	"teacher",
	"instructor",
	"staff",
	"official",
	"department",
	"contact",
}

// ExpandPersonQuery builds the battery of reformulated queries for a person
// lookup: the bare name, the name paired with each known role, and partial
// name forms. The result is deduplicated preserving order, so the battery
// is deterministic for a given query.
func ExpandPersonQuery(query string) []string {
	name := CandidateName(query)
	if name == "" {
		return nil
	}

	var expansions []string
	expansions = append(expansions, name)
	for _, role := range roleSuffixes {
		expansions = append(expansions, name+" "+role)
	}

	words := strings.Fields(name)
	if len(words) > 1 {
		expansions = append(expansions,
			words[0]+" instructor",
			words[len(words)-1]+" teacher")
	}

	seen := make(map[string]struct{}, len(expansions))
	deduped := expansions[:0]
	for _, q := range expansions {
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		deduped = append(deduped, q)
	}
	return deduped
}

// ConfirmsName reports whether the content plausibly describes the named
// person: at least min(2, len(tokens)) of the name tokens must appear in
// the content, case-insensitively. One matching token out of three is a
// coincidence; two is a person.
func ConfirmsName(content string, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	required := 2
	if len(tokens) < required {
		required = len(tokens)
	}

	lower := strings.ToLower(content)
	found := 0
	for _, token := range tokens {
		if strings.Contains(lower, token) {
			found++
			if found >= required {
				return true
			}
		}
	}
	return false
}
