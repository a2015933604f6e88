package chunker

import "regexp"

// SectionRule declares how to locate one named section inside the source
// document. A section starts after the text matched by Start and runs up to
// (but not including) the text matched by End; a nil End runs to the end of
// the document. Adding a new section to the corpus is a new rule, not a new
// code branch.
type SectionRule struct {
	Name  string
	Start *regexp.Regexp
	End   *regexp.Regexp
}

// MustRule compiles a case-insensitive SectionRule from start and end
// patterns. An empty end pattern means the section runs to the end of the
// document. Panics on invalid patterns; rules are package-level data.
func MustRule(name, start, end string) SectionRule {
	rule := SectionRule{
		Name:  name,
		Start: regexp.MustCompile("(?i)" + start),
	}
	if end != "" {
		rule.End = regexp.MustCompile("(?i)" + end)
	}
	return rule
}

// DefaultRules returns the section layout of the institutional knowledge
// document: named sections delimited by the markers the source document
// actually uses.
func DefaultRules() []SectionRule {
	return []SectionRule{
		MustRule("about_college", `\*\*About College:\*\*`, `\*\*Departments`),
		MustRule("departments", `\*\*Departments of the Polytechnic Institute:\*\*`, `Since 2008`),
		MustRule("department_heads", `\*\*Department Details:\*\*`, `---`),
		MustRule("officials", `\*\*Officials:\*\*`, `\*\*List of Teachers`),
		MustRule("teachers", `\*\*List of Teachers`, `Principal:`),
		MustRule("principal", `Principal:`, `College Clubs`),
		MustRule("clubs", `College Clubs`, `Class Captains`),
		MustRule("class_captains", `Class Captains\s*:`, `KPI GPT Creator`),
		MustRule("creator_info", `KPI GPT Creator`, ""),
	}
}

// extract returns the section's text from the document, or "" when the
// start marker is absent.
func (r SectionRule) extract(text string) string {
	loc := r.Start.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	rest := text[loc[1]:]

	if r.End == nil {
		return rest
	}
	end := r.End.FindStringIndex(rest)
	if end == nil {
		return rest
	}
	return rest[:end[0]]
}
