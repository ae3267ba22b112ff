package feed

import "strings"

// RuleSet holds the allow/deny keyword lists of one classification domain.
// Deny takes precedence: an item matching both lists is excluded.
type RuleSet struct {
	Allow []string
	Deny  []string
}

// Empty reports whether the rule set carries no keywords at all.
func (rs RuleSet) Empty() bool {
	return len(rs.Allow) == 0 && len(rs.Deny) == 0
}

// Match classifies the concatenated, case-folded text fields of a record.
// Deny keywords exclude unconditionally; with a non-empty allow list an item
// must match at least one allow keyword (default-deny). An empty rule set
// includes everything.
func (rs RuleSet) Match(texts ...string) bool {
	if rs.Empty() {
		return true
	}

	haystack := strings.ToLower(strings.Join(texts, " "))

	for _, kw := range rs.Deny {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			return false
		}
	}
	for _, kw := range rs.Allow {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return len(rs.Allow) == 0
}

// LabelRule maps a keyword to a display label.
type LabelRule struct {
	Keyword string
	Label   string
}

// LabelTable derives a label from text by first-match-wins over an ordered
// rule list, with a wildcard default.
type LabelTable struct {
	Rules   []LabelRule
	Default string
}

// Lookup returns the label of the first rule whose keyword occurs in the
// case-folded text, or the table default.
func (t LabelTable) Lookup(text string) string {
	haystack := strings.ToLower(text)
	for _, rule := range t.Rules {
		if strings.Contains(haystack, strings.ToLower(rule.Keyword)) {
			return rule.Label
		}
	}
	return t.Default
}
