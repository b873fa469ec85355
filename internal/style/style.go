// Package style renders in-text citations and bibliography entries.
//
// The engine is a set of formatting primitives (name joining, year labels,
// title punctuation, locators) parameterized by per-style rule tables. A
// style variant is data plus at most one named layout hook; adding a style
// means adding a table entry in rules.go, never touching another style's
// path. All functions are pure: same item and style, byte-identical output.
package style

import (
	"fmt"
	"sort"
	"strings"

	"citedeck/internal/reference"
)

// Name identifies one citation style variant. The set is closed.
type Name string

const (
	APA     Name = "apa"
	IEEE    Name = "ieee"
	Chicago Name = "chicago"
	Harvard Name = "harvard"
)

// Default is the style assumed when the user picks none.
const Default = APA

// Order is a style's bibliography ordering rule.
type Order int

const (
	// OrderByAuthor sorts entries alphabetically by first author family name.
	OrderByAuthor Order = iota
	// OrderByCitation keeps entries in first-citation order.
	OrderByCitation
)

// Names returns all known style variants, stable order.
func Names() []Name {
	names := make([]Name, 0, len(ruleSets))
	for n := range ruleSets {
		names = append(names, n)
	}

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	return names
}

// Parse maps a user-supplied style name onto a known variant.
// Unknown names fail fast with ErrUnknownStyle.
func Parse(s string) (Name, error) {
	name := Name(strings.ToLower(strings.TrimSpace(s)))

	if _, ok := ruleSets[name]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, s)
	}

	return name, nil
}

// Ordering returns the bibliography ordering rule for a style.
func Ordering(name Name) (Order, error) {
	rules, ok := ruleSets[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}

	return rules.order, nil
}

// Numeric reports whether the style uses numeric in-text markers.
func Numeric(name Name) bool {
	return ruleSets[name].inText.numeric
}

// InText renders the inline citation marker for an item.
//
// position is the 1-based first-citation order of the item within the
// session; only numeric styles (IEEE) consume it, author-year styles ignore
// it.
func InText(item reference.Item, name Name, position int) (string, error) {
	rules, ok := ruleSets[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}

	return inTextCite(item, rules, position, ""), nil
}

// InTextLocator is InText with a locator (page or section reference)
// appended per the style's locator rule.
func InTextLocator(item reference.Item, name Name, position int, locator string) (string, error) {
	rules, ok := ruleSets[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}

	return inTextCite(item, rules, position, locator), nil
}

// BibliographyEntry renders the full reference listing for an item.
func BibliographyEntry(item reference.Item, name Name) (string, error) {
	rules, ok := ruleSets[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}

	switch rules.bib.layout {
	case layoutAuthorDate:
		return authorDateEntry(item, rules), nil
	case layoutNumeric:
		return numericEntry(item, rules), nil
	default:
		return "", fmt.Errorf("%w: style %q: unknown layout", ErrBadRuleSet, name)
	}
}

func inTextCite(item reference.Item, rules ruleSet, position int, locator string) string {
	if rules.inText.numeric {
		// Named hook: numeric bracket form, not expressible as a table entry.
		return numericMarker(position)
	}

	families := familyNames(item)
	collapsed, etAl := collapseEtAl(families, rules.inText.threshold)

	names := joinNames(collapsed, rules.inText.twoJoin, rules.inText.finalJoin)
	if etAl {
		names = collapsed[0] + " et al."
	}

	year := yearLabel(item.Year, rules.yearPlaceholder)

	cite := "(" + names + rules.inText.sep + year
	if locator != "" {
		cite += rules.inText.locatorSep + locator
	}

	return cite + ")"
}
