package style

import (
	"strconv"
	"strings"
	"unicode"

	"citedeck/internal/reference"
)

// The formatting primitives. Each is independently testable and shared by
// every style variant; rule tables supply the parameters.

// familyNames returns the author family names for in-text use. An item with
// no authors falls back to its title, so a cite never renders empty.
func familyNames(item reference.Item) []string {
	names := make([]string, 0, len(item.Authors))

	for _, a := range item.Authors {
		family := strings.TrimSpace(a.Family)
		if family != "" {
			names = append(names, family)
		}
	}

	if len(names) == 0 {
		names = append(names, strings.TrimSpace(item.Title))
	}

	return names
}

// collapseEtAl applies a style's author-count threshold. Counts above the
// threshold collapse to the first name; the caller renders the "et al."
// form. threshold 0 never collapses.
func collapseEtAl(names []string, threshold int) ([]string, bool) {
	if threshold > 0 && len(names) > threshold {
		return names[:1], true
	}

	return names, false
}

// joinNames joins a name list with style-specific connectives.
func joinNames(names []string, twoJoin, finalJoin string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + twoJoin + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + finalJoin + names[len(names)-1]
	}
}

// yearLabel renders a year, or the style's placeholder when unknown.
// A missing year never renders as an empty field.
func yearLabel(year int, placeholder string) string {
	if year <= 0 {
		return placeholder
	}

	return strconv.Itoa(year)
}

// initials reduces a given name to dotted initials: "John Ronald" -> "J. R.".
func initials(given string) string {
	fields := strings.Fields(given)
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, 0, len(fields))

	for _, f := range fields {
		runes := []rune(f)
		parts = append(parts, string(unicode.ToUpper(runes[0]))+".")
	}

	return strings.Join(parts, " ")
}

// formatAuthor renders one author in the requested form.
func formatAuthor(a reference.Author, form nameForm) string {
	family := strings.TrimSpace(a.Family)
	given := strings.TrimSpace(a.Given)

	if family == "" {
		return given
	}

	switch form {
	case nameInitialsFamily:
		if ini := initials(given); ini != "" {
			return ini + " " + family
		}

		return family
	case nameGivenFamily:
		if given != "" {
			return given + " " + family
		}

		return family
	case nameFamilyGiven:
		if given != "" {
			return family + ", " + given
		}

		return family
	default: // nameFamilyInitials
		if ini := initials(given); ini != "" {
			return family + ", " + ini
		}

		return family
	}
}

// bibliographyAuthors renders the full author segment for an entry,
// collapsing above the style's bibliography threshold.
func bibliographyAuthors(authors []reference.Author, rules bibRules) string {
	if len(authors) == 0 {
		return ""
	}

	if rules.threshold > 0 && len(authors) > rules.threshold {
		return formatAuthor(authors[0], rules.firstForm) + " et al."
	}

	parts := make([]string, 0, len(authors))

	for i, a := range authors {
		form := rules.restForm
		if i == 0 {
			form = rules.firstForm
		}

		if s := formatAuthor(a, form); s != "" {
			parts = append(parts, s)
		}
	}

	return joinNames(parts, rules.twoJoin, rules.finalJoin)
}

// capitalizeFirst uppercases the first letter of a title. Casing beyond the
// first rune is preserved as supplied by the reference source.
func capitalizeFirst(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}

	runes[0] = unicode.ToUpper(runes[0])

	return string(runes)
}

// numericMarker renders the IEEE bracket form. Position 0 means the number
// is not yet known; the unresolved marker mirrors what renumbering would
// later replace.
func numericMarker(position int) string {
	if position < 1 {
		return "[?]"
	}

	return "[" + strconv.Itoa(position) + "]"
}

// ensurePeriod appends a terminal period unless one is already present.
func ensurePeriod(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, ".") {
		return s
	}

	return s + "."
}
