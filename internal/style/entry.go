package style

import (
	"strings"

	"citedeck/internal/reference"
)

// authorDateEntry is the bibliography layout shared by APA, Harvard and
// Chicago: authors, year, title, container, DOI or URL.
func authorDateEntry(item reference.Item, rules ruleSet) string {
	var b strings.Builder

	authors := bibliographyAuthors(item.Authors, rules.bib)
	title := capitalizeFirst(strings.TrimSpace(item.Title))
	container := strings.TrimSpace(item.ContainerTitle)

	year := yearLabel(item.Year, rules.yearPlaceholder)
	if rules.bib.yearParens {
		year = "(" + year + ")"
	}

	year += rules.bib.yearTrail

	if authors != "" {
		if !rules.bib.yearParens {
			authors = ensurePeriod(authors)
		}

		b.WriteString(authors)
		b.WriteString(" ")
		b.WriteString(year)
		b.WriteString(title)
		b.WriteString(". ")
	} else {
		// Authorless works lead with the title.
		b.WriteString(title)
		b.WriteString(". ")
		b.WriteString(year)
	}

	// A standalone title carries no trailing container punctuation.
	if container != "" {
		b.WriteString(container)
		b.WriteString(". ")
	}

	if item.DOI != "" {
		b.WriteString("https://doi.org/")
		b.WriteString(item.DOI)
	} else if item.URL != "" {
		b.WriteString(item.URL)
	}

	return ensurePeriod(strings.TrimSpace(b.String()))
}

// numericEntry is the IEEE layout: authors, quoted title, container, year.
func numericEntry(item reference.Item, rules ruleSet) string {
	var b strings.Builder

	authors := bibliographyAuthors(item.Authors, rules.bib)
	title := capitalizeFirst(strings.TrimSpace(item.Title))
	container := strings.TrimSpace(item.ContainerTitle)
	year := yearLabel(item.Year, rules.yearPlaceholder)

	if authors != "" {
		b.WriteString(authors)
		b.WriteString(", ")
	}

	if rules.bib.titleQuoted {
		b.WriteString(`"`)
		b.WriteString(title)
		b.WriteString(`," `)
	} else {
		b.WriteString(title)
		b.WriteString(", ")
	}

	if container != "" {
		b.WriteString(container)
		b.WriteString(", ")
	}

	b.WriteString(year)
	b.WriteString(".")

	if item.DOI != "" {
		b.WriteString(" doi: ")
		b.WriteString(item.DOI)
		b.WriteString(".")
	}

	return strings.TrimSpace(b.String())
}
