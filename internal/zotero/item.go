package zotero

import (
	"regexp"
	"strconv"
	"strings"

	"citedeck/internal/reference"
)

// apiItem mirrors the wire shape of one Zotero item. Only the fields the
// citation formats consume are decoded.
type apiItem struct {
	Key  string `json:"key"`
	Data struct {
		ItemType         string       `json:"itemType"`
		Title            string       `json:"title"`
		Creators         []apiCreator `json:"creators"`
		Date             string       `json:"date"`
		PublicationTitle string       `json:"publicationTitle"`
		DOI              string       `json:"DOI"`
		URL              string       `json:"url"`
	} `json:"data"`
}

type apiCreator struct {
	CreatorType string `json:"creatorType"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Name        string `json:"name"`
}

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

func (a apiItem) toItem() reference.Item {
	item := reference.Item{
		Key:            a.Key,
		Title:          strings.TrimSpace(a.Data.Title),
		ContainerTitle: strings.TrimSpace(a.Data.PublicationTitle),
		DOI:            strings.TrimSpace(a.Data.DOI),
		URL:            strings.TrimSpace(a.Data.URL),
		Type:           a.Data.ItemType,
		Year:           yearOf(a.Data.Date),
	}

	for _, c := range a.Data.Creators {
		// Editors and translators do not drive author-year cites.
		if c.CreatorType != "" && c.CreatorType != "author" {
			continue
		}

		author := creatorToAuthor(c)
		if author.Family != "" || author.Given != "" {
			item.Authors = append(item.Authors, author)
		}
	}

	return item
}

func creatorToAuthor(c apiCreator) reference.Author {
	if c.LastName != "" || c.FirstName != "" {
		return reference.Author{Family: strings.TrimSpace(c.LastName), Given: strings.TrimSpace(c.FirstName)}
	}

	// Single-field names (institutions, mononyms) land in the family slot.
	return reference.Author{Family: strings.TrimSpace(c.Name)}
}

// yearOf extracts the first four-digit year from Zotero's freeform date
// field. Dates like "2021-03-02", "March 2021" and "2021" all resolve; a
// dateless item keeps year zero.
func yearOf(date string) int {
	m := yearPattern.FindStringSubmatch(date)
	if m == nil {
		return 0
	}

	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}

	return year
}
