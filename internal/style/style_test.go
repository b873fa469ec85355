package style

import (
	"errors"
	"testing"

	"citedeck/internal/reference"
)

func item(authors []reference.Author, year int, title string) reference.Item {
	return reference.Item{Key: "K1", Authors: authors, Year: year, Title: title}
}

var (
	smith = reference.Author{Family: "Smith", Given: "John"}
	doe   = reference.Author{Family: "Doe", Given: "Alice"}
	roe   = reference.Author{Family: "Roe", Given: "Richard"}
)

func inText(t *testing.T, it reference.Item, name Name, position int) string {
	t.Helper()

	got, err := InText(it, name, position)
	if err != nil {
		t.Fatalf("in-text: %v", err)
	}

	return got
}

func bibEntry(t *testing.T, it reference.Item, name Name) string {
	t.Helper()

	got, err := BibliographyEntry(it, name)
	if err != nil {
		t.Fatalf("bibliography entry: %v", err)
	}

	return got
}

func TestCheckRules(t *testing.T) {
	t.Parallel()

	if err := CheckRules(); err != nil {
		t.Fatalf("rule tables invalid: %v", err)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	name, err := Parse("  APA ")
	if err != nil || name != APA {
		t.Errorf("Parse(APA) = %q, %v", name, err)
	}

	_, err = Parse("mla")
	if !errors.Is(err, ErrUnknownStyle) {
		t.Errorf("want ErrUnknownStyle, got %v", err)
	}
}

func TestInText_APA(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		item reference.Item
		want string
	}{
		{"single author", item([]reference.Author{smith}, 2021, "X"), "(Smith, 2021)"},
		{"two authors listed in full", item([]reference.Author{smith, doe}, 2021, "X"), "(Smith & Doe, 2021)"},
		{"threshold plus one collapses", item([]reference.Author{smith, doe, roe}, 2021, "X"), "(Smith et al., 2021)"},
		{"missing year placeholder", item([]reference.Author{smith}, 0, "X"), "(Smith, n.d.)"},
		{"authorless falls back to title", item(nil, 2021, "Anonymous pamphlet"), "(Anonymous pamphlet, 2021)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := inText(t, tt.item, APA, 0); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInText_Harvard(t *testing.T) {
	t.Parallel()

	got := inText(t, item([]reference.Author{smith, doe}, 2021, "X"), Harvard, 0)
	if got != "(Smith and Doe, 2021)" {
		t.Errorf("got %q", got)
	}

	got = inText(t, item([]reference.Author{smith}, 0, "X"), Harvard, 0)
	if got != "(Smith, no date)" {
		t.Errorf("got %q", got)
	}
}

func TestInText_Chicago(t *testing.T) {
	t.Parallel()

	got := inText(t, item([]reference.Author{smith, doe}, 2021, "X"), Chicago, 0)
	if got != "(Smith and Doe 2021)" {
		t.Errorf("got %q", got)
	}

	// Chicago lists up to three authors with a serial comma.
	got = inText(t, item([]reference.Author{smith, doe, roe}, 2021, "X"), Chicago, 0)
	if got != "(Smith, Doe, and Roe 2021)" {
		t.Errorf("got %q", got)
	}

	four := []reference.Author{smith, doe, roe, {Family: "Poe", Given: "E"}}

	got = inText(t, item(four, 2021, "X"), Chicago, 0)
	if got != "(Smith et al. 2021)" {
		t.Errorf("got %q", got)
	}
}

func TestInText_IEEENumeric(t *testing.T) {
	t.Parallel()

	got := inText(t, item([]reference.Author{smith}, 2021, "X"), IEEE, 3)
	if got != "[3]" {
		t.Errorf("got %q", got)
	}

	// Position unknown renders the unresolved marker, never author-year.
	got = inText(t, item([]reference.Author{smith}, 2021, "X"), IEEE, 0)
	if got != "[?]" {
		t.Errorf("got %q", got)
	}
}

func TestInTextLocator_APA(t *testing.T) {
	t.Parallel()

	got, err := InTextLocator(item([]reference.Author{smith}, 2021, "X"), APA, 0, "42")
	if err != nil {
		t.Fatalf("locator: %v", err)
	}

	if got != "(Smith, 2021, p. 42)" {
		t.Errorf("got %q", got)
	}
}

func TestBibliographyEntry_APA(t *testing.T) {
	t.Parallel()

	it := reference.Item{
		Authors:        []reference.Author{smith, doe},
		Year:           2021,
		Title:          "deep learning at scale",
		ContainerTitle: "Nature",
		DOI:            "10.1000/xyz",
	}

	got := bibEntry(t, it, APA)
	want := "Smith, J., & Doe, A. (2021). Deep learning at scale. Nature. https://doi.org/10.1000/xyz."

	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestBibliographyEntry_APAStandaloneTitle(t *testing.T) {
	t.Parallel()

	it := reference.Item{Authors: []reference.Author{smith}, Year: 2021, Title: "Standalone report"}

	got := bibEntry(t, it, APA)
	want := "Smith, J. (2021). Standalone report."

	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestBibliographyEntry_Harvard(t *testing.T) {
	t.Parallel()

	it := reference.Item{
		Authors:        []reference.Author{smith, doe},
		Year:           2021,
		Title:          "Deep learning at scale",
		ContainerTitle: "Nature",
	}

	got := bibEntry(t, it, Harvard)
	want := "Smith, J. and Doe, A. (2021) Deep learning at scale. Nature."

	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestBibliographyEntry_Chicago(t *testing.T) {
	t.Parallel()

	it := reference.Item{
		Authors:        []reference.Author{smith, doe},
		Year:           2021,
		Title:          "Deep learning at scale",
		ContainerTitle: "Nature",
	}

	got := bibEntry(t, it, Chicago)
	want := "Smith, John, and Alice Doe. 2021. Deep learning at scale. Nature."

	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestBibliographyEntry_IEEE(t *testing.T) {
	t.Parallel()

	it := reference.Item{
		Authors:        []reference.Author{smith, doe},
		Year:           2021,
		Title:          "Deep learning at scale",
		ContainerTitle: "Nature",
	}

	got := bibEntry(t, it, IEEE)
	want := `J. Smith and A. Doe, "Deep learning at scale," Nature, 2021.`

	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestBibliographyEntry_IEEECollapsesLongAuthorLists(t *testing.T) {
	t.Parallel()

	authors := make([]reference.Author, 7)
	for i := range authors {
		authors[i] = reference.Author{Family: "Name" + string(rune('A'+i)), Given: "X"}
	}

	it := reference.Item{Authors: authors, Year: 2020, Title: "T", ContainerTitle: "C"}

	got := bibEntry(t, it, IEEE)
	want := `X. NameA et al., "T," C, 2020.`

	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestBibliographyEntry_Idempotent(t *testing.T) {
	t.Parallel()

	it := reference.Item{Authors: []reference.Author{smith}, Year: 2021, Title: "T", ContainerTitle: "C"}

	for _, name := range Names() {
		first := bibEntry(t, it, name)
		second := bibEntry(t, it, name)

		if first != second {
			t.Errorf("%s: not idempotent: %q vs %q", name, first, second)
		}
	}
}

func TestOrdering(t *testing.T) {
	t.Parallel()

	for name, want := range map[Name]Order{APA: OrderByAuthor, Chicago: OrderByAuthor, Harvard: OrderByAuthor, IEEE: OrderByCitation} {
		got, err := Ordering(name)
		if err != nil {
			t.Fatalf("ordering %s: %v", name, err)
		}

		if got != want {
			t.Errorf("%s ordering = %d, want %d", name, got, want)
		}
	}
}

func TestPrimitives_Initials(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"John", "J."},
		{"John Ronald", "J. R."},
		{"", ""},
		{"j", "J."},
	}

	for _, tt := range tests {
		if got := initials(tt.in); got != tt.want {
			t.Errorf("initials(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrimitives_JoinNames(t *testing.T) {
	t.Parallel()

	names := []string{"Smith", "Doe", "Roe"}

	if got := joinNames(names, " & ", ", & "); got != "Smith, Doe, & Roe" {
		t.Errorf("got %q", got)
	}

	if got := joinNames(names[:2], " & ", ", & "); got != "Smith & Doe" {
		t.Errorf("got %q", got)
	}
}
