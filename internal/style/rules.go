package style

import "fmt"

// bibLayout is the named layout hook for bibliography entries. Author-date
// and numeric layouts differ in field order, which a flat table cannot
// express; everything else is table data.
type bibLayout int

const (
	layoutAuthorDate bibLayout = iota
	layoutNumeric
)

// nameForm selects how one author renders in a bibliography entry.
type nameForm int

const (
	// nameFamilyInitials renders "Smith, J. R."
	nameFamilyInitials nameForm = iota
	// nameInitialsFamily renders "J. R. Smith"
	nameInitialsFamily
	// nameGivenFamily renders "John Smith"
	nameGivenFamily
	// nameFamilyGiven renders "Smith, John"
	nameFamilyGiven
)

type inTextRules struct {
	threshold  int    // author counts above this collapse to "first et al."
	twoJoin    string // joins exactly two names
	finalJoin  string // joins the last of three or more names
	sep        string // between the name list and the year
	locatorSep string // between the year and a locator
	numeric    bool   // numeric-bracket hook (IEEE)
}

type bibRules struct {
	layout    bibLayout
	firstForm nameForm // first author
	restForm  nameForm // remaining authors
	twoJoin   string
	finalJoin string
	threshold int // author counts above this collapse; 0 lists all

	yearParens  bool
	yearTrail   string // punctuation after the year segment
	titleQuoted bool
}

type ruleSet struct {
	order           Order
	yearPlaceholder string
	inText          inTextRules
	bib             bibRules
}

// ruleSets is the closed style table. In-text and bibliography mechanics are
// shared primitives; each entry only parameterizes them.
var ruleSets = map[Name]ruleSet{
	APA: {
		order:           OrderByAuthor,
		yearPlaceholder: "n.d.",
		inText: inTextRules{
			threshold:  2,
			twoJoin:    " & ",
			finalJoin:  ", & ",
			sep:        ", ",
			locatorSep: ", p. ",
		},
		bib: bibRules{
			layout:     layoutAuthorDate,
			firstForm:  nameFamilyInitials,
			restForm:   nameFamilyInitials,
			twoJoin:    ", & ",
			finalJoin:  ", & ",
			yearParens: true,
			yearTrail:  ". ",
		},
	},
	Harvard: {
		order:           OrderByAuthor,
		yearPlaceholder: "no date",
		inText: inTextRules{
			threshold:  2,
			twoJoin:    " and ",
			finalJoin:  " and ",
			sep:        ", ",
			locatorSep: ", p. ",
		},
		bib: bibRules{
			layout:     layoutAuthorDate,
			firstForm:  nameFamilyInitials,
			restForm:   nameFamilyInitials,
			twoJoin:    " and ",
			finalJoin:  " and ",
			yearParens: true,
			yearTrail:  " ",
		},
	},
	Chicago: {
		order:           OrderByAuthor,
		yearPlaceholder: "n.d.",
		inText: inTextRules{
			threshold:  3,
			twoJoin:    " and ",
			finalJoin:  ", and ",
			sep:        " ",
			locatorSep: ", ",
		},
		bib: bibRules{
			layout:    layoutAuthorDate,
			firstForm: nameFamilyGiven,
			restForm:  nameGivenFamily,
			twoJoin:   ", and ",
			finalJoin: ", and ",
			yearTrail: ". ",
		},
	},
	IEEE: {
		order:           OrderByCitation,
		yearPlaceholder: "n.d.",
		inText: inTextRules{
			numeric: true,
		},
		bib: bibRules{
			layout:      layoutNumeric,
			firstForm:   nameInitialsFamily,
			restForm:    nameInitialsFamily,
			twoJoin:     " and ",
			finalJoin:   ", and ",
			threshold:   6,
			titleQuoted: true,
		},
	},
}

// CheckRules validates every rule table. Malformed tables are a programming
// error; callers run this once at startup so bad overrides fail fast rather
// than at format time.
func CheckRules() error {
	for name, rules := range ruleSets {
		if rules.yearPlaceholder == "" {
			return fmt.Errorf("%w: %q: empty year placeholder", ErrBadRuleSet, name)
		}

		if !rules.inText.numeric {
			if rules.inText.threshold < 1 {
				return fmt.Errorf("%w: %q: in-text author threshold must be >= 1", ErrBadRuleSet, name)
			}

			if rules.inText.twoJoin == "" || rules.inText.finalJoin == "" {
				return fmt.Errorf("%w: %q: missing in-text name join", ErrBadRuleSet, name)
			}
		}

		if rules.bib.layout != layoutAuthorDate && rules.bib.layout != layoutNumeric {
			return fmt.Errorf("%w: %q: unknown bibliography layout", ErrBadRuleSet, name)
		}

		if rules.bib.threshold < 0 {
			return fmt.Errorf("%w: %q: negative bibliography author threshold", ErrBadRuleSet, name)
		}
	}

	return nil
}
