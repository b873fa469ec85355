package worker

import (
	"fmt"
	"sort"
	"strings"

	"citedeck/internal/reference"
	"citedeck/internal/style"
)

// ledger records every item cited in this session, in first-citation order.
// Positions are 1-based and stable: citing an item again reuses its
// original position, which is what numeric styles number by.
//
// The ledger is owned by the worker goroutine and never shared.
type ledger struct {
	order []string
	byKey map[string]reference.Item
}

func newLedger() *ledger {
	return &ledger{byKey: make(map[string]reference.Item)}
}

// position returns an item's first-citation position, or 0 when the item
// has not been cited yet.
func (l *ledger) position(key string) int {
	for i, k := range l.order {
		if k == key {
			return i + 1
		}
	}

	return 0
}

// record stores an item and returns its position, assigning the next one
// on first citation.
func (l *ledger) record(item reference.Item) int {
	if pos := l.position(item.Key); pos > 0 {
		l.byKey[item.Key] = item

		return pos
	}

	l.order = append(l.order, item.Key)
	l.byKey[item.Key] = item

	return len(l.order)
}

func (l *ledger) len() int {
	return len(l.order)
}

type citedItem struct {
	item     reference.Item
	position int
}

// cited returns every recorded item in first-citation order.
func (l *ledger) cited() []citedItem {
	out := make([]citedItem, 0, len(l.order))

	for i, key := range l.order {
		out = append(out, citedItem{item: l.byKey[key], position: i + 1})
	}

	return out
}

// renderBibliography produces the full anchor text for the session's
// citations. The output is a pure function of the ledger and the style, so
// repeated refreshes write byte-identical text.
func renderBibliography(l *ledger, name style.Name) (string, error) {
	order, err := style.Ordering(name)
	if err != nil {
		return "", err
	}

	items := l.cited()

	if order == style.OrderByAuthor {
		sort.SliceStable(items, func(i, j int) bool {
			return entrySortKey(items[i].item) < entrySortKey(items[j].item)
		})
	}

	lines := make([]string, 0, len(items))

	for _, c := range items {
		entry, err := style.BibliographyEntry(c.item, name)
		if err != nil {
			return "", err
		}

		if order == style.OrderByCitation {
			entry = fmt.Sprintf("[%d] %s", c.position, entry)
		}

		lines = append(lines, entry)
	}

	return strings.Join(lines, "\n"), nil
}

// entrySortKey orders author-date entries by first author family, then
// year, then title.
func entrySortKey(item reference.Item) string {
	family := item.Title
	if len(item.Authors) > 0 {
		family = item.Authors[0].Family
	}

	return strings.ToLower(fmt.Sprintf("%s\x00%04d\x00%s", family, item.Year, item.Title))
}
