package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"citedeck/internal/reference"
)

func cmdSearch(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: citedeck search <query>")
	}

	creds, err := resolveCredentials(a)
	if err != nil {
		return err
	}

	client, closeClient := newClient(ctx, a, creds)
	defer closeClient()

	items, err := client.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	if len(items) == 0 {
		a.io.Println("no results")

		return nil
	}

	for _, item := range items {
		a.io.Printf("%-10s %-24s %s\n", item.Key, itemLabel(item), item.Title)
	}

	return nil
}

// itemLabel is the short author-year handle shown in listings.
func itemLabel(item reference.Item) string {
	who := "(no author)"

	switch n := len(item.Authors); {
	case n == 1:
		who = item.Authors[0].Family
	case n == 2:
		who = item.Authors[0].Family + " & " + item.Authors[1].Family
	case n > 2:
		who = item.Authors[0].Family + " et al."
	}

	year := "n.d."
	if item.Year > 0 {
		year = strconv.Itoa(item.Year)
	}

	return who + ", " + year
}
