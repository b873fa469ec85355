// Package reference defines the reference-manager façade the rest of the
// system consumes: the item shape and the fetch/search contract. Concrete
// clients (the Zotero Web API client, test fakes) implement Client.
package reference

import "context"

// Author is one creator of a work.
type Author struct {
	Family string
	Given  string
}

// Item is one bibliographic record. Immutable once fetched within a single
// insertion operation.
type Item struct {
	Key            string
	Authors        []Author
	Year           int // 0 when unknown
	Title          string
	ContainerTitle string
	DOI            string
	URL            string
	Type           string
}

// Client is the stateless fetch/search façade over the reference manager.
// Both calls hit a potentially failing remote; failures are wrapped as
// *SourceError.
type Client interface {
	Search(ctx context.Context, query string) ([]Item, error)
	Get(ctx context.Context, key string) (Item, error)
}
