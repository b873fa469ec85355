// Package inserter ties the reference source to the document worker: look
// an item up, drop its in-text cite at the cursor, keep the bibliography
// current.
package inserter

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"citedeck/internal/logging"
	"citedeck/internal/reference"
	"citedeck/internal/style"
	"citedeck/internal/worker"
)

// Inserter orchestrates cite operations end to end.
type Inserter struct {
	client reference.Client
	w      *worker.Worker
	logger *zap.Logger
}

// New wires a reference source to a running worker.
func New(client reference.Client, w *worker.Worker, logger *zap.Logger) *Inserter {
	if logger == nil {
		logger = logging.Nop()
	}

	return &Inserter{client: client, w: w, logger: logger}
}

// Search passes a query through to the reference source.
func (i *Inserter) Search(ctx context.Context, query string) ([]reference.Item, error) {
	return i.client.Search(ctx, query)
}

// Cite fetches the item, inserts its in-text citation at the cursor, and
// refreshes the bibliography. The refresh is a no-op when no anchor shape
// exists, so citing works the same with or without a bibliography slide.
// The returned string is the inserted citation text.
func (i *Inserter) Cite(ctx context.Context, key string, name style.Name) (string, error) {
	item, err := i.client.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("fetch item: %w", err)
	}

	text, err := i.w.InsertCitation(ctx, item, name)
	if err != nil {
		return "", err
	}

	refreshed, err := i.w.RefreshBibliography(ctx, name)
	if err != nil {
		// The cite already landed; a refresh failure must not report the
		// whole operation as failed.
		i.logger.Warn("bibliography refresh failed after insert", zap.Error(err))

		return text, nil
	}

	i.logger.Debug("citation complete",
		zap.String("key", key),
		zap.Bool("bibliography_refreshed", refreshed))

	return text, nil
}

// Refresh rewrites the bibliography without inserting anything.
func (i *Inserter) Refresh(ctx context.Context, name style.Name) (bool, error) {
	return i.w.RefreshBibliography(ctx, name)
}
