package cli

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"citedeck/internal/config"
	"citedeck/internal/itemcache"
	"citedeck/internal/reference"
	"citedeck/internal/worker"
)

func resolveCredentials(a *app) (config.Credentials, error) {
	resolver := config.NewResolver(a.store, a.deps.Prompter, a.environ, a.logger)

	return resolver.Resolve(a.allowPrompt)
}

// newClient builds the reference source, fronted by the local item cache.
// A cache that fails to open degrades to the bare source. The returned
// close func must always be called.
func newClient(ctx context.Context, a *app, creds config.Credentials) (reference.Client, func()) {
	client := a.deps.NewClient(creds, a.logger)

	cachePath := filepath.Join(filepath.Dir(a.store.Path()), "items.db")

	cache, err := itemcache.Open(ctx, cachePath)
	if err != nil {
		a.logger.Warn("item cache unavailable", zap.Error(err))

		return client, func() {}
	}

	return itemcache.Wrap(client, cache, 0, a.logger), func() { _ = cache.Close() }
}

// startWorker opens the automation session on its dedicated thread. The
// returned stop func tears the session down and must always be called.
func startWorker(a *app) (*worker.Worker, func(), error) {
	w, err := worker.New(a.deps.NewSession(), a.logger)
	if err != nil {
		return nil, nil, err
	}

	return w, func() { _ = w.Close() }, nil
}
