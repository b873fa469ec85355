package cli

import (
	"context"
	"errors"

	"citedeck/internal/config"
)

func cmdStatus(ctx context.Context, a *app) error {
	// Status never prompts: it reports what exists, it does not configure.
	resolver := config.NewResolver(a.store, nil, a.environ, a.logger)

	creds, err := resolver.Resolve(false)

	switch {
	case err == nil:
		a.io.Println("credentials: configured (source:", string(creds.Source)+")")
	case errors.Is(err, config.ErrNoCredentials):
		a.io.Println("credentials: not configured")
	default:
		return err
	}

	w, stop, err := startWorker(a)
	if err != nil {
		return err
	}
	defer stop()

	st, err := w.Status(ctx)
	if err != nil {
		return err
	}

	a.io.Println("document open:", st.DocumentOpen)
	a.io.Println("anchor present:", st.AnchorFound)
	a.io.Println("citations this session:", st.CitedCount)

	return nil
}
