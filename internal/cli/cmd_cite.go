package cli

import (
	"context"
	"errors"

	"citedeck/internal/inserter"
)

func cmdCite(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: citedeck cite <item-key>")
	}

	creds, err := resolveCredentials(a)
	if err != nil {
		return err
	}

	w, stop, err := startWorker(a)
	if err != nil {
		return err
	}
	defer stop()

	client, closeClient := newClient(ctx, a, creds)
	defer closeClient()

	ins := inserter.New(client, w, a.logger)

	text, err := ins.Cite(ctx, args[0], a.styleName)
	if err != nil {
		return err
	}

	a.io.Println("inserted:", text)

	return nil
}
