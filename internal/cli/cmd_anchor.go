package cli

import (
	"context"
)

func cmdBibliography(ctx context.Context, a *app) error {
	w, stop, err := startWorker(a)
	if err != nil {
		return err
	}
	defer stop()

	refreshed, err := w.RefreshBibliography(ctx, a.styleName)
	if err != nil {
		return err
	}

	if !refreshed {
		a.io.Println("nothing to refresh: no document or no anchor shape")

		return nil
	}

	a.io.Println("bibliography refreshed")

	return nil
}

func cmdSetAnchor(ctx context.Context, a *app) error {
	w, stop, err := startWorker(a)
	if err != nil {
		return err
	}
	defer stop()

	anc, err := w.SetAnchor(ctx)
	if err != nil {
		return err
	}

	a.io.Printf("anchor set on slide %d shape %d\n", anc.Shape.Slide, anc.Shape.Shape)

	return nil
}
