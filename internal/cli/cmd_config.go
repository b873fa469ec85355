package cli

import (
	"errors"

	"citedeck/internal/config"
	"citedeck/internal/logging"
	"citedeck/internal/style"
)

func cmdConfig(a *app) error {
	resolver := config.NewResolver(a.store, nil, a.environ, a.logger)

	creds, err := resolver.Resolve(false)
	if err != nil {
		return err
	}

	a.io.Println("source:       ", string(creds.Source))
	a.io.Println("api key:      ", logging.Redact(creds.APIKey))
	a.io.Println("library id:   ", creds.LibraryID)
	a.io.Println("library type: ", string(creds.LibraryType))

	if creds.Source == config.SourceFile {
		a.io.Println("file:         ", a.store.Path())
	}

	return nil
}

func cmdSetConfig(a *app) error {
	if a.deps.Prompter == nil {
		return errors.New("no interactive terminal available")
	}

	res, err := a.deps.Prompter.PromptCredentials()
	if err != nil {
		return err
	}

	if !res.OK {
		return config.ErrPromptCancelled
	}

	creds := res.Credentials.Normalize()

	if err := creds.Validate(); err != nil {
		return err
	}

	if err := a.store.Save(creds); err != nil {
		return err
	}

	a.io.Println("credentials saved to", a.store.Path())

	return nil
}

func cmdDeleteConfig(a *app) error {
	if err := a.store.Delete(); err != nil {
		return err
	}

	a.io.Println("credential file removed")

	return nil
}

func cmdStyles(a *app) error {
	for _, name := range style.Names() {
		marker := " "
		if name == a.styleName {
			marker = "*"
		}

		a.io.Printf("%s %s\n", marker, name)
	}

	return nil
}
