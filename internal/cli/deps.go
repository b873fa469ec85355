package cli

import (
	"go.uber.org/zap"

	"citedeck/internal/config"
	"citedeck/internal/host"
	"citedeck/internal/prompt"
	"citedeck/internal/reference"
	"citedeck/internal/zotero"
)

// Deps are the process-boundary collaborators. Tests swap in fakes; main
// uses Defaults.
type Deps struct {
	// NewSession opens the document automation session.
	NewSession func() host.Session

	// NewClient builds the reference source for resolved credentials.
	NewClient func(creds config.Credentials, logger *zap.Logger) reference.Client

	// Prompter asks for credentials when no other source has them.
	Prompter config.Prompter
}

// Defaults wires the real collaborators. The session is the in-memory
// binding; a platform automation binding plugs in here.
func Defaults() Deps {
	return Deps{
		NewSession: func() host.Session { return host.NewFake() },
		NewClient: func(creds config.Credentials, logger *zap.Logger) reference.Client {
			return zotero.New(creds, logger)
		},
		Prompter: prompt.NewTerminal(),
	}
}
