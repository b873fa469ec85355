package config

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"citedeck/internal/logging"
)

// PromptResult is the outcome of an interactive credential prompt.
// OK=false means the user cancelled, which is a legitimate outcome and not
// an error. Persist asks the resolver to write the entered credentials to
// the store.
type PromptResult struct {
	Credentials Credentials
	Persist     bool
	OK          bool
}

// Prompter is the interactive-prompt collaborator. Implementations live at
// the application boundary; the resolver only consumes the interface.
type Prompter interface {
	PromptCredentials() (PromptResult, error)
}

// Resolver merges the credential sources into one validated Credentials
// value. Precedence, highest first: environment, credential file,
// interactive prompt.
type Resolver struct {
	store    *Store
	prompter Prompter
	environ  []string
	logger   *zap.Logger
}

// NewResolver builds a Resolver. prompter may be nil when no interactive
// surface exists; logger may be nil.
func NewResolver(store *Store, prompter Prompter, environ []string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = logging.Nop()
	}

	return &Resolver{store: store, prompter: prompter, environ: environ, logger: logger}
}

// Resolve returns validated credentials from the highest-precedence source
// that yields complete data. When allowPrompt is false and neither the
// environment nor the file yields credentials, it fails without prompting.
func (r *Resolver) Resolve(allowPrompt bool) (Credentials, error) {
	creds, claimed, envErr := fromEnv(r.environ)
	if claimed {
		if envErr != nil {
			return Credentials{}, envErr
		}

		r.logger.Debug("credentials resolved",
			zap.String("source", string(SourceEnv)),
			zap.String("library_id", creds.LibraryID),
			zap.String("api_key", logging.Redact(creds.APIKey)))

		return creds, nil
	}

	if envErr != nil {
		// Partial override: the source is skipped as a whole, never merged
		// per-field. Remembered so the final error names it.
		r.logger.Warn("ignoring incomplete environment override", zap.Error(envErr))
	}

	creds, found, fileErr := r.store.Load()
	if found {
		r.logger.Debug("credentials resolved",
			zap.String("source", string(SourceFile)),
			zap.String("library_id", creds.LibraryID),
			zap.String("api_key", logging.Redact(creds.APIKey)))

		return creds, nil
	}

	if fileErr != nil && !allowPrompt {
		return Credentials{}, fileErr
	}

	if fileErr != nil {
		r.logger.Warn("credential file invalid, falling through to prompt", zap.Error(fileErr))
	}

	if !allowPrompt || r.prompter == nil {
		if envErr != nil {
			return Credentials{}, fmt.Errorf("%w: %w", ErrNoCredentials, envErr)
		}

		return Credentials{}, ErrNoCredentials
	}

	return r.resolveFromPrompt()
}

func (r *Resolver) resolveFromPrompt() (Credentials, error) {
	result, err := r.prompter.PromptCredentials()
	if err != nil {
		return Credentials{}, fmt.Errorf("credential prompt: %w", err)
	}

	if !result.OK {
		return Credentials{}, ErrPromptCancelled
	}

	creds := result.Credentials.Normalize()
	creds.Source = SourcePrompt

	err = creds.Validate()
	if err != nil {
		return Credentials{}, err
	}

	if result.Persist {
		err = r.store.Save(creds)
		if err != nil {
			return Credentials{}, err
		}

		r.logger.Info("credentials persisted", zap.String("path", r.store.Path()))
	}

	r.logger.Debug("credentials resolved",
		zap.String("source", string(SourcePrompt)),
		zap.String("library_id", creds.LibraryID),
		zap.String("api_key", logging.Redact(creds.APIKey)))

	return creds, nil
}

// IsCancelled reports whether err is the user cancelling the prompt.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrPromptCancelled)
}
