// Package prompt collects credentials interactively on a terminal.
package prompt

import (
	"errors"
	"io"
	"strings"

	"github.com/peterh/liner"

	"citedeck/internal/config"
)

// Terminal implements config.Prompter on the controlling terminal. The API
// key is read without echo.
type Terminal struct{}

var _ config.Prompter = (*Terminal)(nil)

// NewTerminal returns a terminal prompter.
func NewTerminal() *Terminal {
	return &Terminal{}
}

// PromptCredentials asks for the API key, library ID, and library type,
// then whether to save them. Ctrl-C or EOF at any question cancels the
// whole prompt: cancellation is reported through OK, not as an error.
func (t *Terminal) PromptCredentials() (config.PromptResult, error) {
	line := liner.NewLiner()
	defer func() { _ = line.Close() }()

	line.SetCtrlCAborts(true)

	apiKey, err := line.PasswordPrompt("Zotero API key: ")
	if cancelled(err) {
		return config.PromptResult{}, nil
	} else if err != nil {
		return config.PromptResult{}, err
	}

	libraryID, err := line.Prompt("Library ID: ")
	if cancelled(err) {
		return config.PromptResult{}, nil
	} else if err != nil {
		return config.PromptResult{}, err
	}

	libraryType, err := line.Prompt("Library type (user/group) [user]: ")
	if cancelled(err) {
		return config.PromptResult{}, nil
	} else if err != nil {
		return config.PromptResult{}, err
	}

	if strings.TrimSpace(libraryType) == "" {
		libraryType = string(config.DefaultLibraryType)
	}

	save, err := line.Prompt("Save credentials? [y/N]: ")
	if cancelled(err) {
		return config.PromptResult{}, nil
	} else if err != nil {
		return config.PromptResult{}, err
	}

	creds := config.Credentials{
		APIKey:      strings.TrimSpace(apiKey),
		LibraryID:   strings.TrimSpace(libraryID),
		LibraryType: config.LibraryType(libraryType),
		Source:      config.SourcePrompt,
	}
	creds = creds.Normalize()

	return config.PromptResult{
		Credentials: creds,
		Persist:     isYes(save),
		OK:          true,
	}, nil
}

func cancelled(err error) bool {
	return errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF)
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
