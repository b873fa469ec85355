package config

import "errors"

var (
	// ErrNoCredentials reports that no source yielded complete credentials
	// and prompting was not allowed (or yielded nothing).
	ErrNoCredentials = errors.New("no credentials configured")

	// ErrPromptCancelled reports that the user dismissed the credential
	// prompt without entering anything.
	ErrPromptCancelled = errors.New("credential prompt cancelled")

	// ErrFileUnreadable reports a credential file that exists but cannot be
	// read or parsed.
	ErrFileUnreadable = errors.New("credential file unreadable")
)
