// Package config resolves Zotero credentials from the environment, the
// per-user credential file, and an interactive prompt, in that precedence
// order. Validation happens at construction; a Credentials value that made
// it past Validate is safe to use everywhere else.
package config

import (
	"fmt"
	"strings"
)

// Source records where a resolved Credentials value came from.
// It is metadata only and is never persisted.
type Source string

const (
	SourceFile   Source = "file"
	SourceEnv    Source = "env"
	SourcePrompt Source = "prompt"
)

// LibraryType is the kind of Zotero library the credentials address.
type LibraryType string

const (
	LibraryUser  LibraryType = "user"
	LibraryGroup LibraryType = "group"
)

// DefaultLibraryType is assumed when the credential file omits the field.
const DefaultLibraryType = LibraryUser

// Credentials is a validated set of Zotero API credentials.
type Credentials struct {
	APIKey      string
	LibraryID   string
	LibraryType LibraryType
	Source      Source
}

// Error reports invalid or incomplete credentials. Field names the offending
// field when known. Messages never include secret values.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return "credentials: " + e.Reason
	}

	return fmt.Sprintf("credentials: %s: %s", e.Field, e.Reason)
}

// Normalize trims whitespace from all value fields and lowercases the
// library type so that case-insensitive input is accepted.
func (c Credentials) Normalize() Credentials {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.LibraryID = strings.TrimSpace(c.LibraryID)
	c.LibraryType = LibraryType(strings.ToLower(strings.TrimSpace(string(c.LibraryType))))

	return c
}

// Validate checks a normalized Credentials value. It returns a *Error naming
// the first offending field, or nil.
func (c Credentials) Validate() error {
	if c.APIKey == "" {
		return &Error{Field: "api_key", Reason: "must not be empty"}
	}

	if c.LibraryID == "" {
		return &Error{Field: "library_id", Reason: "must not be empty"}
	}

	if !isDigits(c.LibraryID) {
		return &Error{Field: "library_id", Reason: "must be numeric"}
	}

	if c.LibraryType != LibraryUser && c.LibraryType != LibraryGroup {
		return &Error{Field: "library_type", Reason: `must be "user" or "group"`}
	}

	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return s != ""
}
