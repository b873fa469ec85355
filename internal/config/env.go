package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"
)

// Environment variable names. All three must be set together to count as a
// complete override source.
const (
	EnvAPIKey      = "ZOTERO_API_KEY"
	EnvLibraryID   = "ZOTERO_LIBRARY_ID"
	EnvLibraryType = "ZOTERO_LIBRARY_TYPE"
)

type envRecord struct {
	APIKey      string `env:"ZOTERO_API_KEY"`
	LibraryID   string `env:"ZOTERO_LIBRARY_ID"`
	LibraryType string `env:"ZOTERO_LIBRARY_TYPE"`
}

// fromEnv reads the environment override source from the injected environ
// slice. Returns found=false when no variable is set. An empty-string value
// counts as unset for precedence purposes.
//
// The source is all-or-nothing: when only some variables are set, it returns
// found=false together with a *Error describing the incomplete override, so
// the resolver can fall through yet still report the problem if nothing else
// resolves.
func fromEnv(environ []string) (Credentials, bool, error) {
	vars := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			vars[k] = v
		}
	}

	var rec envRecord

	err := env.Parse(&rec, env.Options{Environment: vars})
	if err != nil {
		return Credentials{}, false, fmt.Errorf("parse environment: %w", err)
	}

	set := map[string]bool{
		EnvAPIKey:      strings.TrimSpace(rec.APIKey) != "",
		EnvLibraryID:   strings.TrimSpace(rec.LibraryID) != "",
		EnvLibraryType: strings.TrimSpace(rec.LibraryType) != "",
	}

	none := !set[EnvAPIKey] && !set[EnvLibraryID] && !set[EnvLibraryType]
	if none {
		return Credentials{}, false, nil
	}

	for _, name := range []string{EnvAPIKey, EnvLibraryID, EnvLibraryType} {
		if !set[name] {
			return Credentials{}, false, &Error{Field: name, Reason: "incomplete environment override, variable not set"}
		}
	}

	creds := Credentials{
		APIKey:      rec.APIKey,
		LibraryID:   rec.LibraryID,
		LibraryType: LibraryType(rec.LibraryType),
		Source:      SourceEnv,
	}.Normalize()

	// A complete override with a bad value is a hard failure: the operator
	// asked for the environment to win, so falling back would hide the typo.
	err = creds.Validate()
	if err != nil {
		return Credentials{}, true, fmt.Errorf("environment override: %w", err)
	}

	return creds, true, nil
}
