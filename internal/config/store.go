package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

// CredentialFileName is the file name inside the per-user config directory.
const CredentialFileName = "credentials.json"

const appDirName = "citedeck"

// record is the on-disk shape of the credential file. Source is deliberately
// absent: where credentials came from is never a persisted trust signal.
type record struct {
	APIKey      string `json:"api_key"`
	LibraryID   string `json:"library_id"`
	LibraryType string `json:"library_type"`
}

// Store owns the persisted credential file. All writes go through Save,
// which replaces the file atomically so readers never observe a partial
// write.
type Store struct {
	path string
}

// NewStore returns a Store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file path the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// DefaultPath returns the per-user credential file location.
// $XDG_CONFIG_HOME takes precedence when present in env; otherwise the
// platform user config directory is used.
func DefaultPath(environ []string) (string, error) {
	for _, e := range environ {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok && after != "" {
			return filepath.Join(after, appDirName, CredentialFileName), nil
		}
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}

	return filepath.Join(base, appDirName, CredentialFileName), nil
}

// Load reads the credential file. A missing file is not an error: it returns
// found=false so resolution can fall through to the next source. A present
// but unreadable or invalid file is an error.
func (s *Store) Load() (Credentials, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, false, nil
		}

		return Credentials{}, false, fmt.Errorf("%w: %s: %w", ErrFileUnreadable, s.path, err)
	}

	// Tolerate comments and trailing commas in hand-edited files.
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Credentials{}, false, fmt.Errorf("%w: %s: %w", ErrFileUnreadable, s.path, err)
	}

	var rec record

	err = json.Unmarshal(standardized, &rec)
	if err != nil {
		return Credentials{}, false, fmt.Errorf("%w: %s: %w", ErrFileUnreadable, s.path, err)
	}

	if rec.LibraryType == "" {
		rec.LibraryType = string(DefaultLibraryType)
	}

	creds := Credentials{
		APIKey:      rec.APIKey,
		LibraryID:   rec.LibraryID,
		LibraryType: LibraryType(rec.LibraryType),
		Source:      SourceFile,
	}.Normalize()

	err = creds.Validate()
	if err != nil {
		return Credentials{}, false, fmt.Errorf("credential file %s: %w", s.path, err)
	}

	return creds, true, nil
}

// Save validates and persists credentials, replacing the file atomically.
func (s *Store) Save(creds Credentials) error {
	creds = creds.Normalize()

	err := creds.Validate()
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	rec := record{
		APIKey:      creds.APIKey,
		LibraryID:   creds.LibraryID,
		LibraryType: string(creds.LibraryType),
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	data = append(data, '\n')

	err = os.MkdirAll(filepath.Dir(s.path), 0o700)
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	err = atomic.WriteFile(s.path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	// Credential file: owner-only.
	err = os.Chmod(s.path, 0o600)
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	return nil
}

// Delete removes the credential file. Removing a file that does not exist
// is not an error.
func (s *Store) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete credentials: %w", err)
	}

	return nil
}
