package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Test helpers.

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	err = os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func storeAt(t *testing.T, content string) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "credentials.json")
	if content != "" {
		writeFile(t, path, content)
	}

	return NewStore(path)
}

func fullEnv() []string {
	return []string{
		"ZOTERO_API_KEY=env-key",
		"ZOTERO_LIBRARY_ID=999",
		"ZOTERO_LIBRARY_TYPE=group",
	}
}

const fileJSON = `{"api_key": "k1", "library_id": "123", "library_type": "user"}`

type fakePrompter struct {
	result PromptResult
	err    error
	calls  int
}

func (p *fakePrompter) PromptCredentials() (PromptResult, error) {
	p.calls++

	return p.result, p.err
}

// Validation.

func TestValidate_FieldErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		creds Credentials
		field string
	}{
		{"empty api key", Credentials{LibraryID: "1", LibraryType: LibraryUser}, "api_key"},
		{"whitespace api key", Credentials{APIKey: "  ", LibraryID: "1", LibraryType: LibraryUser}, "api_key"},
		{"empty library id", Credentials{APIKey: "k", LibraryType: LibraryUser}, "library_id"},
		{"non-numeric library id", Credentials{APIKey: "k", LibraryID: "12a", LibraryType: LibraryUser}, "library_id"},
		{"bad library type", Credentials{APIKey: "k", LibraryID: "1", LibraryType: "shared"}, "library_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.creds.Normalize().Validate()

			var cfgErr *Error
			if !errors.As(err, &cfgErr) {
				t.Fatalf("want *Error, got %v", err)
			}

			if cfgErr.Field != tt.field {
				t.Errorf("field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestValidate_ErrorNeverContainsSecret(t *testing.T) {
	t.Parallel()

	creds := Credentials{APIKey: "super-secret-key", LibraryID: "", LibraryType: LibraryUser}

	err := creds.Validate()
	if err == nil {
		t.Fatal("want error")
	}

	if strings.Contains(err.Error(), "super-secret-key") {
		t.Errorf("error message leaks the secret: %q", err.Error())
	}
}

func TestNormalize_LibraryTypeCaseInsensitive(t *testing.T) {
	t.Parallel()

	creds := Credentials{APIKey: "k", LibraryID: "1", LibraryType: "GROUP"}.Normalize()

	if creds.LibraryType != LibraryGroup {
		t.Errorf("library type = %q, want %q", creds.LibraryType, LibraryGroup)
	}

	if err := creds.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

// Store.

func TestStore_LoadMissingFileIsNotAnError(t *testing.T) {
	t.Parallel()

	store := storeAt(t, "")

	_, found, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if found {
		t.Error("found = true for missing file")
	}
}

func TestStore_LoadToleratesCommentsAndTrailingCommas(t *testing.T) {
	t.Parallel()

	store := storeAt(t, `{
		// hand-edited
		"api_key": "k1",
		"library_id": "123",
		"library_type": "user",
	}`)

	creds, found, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !found {
		t.Fatal("found = false")
	}

	if creds.APIKey != "k1" || creds.LibraryID != "123" {
		t.Errorf("unexpected credentials: %+v", creds)
	}
}

func TestStore_LoadDefaultsLibraryType(t *testing.T) {
	t.Parallel()

	store := storeAt(t, `{"api_key": "k1", "library_id": "123"}`)

	creds, found, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !found || creds.LibraryType != LibraryUser {
		t.Errorf("library type = %q, want %q", creds.LibraryType, LibraryUser)
	}
}

func TestStore_LoadGarbageReportsUnreadable(t *testing.T) {
	t.Parallel()

	store := storeAt(t, `{not json`)

	_, _, err := store.Load()
	if !errors.Is(err, ErrFileUnreadable) {
		t.Errorf("want ErrFileUnreadable, got %v", err)
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store := storeAt(t, "")

	want := Credentials{APIKey: "k2", LibraryID: "456", LibraryType: LibraryGroup, Source: SourcePrompt}

	err := store.Save(want)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, found, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !found {
		t.Fatal("found = false after save")
	}

	// Source is metadata: never persisted, always reported as file on load.
	want.Source = SourceFile
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("credentials mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_SaveRejectsInvalid(t *testing.T) {
	t.Parallel()

	store := storeAt(t, "")

	err := store.Save(Credentials{APIKey: "k", LibraryID: "abc", LibraryType: LibraryUser})
	if err == nil {
		t.Fatal("want error for non-numeric library id")
	}

	if _, statErr := os.Stat(store.Path()); !os.IsNotExist(statErr) {
		t.Error("invalid save must not create the file")
	}
}

func TestStore_SaveSetsOwnerOnlyPerms(t *testing.T) {
	t.Parallel()

	store := storeAt(t, "")

	err := store.Save(Credentials{APIKey: "k", LibraryID: "1", LibraryType: LibraryUser})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	store := storeAt(t, fileJSON)

	if err := store.Delete(); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if err := store.Delete(); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestDefaultPath_HonorsXDGConfigHome(t *testing.T) {
	t.Parallel()

	path, err := DefaultPath([]string{"XDG_CONFIG_HOME=/tmp/xdg"})
	if err != nil {
		t.Fatalf("default path: %v", err)
	}

	want := filepath.Join("/tmp/xdg", "citedeck", "credentials.json")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
}

// Resolver precedence.

func TestResolve_EnvWinsOverFileAndPrompt(t *testing.T) {
	t.Parallel()

	store := storeAt(t, fileJSON)
	prompter := &fakePrompter{result: PromptResult{OK: true}}
	resolver := NewResolver(store, prompter, fullEnv(), nil)

	creds, err := resolver.Resolve(true)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if creds.Source != SourceEnv {
		t.Errorf("source = %q, want env", creds.Source)
	}

	if creds.APIKey != "env-key" || creds.LibraryID != "999" || creds.LibraryType != LibraryGroup {
		t.Errorf("unexpected credentials: %+v", creds)
	}

	if prompter.calls != 0 {
		t.Error("prompt must not run when env resolves")
	}
}

func TestResolve_PartialEnvBehavesAsUnset(t *testing.T) {
	t.Parallel()

	store := storeAt(t, fileJSON)
	resolver := NewResolver(store, nil, []string{"ZOTERO_LIBRARY_ID=999"}, nil)

	creds, err := resolver.Resolve(false)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if creds.Source != SourceFile {
		t.Errorf("source = %q, want file", creds.Source)
	}

	if creds.LibraryID != "123" {
		t.Errorf("library id = %q, want the file value, never a per-field merge", creds.LibraryID)
	}
}

func TestResolve_EmptyStringEnvCountsAsUnset(t *testing.T) {
	t.Parallel()

	store := storeAt(t, fileJSON)
	env := []string{"ZOTERO_API_KEY=", "ZOTERO_LIBRARY_ID=", "ZOTERO_LIBRARY_TYPE="}
	resolver := NewResolver(store, nil, env, nil)

	creds, err := resolver.Resolve(false)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if creds.Source != SourceFile {
		t.Errorf("source = %q, want file", creds.Source)
	}
}

func TestResolve_CompleteEnvWithBadValueFailsHard(t *testing.T) {
	t.Parallel()

	store := storeAt(t, fileJSON)
	env := []string{"ZOTERO_API_KEY=k", "ZOTERO_LIBRARY_ID=1", "ZOTERO_LIBRARY_TYPE=shared"}
	resolver := NewResolver(store, nil, env, nil)

	_, err := resolver.Resolve(false)

	var cfgErr *Error
	if !errors.As(err, &cfgErr) || cfgErr.Field != "library_type" {
		t.Fatalf("want library_type error, got %v", err)
	}
}

func TestResolve_FileOnly(t *testing.T) {
	t.Parallel()

	store := storeAt(t, fileJSON)
	resolver := NewResolver(store, nil, nil, nil)

	creds, err := resolver.Resolve(false)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	want := Credentials{APIKey: "k1", LibraryID: "123", LibraryType: LibraryUser, Source: SourceFile}
	if diff := cmp.Diff(want, creds); diff != "" {
		t.Errorf("credentials mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_NoSourcesNoPrompt(t *testing.T) {
	t.Parallel()

	store := storeAt(t, "")
	resolver := NewResolver(store, nil, nil, nil)

	_, err := resolver.Resolve(false)
	if !errors.Is(err, ErrNoCredentials) {
		t.Errorf("want ErrNoCredentials, got %v", err)
	}
}

func TestResolve_PromptCancelled(t *testing.T) {
	t.Parallel()

	store := storeAt(t, "")
	prompter := &fakePrompter{result: PromptResult{OK: false}}
	resolver := NewResolver(store, prompter, nil, nil)

	_, err := resolver.Resolve(true)
	if !errors.Is(err, ErrPromptCancelled) {
		t.Errorf("want ErrPromptCancelled, got %v", err)
	}
}

func TestResolve_PromptSessionOnlyDoesNotPersist(t *testing.T) {
	t.Parallel()

	store := storeAt(t, "")
	prompter := &fakePrompter{result: PromptResult{
		Credentials: Credentials{APIKey: "pk", LibraryID: "7", LibraryType: LibraryUser},
		Persist:     false,
		OK:          true,
	}}
	resolver := NewResolver(store, prompter, nil, nil)

	creds, err := resolver.Resolve(true)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if creds.Source != SourcePrompt {
		t.Errorf("source = %q, want prompt", creds.Source)
	}

	if _, statErr := os.Stat(store.Path()); !os.IsNotExist(statErr) {
		t.Error("session-only prompt must not write the credential file")
	}
}

func TestResolve_PromptPersists(t *testing.T) {
	t.Parallel()

	store := storeAt(t, "")
	prompter := &fakePrompter{result: PromptResult{
		Credentials: Credentials{APIKey: "pk", LibraryID: "7", LibraryType: LibraryGroup},
		Persist:     true,
		OK:          true,
	}}
	resolver := NewResolver(store, prompter, nil, nil)

	_, err := resolver.Resolve(true)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	saved, found, err := store.Load()
	if err != nil || !found {
		t.Fatalf("load after persist: found=%v err=%v", found, err)
	}

	if saved.APIKey != "pk" || saved.LibraryID != "7" || saved.LibraryType != LibraryGroup {
		t.Errorf("persisted credentials mismatch: %+v", saved)
	}
}
