package cli

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"citedeck/internal/config"
	"citedeck/internal/host"
	"citedeck/internal/reference"
)

// Test doubles shared by the command tests.

type stubClient struct {
	items   map[string]reference.Item
	results []reference.Item
	err     error
}

func (s *stubClient) Search(_ context.Context, _ string) ([]reference.Item, error) {
	return s.results, s.err
}

func (s *stubClient) Get(_ context.Context, key string) (reference.Item, error) {
	if s.err != nil {
		return reference.Item{}, s.err
	}

	item, ok := s.items[key]
	if !ok {
		return reference.Item{}, &reference.SourceError{Op: "get", Key: key, Err: reference.ErrNotFound}
	}

	return item, nil
}

type stubPrompter struct {
	result config.PromptResult
	err    error
	calls  int
}

func (s *stubPrompter) PromptCredentials() (config.PromptResult, error) {
	s.calls++

	return s.result, s.err
}

// depsWith wires a prepared fake session and stub client into Deps.
func depsWith(sess *host.Fake, client reference.Client, prompter config.Prompter) Deps {
	return Deps{
		NewSession: func() host.Session { return sess },
		NewClient: func(_ config.Credentials, _ *zap.Logger) reference.Client {
			return client
		},
		Prompter: prompter,
	}
}

// credsEnv is a complete environment override.
func credsEnv() []string {
	return []string{
		config.EnvAPIKey + "=env-secret-key",
		config.EnvLibraryID + "=12345",
		config.EnvLibraryType + "=user",
	}
}

type runResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(deps Deps, environ []string, args ...string) runResult {
	var out, errOut strings.Builder

	argv := append([]string{"citedeck"}, args...)
	code := Run(strings.NewReader(""), &out, &errOut, argv, environ, deps)

	return runResult{code: code, stdout: out.String(), stderr: errOut.String()}
}
