package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"nonstop-pack/internal/adapters"
	"nonstop-pack/internal/core"
	"nonstop-pack/internal/shared"
	"nonstop-pack/internal/types"
)

const testCommit = "abcdef1234567890abcdef1234567890abcdef12"

// stubVCS answers git queries from a fixed table keyed by the joined
// arguments. Unknown queries fail like a git error.
type stubVCS struct {
	mu      sync.Mutex
	outputs map[string]string
}

func (s *stubVCS) Run(_ context.Context, _ string, args ...string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, ok := s.outputs[strings.Join(args, " ")]
	if !ok {
		return "", shared.GitCommandError(args, errors.New("exit status 128"))
	}
	return out, nil
}

func newStubVCS() *stubVCS {
	return &stubVCS{outputs: map[string]string{
		"rev-parse --abbrev-ref HEAD": "main\n",
		"rev-parse HEAD":              testCommit + "\n",
		"remote get-url origin":       "git@github.com:owner1/proj1.git\n",
	}}
}

// stubStrategy reports a fixed build number for any declaration.
type stubStrategy struct {
	since int
	err   error
}

func (s stubStrategy) IntroducingCommit(context.Context, string, types.VersionDeclaration) (types.CommitIntroduction, error) {
	if s.err != nil {
		return types.CommitIntroduction{}, s.err
	}
	return types.CommitIntroduction{SHA: testCommit, Timestamp: 1700000000}, nil
}

func (s stubStrategy) CommitsSince(context.Context, string, types.CommitIntroduction) (int, error) {
	return s.since, nil
}

func newTestService(vcs *stubVCS, strategy stubStrategy) Service {
	svc := NewService()
	svc.VCS = vcs
	svc.Strategy = strategy
	svc.Platform = adapters.HostPlatformAdapter{GOOS: "linux", GOARCH: "amd64"}
	svc.Provenance = core.ProvenanceConfig{}
	return svc
}

func writeFile(t *testing.T, base string, rel string, content string) string {
	t.Helper()
	path := filepath.Join(base, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
