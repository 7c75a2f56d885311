package integration

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nonstop-pack/internal/adapters"
	"nonstop-pack/internal/core"
	"nonstop-pack/internal/shared"
	"nonstop-pack/internal/types"
	"nonstop-pack/tests/testutil"
)

func newEngine() (core.ProvenanceEngine, adapters.VersionFileAdapter) {
	git := adapters.NewGitCLIAdapter()
	engine := core.NewProvenanceEngine(git, core.NewHistoryStrategy(git), core.ProvenanceConfig{})
	return engine, adapters.NewVersionFileAdapter(adapters.NewGlobMatcherAdapter())
}

func packageJSON(version string) string {
	return fmt.Sprintf("{\n  \"name\": \"svc\",\n  \"version\": \"%s\"\n}\n", version)
}

// TestBuildNumberFollowsHistory commits on top of a version declaration
// and checks the build number after every commit.
func TestBuildNumberFollowsHistory(t *testing.T) {
	repo := testutil.NewGitRepo(t, "svc")
	engine, versions := newEngine()

	buildNumber := func() (string, int) {
		t.Helper()
		decl, err := versions.Locate(repo.Dir)
		require.NoError(t, err)
		build, err := engine.BuildNumber(t.Context(), repo.Dir, decl)
		require.NoError(t, err)
		return decl.Version, build
	}

	repo.WriteFile("package.json", packageJSON("0.1.0"))
	repo.Commit("initial")
	var got []string
	record := func() {
		version, build := buildNumber()
		got = append(got, fmt.Sprintf("%s-%d", version, build))
	}
	record()

	repo.WriteFile("src/index.js", "module.exports = 1\n")
	repo.Commit("add source")
	record()
	repo.WriteFile("src/index.js", "module.exports = 2\n")
	repo.Commit("change source")
	record()

	repo.WriteFile("package.json", packageJSON("0.2.0"))
	repo.Commit("bump version")
	record()
	repo.WriteFile("README.md", "docs\n")
	repo.Commit("docs")
	record()

	want := []string{"0.1.0-1", "0.1.0-2", "0.1.0-3", "0.2.0-1", "0.2.0-2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected build numbers (-want +got):\n%s", diff)
	}
}

func TestIntroductionSearchIsScopedToVersionFile(t *testing.T) {
	repo := testutil.NewGitRepo(t, "svc")
	engine, versions := newEngine()

	repo.WriteFile("docs/CHANGELOG.md", "\"version\": \"1.0.0\"\n")
	repo.Commit("changelog mentions the version first")
	repo.WriteFile("package.json", packageJSON("1.0.0"))
	repo.Commit("declare version")

	decl, err := versions.Locate(repo.Dir)
	require.NoError(t, err)
	build, err := engine.BuildNumber(t.Context(), repo.Dir, decl)
	require.NoError(t, err)
	assert.Equal(t, 1, build)
}

func TestBuildNumberUncommittedVersion(t *testing.T) {
	repo := testutil.NewGitRepo(t, "svc")
	engine, versions := newEngine()

	repo.WriteFile("package.json", packageJSON("1.0.0"))
	repo.Commit("initial")
	repo.WriteFile("package.json", packageJSON("1.1.0"))

	decl, err := versions.Locate(repo.Dir)
	require.NoError(t, err)
	_, err = engine.BuildNumber(t.Context(), repo.Dir, decl)
	require.Error(t, err)
	assert.True(t, shared.HasMessagePrefix(err, shared.MsgProvenance))
}

func TestDescribeRealRepository(t *testing.T) {
	repo := testutil.NewGitRepo(t, "svc")
	engine, versions := newEngine()

	repo.WriteFile("rel/svc.app.src", "{application, svc, [{vsn, \"2.4.1\"}]}.\n")
	head := repo.Commit("initial")
	repo.Git("remote", "add", "origin", "https://github.com/acme/svc-core.git")

	decl, err := versions.Locate(repo.Dir)
	require.NoError(t, err)
	assert.Equal(t, types.EcosystemErlang, decl.Kind)

	info, err := engine.Describe(t.Context(), repo.Dir, decl)
	require.NoError(t, err)
	want := types.RepositoryInfo{
		Path:        repo.Dir,
		Owner:       "acme",
		Repository:  "svc-core",
		Branch:      "main",
		Commit:      head,
		Slug:        head[:8],
		BuildNumber: 1,
	}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Fatalf("unexpected repository info (-want +got):\n%s", diff)
	}
}

func TestIdentityDetachedHead(t *testing.T) {
	repo := testutil.NewGitRepo(t, "detached")
	engine, _ := newEngine()

	repo.WriteFile("README.md", "one\n")
	first := repo.Commit("one")
	repo.WriteFile("README.md", "two\n")
	repo.Commit("two")
	repo.Git("checkout", "--quiet", "--detach", first)

	identity, err := engine.Identity(t.Context(), repo.Dir)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultBranch, identity.Branch)
	assert.Equal(t, first, identity.Commit)
	assert.Equal(t, types.DefaultOwner, identity.Owner)
	assert.Equal(t, filepath.Base(repo.Dir), identity.Repository)
}
