package core

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"nonstop-pack/internal/ports"
	"nonstop-pack/internal/shared"
	"nonstop-pack/internal/types"
)

// DefaultQueryTimeout bounds every git query issued by the engine.
const DefaultQueryTimeout = 30 * time.Second

// ProvenanceConfig is fixed when the engine is constructed. BranchOverride
// carries the CI branch, if any; it is never read from the environment by
// the engine itself.
type ProvenanceConfig struct {
	BranchOverride string
	QueryTimeout   time.Duration
}

type ProvenanceEngine struct {
	VCS      ports.VCSPort
	Strategy ports.ProvenanceStrategy
	Config   ProvenanceConfig
}

func NewProvenanceEngine(vcs ports.VCSPort, strategy ports.ProvenanceStrategy, config ProvenanceConfig) ProvenanceEngine {
	if config.QueryTimeout <= 0 {
		config.QueryTimeout = DefaultQueryTimeout
	}
	return ProvenanceEngine{VCS: vcs, Strategy: strategy, Config: config}
}

var remotePattern = regexp.MustCompile(
	`^(?:(?:https?|ssh|git)://(?:[^@/]+@)?[^/:]+(?::\d+)?/|[^@\s/]+@[^:/]+:)(?:.*/)?([^/]+)/([^/]+?)(?:\.git)?/?$`,
)

// ParseRemote extracts owner and repository from a remote URL. Supported
// forms are scheme://[user@]host[:port]/owner/repo and user@host:owner/repo,
// each with an optional .git suffix.
func ParseRemote(url string) (string, string, bool) {
	matches := remotePattern.FindStringSubmatch(strings.TrimSpace(url))
	if matches == nil {
		return "", "", false
	}
	return matches[1], matches[2], true
}

func (e ProvenanceEngine) query(ctx context.Context, path string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout())
	defer cancel()
	out, err := e.VCS.Run(ctx, path, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (e ProvenanceEngine) timeout() time.Duration {
	if e.Config.QueryTimeout <= 0 {
		return DefaultQueryTimeout
	}
	return e.Config.QueryTimeout
}

// CurrentBranch returns the configured CI branch, else the checked-out
// branch, else the default branch.
func (e ProvenanceEngine) CurrentBranch(ctx context.Context, path string) string {
	if e.Config.BranchOverride != "" {
		return e.Config.BranchOverride
	}
	branch, err := e.query(ctx, path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil || branch == "" || branch == "HEAD" {
		log.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("branch unavailable, using default")
		return types.DefaultBranch
	}
	return branch
}

func (e ProvenanceEngine) CurrentCommit(ctx context.Context, path string) string {
	commit, err := e.query(ctx, path, "rev-parse", "HEAD")
	if err != nil || commit == "" {
		log.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("commit unavailable")
		return types.CommitNone
	}
	return commit
}

// RemoteOwnerAndRepo reads the origin remote. Without a parseable remote
// the owner is anonymous and the repository is named after path.
func (e ProvenanceEngine) RemoteOwnerAndRepo(ctx context.Context, path string) (string, string) {
	fallback := filepath.Base(path)
	url, err := e.query(ctx, path, "remote", "get-url", "origin")
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("no origin remote")
		return types.DefaultOwner, fallback
	}
	owner, repo, ok := ParseRemote(url)
	if !ok {
		log.Ctx(ctx).Debug().Str("remote", url).Msg("unrecognised remote url")
		return types.DefaultOwner, fallback
	}
	return owner, repo
}

// BuildNumber counts the commits from the one that introduced the declared
// version up to HEAD, the introducing commit included.
func (e ProvenanceEngine) BuildNumber(ctx context.Context, path string, decl types.VersionDeclaration) (int, error) {
	if e.Strategy == nil {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("provenance engine requires a strategy")
	}
	introCtx, cancel := context.WithTimeout(ctx, e.timeout())
	intro, err := e.Strategy.IntroducingCommit(introCtx, path, decl)
	cancel()
	if err != nil {
		return 0, err
	}
	countCtx, cancel := context.WithTimeout(ctx, e.timeout())
	defer cancel()
	since, err := e.Strategy.CommitsSince(countCtx, path, intro)
	if err != nil {
		return 0, err
	}
	build := since + 1
	log.Ctx(ctx).Debug().
		Str("version", decl.Version).
		Str("introduced", intro.SHA).
		Int("build", build).
		Msg("build number derived")
	return build, nil
}

func resolveRepositoryPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", shared.InvalidPathError(path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", shared.InvalidPathError(path, err)
	}
	if !info.IsDir() {
		return "", shared.InvalidPathError(path, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("not a directory"))
	}
	return abs, nil
}

// Identity resolves branch, commit and remote concurrently. Each part
// falls back to its default, so only an invalid path fails.
func (e ProvenanceEngine) Identity(ctx context.Context, path string) (types.RepositoryIdentity, error) {
	abs, err := resolveRepositoryPath(path)
	if err != nil {
		return types.RepositoryIdentity{}, err
	}
	identity := types.RepositoryIdentity{Path: abs}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		identity.Branch = e.CurrentBranch(gctx, abs)
		return nil
	})
	g.Go(func() error {
		identity.Commit = e.CurrentCommit(gctx, abs)
		return nil
	})
	g.Go(func() error {
		identity.Owner, identity.Repository = e.RemoteOwnerAndRepo(gctx, abs)
		return nil
	})
	if err := g.Wait(); err != nil {
		return types.RepositoryIdentity{}, err
	}
	return identity, nil
}

// Describe joins the repository identity with the build number of decl.
// Unlike Identity, a failed build-number derivation is returned.
func (e ProvenanceEngine) Describe(ctx context.Context, path string, decl types.VersionDeclaration) (types.RepositoryInfo, error) {
	abs, err := resolveRepositoryPath(path)
	if err != nil {
		return types.RepositoryInfo{}, err
	}
	var (
		identity types.RepositoryIdentity
		build    int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		identity, err = e.Identity(gctx, abs)
		return err
	})
	g.Go(func() error {
		var err error
		build, err = e.BuildNumber(gctx, abs, decl)
		return err
	})
	if err := g.Wait(); err != nil {
		return types.RepositoryInfo{}, err
	}
	return types.RepositoryInfo{
		Path:        identity.Path,
		Owner:       identity.Owner,
		Repository:  identity.Repository,
		Branch:      identity.Branch,
		Commit:      identity.Commit,
		Slug:        identity.Slug(),
		BuildNumber: build,
	}, nil
}
