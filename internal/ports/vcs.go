package ports

import (
	"context"

	"nonstop-pack/internal/types"
)

// VCSPort runs read-only git queries against a working directory.
type VCSPort interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ProvenanceStrategy derives a build number for the declared version.
// The git history strategy is the default; a precomputed build counter
// can be substituted without touching the codec or catalog.
type ProvenanceStrategy interface {
	IntroducingCommit(ctx context.Context, repoPath string, decl types.VersionDeclaration) (types.CommitIntroduction, error)
	CommitsSince(ctx context.Context, repoPath string, intro types.CommitIntroduction) (int, error)
}
