package core

import (
	"context"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"nonstop-pack/internal/ports"
	"nonstop-pack/internal/shared"
	"nonstop-pack/internal/types"
)

// HistoryStrategy derives provenance by searching git history for the
// commit that first added the version declaration.
type HistoryStrategy struct {
	VCS ports.VCSPort
}

var _ ports.ProvenanceStrategy = HistoryStrategy{}

func NewHistoryStrategy(vcs ports.VCSPort) HistoryStrategy {
	return HistoryStrategy{VCS: vcs}
}

// IntroducingCommit returns the oldest commit whose diff changed the
// number of lines matching the version template. If the same version was
// removed and added back later, the oldest addition still wins.
func (s HistoryStrategy) IntroducingCommit(ctx context.Context, repoPath string, decl types.VersionDeclaration) (types.CommitIntroduction, error) {
	out, err := s.VCS.Run(ctx, repoPath,
		"log",
		"-S"+Template(decl.Kind, decl.Version),
		"--pickaxe-regex",
		"--format=%H|%ct",
		"--",
		decl.FilePath,
	)
	if err != nil {
		return types.CommitIntroduction{}, err
	}
	lines := shared.NonEmptyLines(out)
	if len(lines) == 0 {
		return types.CommitIntroduction{}, shared.ProvenanceError(decl.FilePath, decl.Version)
	}
	sha, stamp, ok := strings.Cut(lines[len(lines)-1], "|")
	if !ok {
		return types.CommitIntroduction{}, shared.ProvenanceError(decl.FilePath, decl.Version)
	}
	timestamp, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return types.CommitIntroduction{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("unexpected commit timestamp " + strconv.Quote(stamp)).
			WithCause(err)
	}
	return types.CommitIntroduction{SHA: sha, Timestamp: timestamp}, nil
}

// CommitsSince counts the commits reachable from HEAD but not from the
// introducing commit, committed no earlier than it.
func (s HistoryStrategy) CommitsSince(ctx context.Context, repoPath string, intro types.CommitIntroduction) (int, error) {
	out, err := s.VCS.Run(ctx, repoPath,
		"log",
		"--since="+strconv.FormatInt(intro.Timestamp, 10),
		intro.SHA+"..HEAD",
		"--format=%H",
	)
	if err != nil {
		return 0, err
	}
	return len(shared.NonEmptyLines(out)), nil
}
