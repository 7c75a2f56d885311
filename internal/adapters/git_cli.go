package adapters

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/rs/zerolog/log"

	"nonstop-pack/internal/ports"
	"nonstop-pack/internal/shared"
)

// GitCLIAdapter shells out to the git binary. Every command targets the
// working directory with -C; output goes to stdout only and stderr is
// folded into the error.
type GitCLIAdapter struct {
	Binary string
}

func NewGitCLIAdapter() GitCLIAdapter {
	return GitCLIAdapter{Binary: "git"}
}

func (a GitCLIAdapter) Run(ctx context.Context, dir string, args ...string) (string, error) {
	binary := a.Binary
	if binary == "" {
		binary = "git"
	}
	fullArgs := append([]string{"-C", dir}, args...)
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, fullArgs...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Keep git from paging or prompting for credentials.
	cmd.Env = append(cmd.Environ(), "GIT_TERMINAL_PROMPT=0", "GIT_PAGER=cat")

	log.Debug().Str("dir", dir).Strs("args", args).Msg("git")
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", shared.QueryTimeoutError(args, ctx.Err())
		}
		return "", shared.GitCommandError(args, shared.CommandError(stderr.Bytes(), err))
	}
	return stdout.String(), nil
}

var _ ports.VCSPort = GitCLIAdapter{}
