package shared

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Message prefixes identify each failure kind independently of the
// wrapped cause. The CLI and tests match on them.
const (
	MsgInvalidPath       = "invalid repository path"
	MsgCommandFailed     = "git command failed"
	MsgVersionNotFound   = "no supported version file"
	MsgVersionParse      = "failed to parse version"
	MsgNoFilesMatched    = "no files matched"
	MsgArtifactNotFound  = "artifact not found"
	MsgProvenance        = "cannot determine when version was introduced"
	MsgQueryTimeout      = "git query timed out"
	MsgMalformedArtifact = "malformed artifact name"
)

func InvalidPathError(path string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("%s %q", MsgInvalidPath, path)).
		WithCause(cause)
}

func GitCommandError(args []string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("%s: git %s", MsgCommandFailed, strings.Join(args, " "))).
		WithCause(cause)
}

func VersionNotFoundError(path string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("%s in %s", MsgVersionNotFound, path))
}

func VersionParseError(detail string, cause error) error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("%s: %s", MsgVersionParse, detail))
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return builder
}

func NoFilesMatchedError(pattern string, path string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("%s the pattern %q in path %q; no package was generated", MsgNoFilesMatched, pattern, path))
}

func ArtifactNotFoundError(path string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("%s: %s", MsgArtifactNotFound, path)).
		WithCause(cause)
}

func ProvenanceError(file string, version string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("%s: %s in %s", MsgProvenance, version, file))
}

func QueryTimeoutError(args []string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("%s: git %s", MsgQueryTimeout, strings.Join(args, " "))).
		WithCause(cause)
}

func MalformedArtifactError(name string, detail string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("%s %q: %s", MsgMalformedArtifact, name, detail))
}

// ErrorMessage returns the builder message when present, otherwise the
// full error text.
func ErrorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}

// HasMessagePrefix reports whether err carries the given message prefix.
func HasMessagePrefix(err error, prefix string) bool {
	if err == nil {
		return false
	}
	return strings.HasPrefix(ErrorMessage(err), prefix)
}
