package app

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"nonstop-pack/internal/core"
	"nonstop-pack/internal/shared"
)

// Unpack extracts an artifact into Target and records its identity in the
// info sidecar. A failed extraction leaves no target directory behind.
func (s Service) Unpack(ctx context.Context, req UnpackRequest) (UnpackResult, error) {
	if strings.TrimSpace(req.Target) == "" {
		return UnpackResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unpack target is required")
	}
	archive, err := filepath.Abs(req.Archive)
	if err != nil {
		return UnpackResult{}, shared.InvalidPathError(req.Archive, err)
	}
	info, err := os.Stat(archive)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return UnpackResult{}, shared.ArtifactNotFoundError(archive, err)
		}
		return UnpackResult{}, shared.InvalidPathError(archive, err)
	}
	if info.IsDir() {
		return UnpackResult{}, shared.ArtifactNotFoundError(archive, errors.New("is a directory"))
	}
	dir := filepath.Dir(archive)
	record, err := core.Decode(dir, filepath.Base(archive), dir)
	if err != nil {
		return UnpackResult{}, err
	}
	if err := s.ArchiveReader.Extract(ctx, archive, req.Target); err != nil {
		if rmErr := os.RemoveAll(req.Target); rmErr != nil {
			log.Ctx(ctx).Debug().Err(rmErr).Str("target", req.Target).Msg("failed to clean up unpack target")
		}
		return UnpackResult{}, err
	}
	if err := s.InfoFile.WriteInfo(req.Target, record); err != nil {
		return UnpackResult{}, err
	}
	version := record.ComposedVersion()
	log.Ctx(ctx).Debug().
		Str("archive", archive).
		Str("target", req.Target).
		Str("version", version).
		Msg("artifact unpacked")
	return UnpackResult{Version: version, Record: record}, nil
}
