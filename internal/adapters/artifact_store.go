package adapters

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"nonstop-pack/internal/core"
	"nonstop-pack/internal/ports"
	"nonstop-pack/internal/shared"
	"nonstop-pack/internal/types"
)

// ArtifactStoreAdapter keeps artifacts under root/project-owner-branch.
type ArtifactStoreAdapter struct {
	Matcher ports.FileMatcherPort
}

func NewArtifactStoreAdapter(matcher ports.FileMatcherPort) ArtifactStoreAdapter {
	return ArtifactStoreAdapter{Matcher: matcher}
}

// Scan decodes every archive below root. A single malformed file name
// fails the whole scan. A missing root is an empty store.
func (a ArtifactStoreAdapter) Scan(ctx context.Context, root string) ([]types.ArtifactRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return []types.ArtifactRecord{}, nil
	}
	files, err := a.Matcher.Expand(root, []string{"**/*" + types.ArtifactExtension}, nil)
	if err != nil {
		return nil, err
	}
	records := make([]types.ArtifactRecord, 0, len(files))
	for _, file := range files {
		record, err := core.Decode(root, filepath.Base(file), filepath.Dir(file))
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	log.Debug().Str("root", root).Int("artifacts", len(records)).Msg("artifact store scanned")
	return records, nil
}

// Ingest moves an uploaded file into its canonical location, replacing any
// artifact already stored under the same name.
func (a ArtifactStoreAdapter) Ingest(ctx context.Context, root string, source string, name string) (types.ArtifactRecord, error) {
	if err := ctx.Err(); err != nil {
		return types.ArtifactRecord{}, err
	}
	record, err := core.Decode(root, name, "")
	if err != nil {
		return types.ArtifactRecord{}, err
	}
	if _, err := os.Stat(source); err != nil {
		return types.ArtifactRecord{}, shared.ArtifactNotFoundError(source, err)
	}
	if err := os.MkdirAll(record.Directory, 0755); err != nil {
		return types.ArtifactRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create artifact directory").
			WithCause(err)
	}
	if err := moveFile(source, record.FullPath); err != nil {
		return types.ArtifactRecord{}, err
	}
	return record, nil
}

// Promote copies a numbered artifact to its release name. The numbered
// artifact stays in place.
func (a ArtifactStoreAdapter) Promote(ctx context.Context, root string, record types.ArtifactRecord) (types.ArtifactRecord, error) {
	if err := ctx.Err(); err != nil {
		return types.ArtifactRecord{}, err
	}
	release, err := core.Release(record)
	if err != nil {
		return types.ArtifactRecord{}, err
	}
	if err := copyFile(record.FullPath, release.FullPath); err != nil {
		return types.ArtifactRecord{}, err
	}
	return release, nil
}

// InstalledVersions lists the immediate subdirectories of dir, sorted by
// name. A missing dir has no installed versions.
func (a ArtifactStoreAdapter) InstalledVersions(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read installed directory").
			WithCause(err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func moveFile(srcPath string, destPath string) error {
	if err := os.Rename(srcPath, destPath); err == nil {
		return nil
	}
	// Rename fails across filesystems; fall back to copy and delete.
	if err := copyFile(srcPath, destPath); err != nil {
		return err
	}
	if err := os.Remove(srcPath); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to remove ingested source").
			WithCause(err)
	}
	return nil
}

func copyFile(srcPath string, destPath string) error {
	srcFile, err := os.Open(srcPath)
	if err != nil {
		return shared.ArtifactNotFoundError(srcPath, err)
	}
	defer srcFile.Close()
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create destination directory").
			WithCause(err)
	}
	destFile, err := os.Create(destPath)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create destination artifact").
			WithCause(err)
	}
	if _, err := io.Copy(destFile, srcFile); err != nil {
		destFile.Close()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to copy artifact").
			WithCause(err)
	}
	if err := destFile.Close(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to copy artifact").
			WithCause(err)
	}
	return nil
}

var _ ports.ArtifactStorePort = ArtifactStoreAdapter{}
