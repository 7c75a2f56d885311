package adapters

import (
	"archive/tar"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/blake3"

	"nonstop-pack/internal/ports"
)

// TarGzAdapter reads and writes gzip-compressed tar archives.
type TarGzAdapter struct {
	Level int
}

func NewTarGzAdapter() TarGzAdapter {
	return TarGzAdapter{Level: gzip.BestCompression}
}

// Write streams entries into a temporary file beside target and renames it
// into place once complete, so target never holds a partial archive.
func (a TarGzAdapter) Write(ctx context.Context, entries []ports.ArchiveEntry, target string) (string, error) {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create archive directory").
			WithCause(err)
	}
	tmp := filepath.Join(dir, "."+uuid.NewString()+".partial")
	file, err := os.Create(tmp)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create archive").
			WithCause(err)
	}
	digest, err := a.stream(ctx, file, entries)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to write archive %s", target)).
			WithCause(err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to finalize archive").
			WithCause(err)
	}
	log.Debug().Str("archive", target).Int("files", len(entries)).Str("blake3", digest).Msg("archive written")
	return digest, nil
}

func (a TarGzAdapter) stream(ctx context.Context, out io.Writer, entries []ports.ArchiveEntry) (string, error) {
	hasher := blake3.New()
	level := a.Level
	if level == 0 {
		level = gzip.BestCompression
	}
	gz, err := gzip.NewWriterLevel(io.MultiWriter(out, hasher), level)
	if err != nil {
		return "", err
	}
	tw := tar.NewWriter(gz)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := addTarEntry(tw, entry); err != nil {
			return "", err
		}
	}
	if err := tw.Close(); err != nil {
		return "", err
	}
	if err := gz.Close(); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func addTarEntry(tw *tar.Writer, entry ports.ArchiveEntry) error {
	info, err := os.Stat(entry.Path)
	if err != nil {
		return err
	}
	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = filepath.ToSlash(entry.Name)
	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}
	src, err := os.Open(entry.Path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(tw, src)
	return err
}

// Extract unpacks source into targetDir. Entries that would land outside
// targetDir are rejected; links and device files are skipped.
func (a TarGzAdapter) Extract(ctx context.Context, source string, targetDir string) error {
	file, err := os.Open(source)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to open archive").
			WithCause(err)
	}
	defer file.Close()
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create extraction directory").
			WithCause(err)
	}
	if err := extractTarGz(ctx, file, targetDir); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to extract %s", source)).
			WithCause(err)
	}
	return nil
}

func extractTarGz(ctx context.Context, in io.Reader, targetDir string) error {
	gz, err := gzip.NewReader(in)
	if err != nil {
		return err
	}
	defer gz.Close()
	root := filepath.Clean(targetDir)
	reader := tar.NewReader(gz)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		dest := filepath.Join(root, filepath.FromSlash(header.Name))
		if dest != root && !strings.HasPrefix(dest, root+string(filepath.Separator)) {
			return fmt.Errorf("entry %q escapes extraction directory", header.Name)
		}
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeExtracted(reader, dest, header.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		default:
			log.Debug().Str("entry", header.Name).Msg("skipping non-regular archive entry")
		}
	}
}

func writeExtracted(reader io.Reader, dest string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode|0200)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, reader); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

var (
	_ ports.ArchiveWriterPort = TarGzAdapter{}
	_ ports.ArchiveReaderPort = TarGzAdapter{}
)
