package ports

import "context"

// ArchiveEntry pairs a file on disk with its name inside the archive.
type ArchiveEntry struct {
	Path string
	Name string
}

// ArchiveWriterPort writes entries into a compressed archive at target and
// returns the hex digest of the archive bytes.
type ArchiveWriterPort interface {
	Write(ctx context.Context, entries []ArchiveEntry, target string) (string, error)
}

type ArchiveReaderPort interface {
	Extract(ctx context.Context, source string, targetDir string) error
}
