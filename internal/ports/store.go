package ports

import (
	"context"

	"nonstop-pack/internal/types"
)

// ArtifactStorePort owns the on-disk layout of an artifact root.
type ArtifactStorePort interface {
	Scan(ctx context.Context, root string) ([]types.ArtifactRecord, error)
	Ingest(ctx context.Context, root string, source string, name string) (types.ArtifactRecord, error)
	Promote(ctx context.Context, root string, record types.ArtifactRecord) (types.ArtifactRecord, error)
	InstalledVersions(dir string) ([]string, error)
}

// InfoWriterPort writes the metadata sidecar into an extraction target.
type InfoWriterPort interface {
	WriteInfo(dir string, record types.ArtifactRecord) error
	ReadInfo(dir string) (types.ArtifactRecord, error)
}
