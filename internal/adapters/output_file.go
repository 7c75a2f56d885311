package adapters

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"nonstop-pack/internal/ports"
	"nonstop-pack/internal/types"
)

// InfoFileAdapter reads and writes the metadata sidecar that records which
// artifact an extraction directory was unpacked from.
type InfoFileAdapter struct{}

func NewInfoFileAdapter() InfoFileAdapter {
	return InfoFileAdapter{}
}

func (a InfoFileAdapter) WriteInfo(dir string, record types.ArtifactRecord) error {
	path, err := a.ensurePath(dir)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode artifact info").
			WithCause(err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write artifact info").
			WithCause(err)
	}
	return nil
}

func (a InfoFileAdapter) ensurePath(dir string) (string, error) {
	if dir == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	return filepath.Join(dir, types.InfoFileName), nil
}

var _ ports.InfoWriterPort = InfoFileAdapter{}
