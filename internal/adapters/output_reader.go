package adapters

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"nonstop-pack/internal/types"
)

// ReadInfo loads the sidecar written by WriteInfo.
func (a InfoFileAdapter) ReadInfo(dir string) (types.ArtifactRecord, error) {
	content, err := os.ReadFile(filepath.Join(dir, types.InfoFileName))
	if err != nil {
		return types.ArtifactRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(types.InfoFileName + " not found").
			WithCause(err)
	}
	var record types.ArtifactRecord
	if err := json.Unmarshal(content, &record); err != nil {
		return types.ArtifactRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid " + types.InfoFileName).
			WithCause(err)
	}
	return record, nil
}
