package adapters

import (
	"runtime"

	"nonstop-pack/internal/ports"
	"nonstop-pack/internal/types"
)

const anyOS = "any"

// architectureNames keeps artifact names compatible with hosts that report
// x64 and ia32.
var architectureNames = map[string]string{
	"amd64": "x64",
	"386":   "ia32",
}

// HostPlatformAdapter describes the machine the packager runs on.
type HostPlatformAdapter struct {
	GOOS   string
	GOARCH string
}

func NewHostPlatformAdapter() HostPlatformAdapter {
	return HostPlatformAdapter{GOOS: runtime.GOOS, GOARCH: runtime.GOARCH}
}

func (a HostPlatformAdapter) Describe(os types.OSConfig) types.PlatformInfo {
	arch := a.GOARCH
	if mapped, ok := architectureNames[arch]; ok {
		arch = mapped
	}
	info := types.PlatformInfo{
		Platform:     a.GOOS,
		Architecture: arch,
		OSName:       os.Name,
		OSVersion:    os.Version,
	}
	if info.OSName == "" {
		info.OSName = anyOS
	}
	if info.OSVersion == "" {
		info.OSVersion = anyOS
	}
	return info
}

var _ ports.PlatformPort = HostPlatformAdapter{}
