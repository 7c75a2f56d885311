package adapters

import (
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"nonstop-pack/internal/types"
)

func TestHostPlatformDescribe(t *testing.T) {
	tests := []struct {
		name    string
		adapter HostPlatformAdapter
		os      types.OSConfig
		want    types.PlatformInfo
	}{
		{
			name:    "defaults to any",
			adapter: HostPlatformAdapter{GOOS: "linux", GOARCH: "amd64"},
			want:    types.PlatformInfo{Platform: "linux", Architecture: "x64", OSName: "any", OSVersion: "any"},
		},
		{
			name:    "configured os",
			adapter: HostPlatformAdapter{GOOS: "darwin", GOARCH: "arm64"},
			os:      types.OSConfig{Name: "OSX", Version: "10.9.2"},
			want:    types.PlatformInfo{Platform: "darwin", Architecture: "arm64", OSName: "OSX", OSVersion: "10.9.2"},
		},
		{
			name:    "ia32",
			adapter: HostPlatformAdapter{GOOS: "windows", GOARCH: "386"},
			os:      types.OSConfig{Name: "windows"},
			want:    types.PlatformInfo{Platform: "windows", Architecture: "ia32", OSName: "windows", OSVersion: "any"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.adapter.Describe(tt.os)); diff != "" {
				t.Fatalf("unexpected platform (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewHostPlatformAdapter(t *testing.T) {
	info := NewHostPlatformAdapter().Describe(types.OSConfig{})
	assert.Equal(t, runtime.GOOS, info.Platform)
	assert.NotEmpty(t, info.Architecture)
}
