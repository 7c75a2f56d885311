//go:build integration

package integration

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcexec "github.com/testcontainers/testcontainers-go/exec"
	"github.com/testcontainers/testcontainers-go/wait"

	"nonstop-pack/internal/app"
)

const containerArtifact = "svc~acme~main~1.0.0~3~linux~alpine~3.20~x64.tar.gz"

// TestArchivesInteroperateWithSystemTar checks that artifacts written here
// extract with a stock tar, and that a stock tar archive unpacks here.
func TestArchivesInteroperateWithSystemTar(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers archive check in short mode")
	}
	ctx := t.Context()

	source := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(source, "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "bin", "svc"), []byte("#!/bin/sh\necho svc\n"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "svc.conf"), []byte("port=80\n"), 0644))
	archive := filepath.Join(t.TempDir(), containerArtifact)

	svc := app.NewService()
	_, err := svc.CreatePackage(ctx, app.CreatePackageRequest{Pattern: "**", Source: source, Target: archive})
	require.NoError(t, err)

	container, cleanup := startTarContainer(ctx, t, archive)
	t.Cleanup(cleanup)

	out := execInContainer(ctx, t, container, "sh", "-c", "mkdir -p /x && tar -xzf /in/"+containerArtifact+" -C /x && sh /x/bin/svc && cat /x/svc.conf")
	assert.Equal(t, "svc\nport=80\n", out)

	execInContainer(ctx, t, container, "sh", "-c", "mkdir -p /y/etc && echo native > /y/etc/native.txt && tar -czf /out.tar.gz -C /y .")
	reader, err := container.CopyFileFromContainer(ctx, "/out.tar.gz")
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	native := filepath.Join(t.TempDir(), containerArtifact)
	require.NoError(t, os.WriteFile(native, data, 0644))

	target := filepath.Join(t.TempDir(), "native")
	result, err := svc.Unpack(ctx, app.UnpackRequest{Archive: native, Target: target})
	require.NoError(t, err)
	assert.Equal(t, "1.0.0-3", result.Version)
	content, err := os.ReadFile(filepath.Join(target, "etc", "native.txt"))
	require.NoError(t, err)
	assert.Equal(t, "native\n", string(content))
}

func startTarContainer(ctx context.Context, t *testing.T, archive string) (testcontainers.Container, func()) {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image: "alpine:3.20",
		Cmd:   []string{"sleep", "300"},
		Files: []testcontainers.ContainerFile{{
			HostFilePath:      archive,
			ContainerFilePath: "/in/" + filepath.Base(archive),
			FileMode:          0644,
		}},
		WaitingFor: wait.ForExec([]string{"true"}).WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	cleanup := func() {
		_ = container.Terminate(context.Background())
	}
	return container, cleanup
}

func execInContainer(ctx context.Context, t *testing.T, container testcontainers.Container, cmd ...string) string {
	t.Helper()
	code, reader, err := container.Exec(ctx, cmd, tcexec.Multiplexed())
	require.NoError(t, err)
	output, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, 0, code, "%s: %s", strings.Join(cmd, " "), output)
	return string(output)
}
