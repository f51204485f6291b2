package toolchain

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_InvokesBuildToolAndPassesOutputThrough(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on /bin/sh")
	}

	orig := execCommandContext
	defer func() { execCommandContext = orig }()

	var gotName string
	var gotArgs []string
	execCommandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		gotName = name
		gotArgs = args
		return exec.CommandContext(ctx, "/bin/sh", "-c", "echo building")
	}

	var stdout, stderr bytes.Buffer
	err := Build(context.Background(), "./build", &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "cmake", gotName)
	assert.Equal(t, []string{"--build", "./build"}, gotArgs)
	assert.Contains(t, stdout.String(), "building")
}

func TestBuild_NonZeroExitAbortsRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on /bin/sh")
	}

	orig := execCommandContext
	defer func() { execCommandContext = orig }()

	execCommandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "/bin/sh", "-c", "exit 2")
	}

	var stdout, stderr bytes.Buffer
	err := Build(context.Background(), "./build", &stdout, &stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "build of ./build failed")
}
