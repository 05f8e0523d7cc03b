package interp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRedirectTruncates(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(target, []byte("old contents"), 0600))

	for _, op := range []Op{OpStdout, OpStderr, OpStdoutStderr} {
		f, err := openRedirect(op, target)
		require.NoError(t, err)
		f.Close()

		info, err := os.Stat(target)
		require.NoError(t, err)
		assert.Zero(t, info.Size())
	}
}

func TestOpenRedirectAppends(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.txt")

	for i := 0; i < 2; i++ {
		f, err := openRedirect(OpAppend, target)
		require.NoError(t, err)
		_, err = f.WriteString("x")
		require.NoError(t, err)
		f.Close()
	}

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "xx", string(data))
}

func TestOpenRedirectCreatesOwnerOnly(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.txt")

	f, err := openRedirect(OpStdout, target)
	require.NoError(t, err)
	f.Close()

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(redirectPerm), info.Mode().Perm())
}

func TestOpenRedirectStdinRequiresFile(t *testing.T) {
	_, err := openRedirect(OpStdin, filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitRedirect, ExitCode(err))
}

func TestRebind(t *testing.T) {
	base := Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
	f, err := os.CreateTemp(t.TempDir(), "target")
	require.NoError(t, err)
	defer f.Close()

	out := rebind(base, OpStdout, f)
	assert.Equal(t, f, out.Out)
	assert.Equal(t, base.In, out.In)
	assert.Equal(t, base.Err, out.Err)

	appended := rebind(base, OpAppend, f)
	assert.Equal(t, f, appended.Out)

	errOnly := rebind(base, OpStderr, f)
	assert.Equal(t, f, errOnly.Err)
	assert.Equal(t, base.Out, errOnly.Out)

	both := rebind(base, OpStdoutStderr, f)
	assert.Equal(t, f, both.Out)
	assert.Equal(t, f, both.Err)

	in := rebind(base, OpStdin, f)
	assert.Equal(t, f, in.In)
}
