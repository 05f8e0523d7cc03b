package core

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllBuiltinsRegistered(t *testing.T) {
	for _, name := range []string{"ls", "rm", "cd", "pwd", "history", "help", "exit"} {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, AllBuiltins, name)
		})
	}
}

func TestLs(t *testing.T) {
	sh, out, _ := newTestShell(t)
	require.NoError(t, afero.WriteFile(sh.fs, "/dir/visible.txt", nil, 0600))
	require.NoError(t, afero.WriteFile(sh.fs, "/dir/.hidden", nil, 0600))

	t.Run("default hides dotfiles", func(t *testing.T) {
		out.Reset()
		assert.Equal(t, 0, Ls(sh, []string{"ls", "/dir"}))
		assert.Equal(t, "visible.txt\n", out.String())
	})

	t.Run("-a shows dotfiles", func(t *testing.T) {
		out.Reset()
		assert.Equal(t, 0, Ls(sh, []string{"ls", "-a", "/dir"}))
		assert.Equal(t, ".hidden\nvisible.txt\n", out.String())
	})

	t.Run("missing directory", func(t *testing.T) {
		sh, _, errOut := newTestShell(t)
		assert.Equal(t, 1, Ls(sh, []string{"ls", "/nope"}))
		assert.Contains(t, errOut.String(), "ls:")
	})
}

func TestRm(t *testing.T) {
	t.Run("removes files", func(t *testing.T) {
		sh, _, _ := newTestShell(t)
		require.NoError(t, afero.WriteFile(sh.fs, "/a.txt", nil, 0600))
		require.NoError(t, afero.WriteFile(sh.fs, "/b.txt", nil, 0600))

		assert.Equal(t, 0, Rm(sh, []string{"rm", "/a.txt", "/b.txt"}))

		for _, name := range []string{"/a.txt", "/b.txt"} {
			exists, err := afero.Exists(sh.fs, name)
			require.NoError(t, err)
			assert.False(t, exists)
		}
	})

	t.Run("missing operand", func(t *testing.T) {
		sh, _, errOut := newTestShell(t)
		assert.Equal(t, 1, Rm(sh, []string{"rm"}))
		assert.Contains(t, errOut.String(), "missing operand")
	})

	t.Run("missing file", func(t *testing.T) {
		sh, _, errOut := newTestShell(t)
		assert.Equal(t, 1, Rm(sh, []string{"rm", "/nope"}))
		assert.Contains(t, errOut.String(), "rm:")
	})

	t.Run("force ignores missing files", func(t *testing.T) {
		sh, _, errOut := newTestShell(t)
		assert.Equal(t, 0, Rm(sh, []string{"rm", "-f", "/nope"}))
		assert.Empty(t, errOut.String())
	})
}

func TestHistory(t *testing.T) {
	sh, out, _ := newTestShell(t)
	sh.history = []string{"/bin/ls -l", "/bin/echo hi"}

	assert.Equal(t, 0, History(sh, []string{"history"}))
	assert.Contains(t, out.String(), "1  /bin/ls -l")
	assert.Contains(t, out.String(), "2  /bin/echo hi")

	assert.Equal(t, 0, History(sh, []string{"history", "-c"}))
	assert.Empty(t, sh.history)
}

func TestPwd(t *testing.T) {
	sh, out, _ := newTestShell(t)

	assert.Equal(t, 0, Pwd(sh, []string{"pwd"}))
	assert.NotEmpty(t, bytes.TrimSpace(out.Bytes()))
}

func TestHelpGolden(t *testing.T) {
	sh, out, _ := newTestShell(t)

	assert.Equal(t, 0, Help(sh, []string{"help"}))

	g := goldie.New(t)
	g.Assert(t, "help", out.Bytes())
}
