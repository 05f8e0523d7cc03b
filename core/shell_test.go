package core

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/earoland/Basic-Shell/core/config"
	"github.com/earoland/Basic-Shell/core/interp"
	"github.com/earoland/Basic-Shell/core/logger"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestShell builds a shell whose own output goes to buffers and whose
// child-process stream table is backed by temp files.
func newTestShell(t *testing.T) (*Shell, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	sh := &Shell{
		Config:     config.Default(),
		Supervisor: &Supervisor{},
		stdio:      testStdio(t),
		stdout:     out,
		stderr:     errOut,
		fs:         afero.NewMemMapFs(),
		log:        logger.NewJsonLinesLogRecorder(&bytes.Buffer{}).NewSession(),
	}
	return sh, out, errOut
}

func TestExecuteBlankLine(t *testing.T) {
	sh, out, errOut := newTestShell(t)

	assert.Equal(t, 0, sh.Execute("   "))
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestExecuteBuiltinDispatch(t *testing.T) {
	sh, out, _ := newTestShell(t)
	require.NoError(t, afero.WriteFile(sh.fs, "/work/a.txt", nil, 0600))
	require.NoError(t, afero.WriteFile(sh.fs, "/work/b.txt", nil, 0600))

	code := sh.Execute("ls /work")
	assert.Equal(t, 0, code)
	assert.Equal(t, "a.txt\nb.txt\n", out.String())
}

func TestExecuteExternalCommand(t *testing.T) {
	sh, _, _ := newTestShell(t)
	target := filepath.Join(t.TempDir(), "out.txt")

	code := sh.Execute("/bin/echo hello > " + target)
	assert.Equal(t, 0, code)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestExecutePipeline(t *testing.T) {
	sh, _, _ := newTestShell(t)
	target := filepath.Join(t.TempDir(), "out.txt")

	code := sh.Execute("/bin/echo hello | /bin/cat > " + target)
	assert.Equal(t, 0, code)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestExecuteReportsExitStatus(t *testing.T) {
	sh, _, errOut := newTestShell(t)

	code := sh.Execute("/bin/sh -c 'exit 7'")
	assert.Equal(t, 7, code)
	assert.Contains(t, errOut.String(), "exit status 7")
}

func TestExecuteSyntaxError(t *testing.T) {
	sh, _, errOut := newTestShell(t)

	code := sh.Execute("/bin/echo >")
	assert.Equal(t, interp.ExitSyntax, code)
	assert.Contains(t, errOut.String(), "syntax error")
}

func TestExecuteUnterminatedQuote(t *testing.T) {
	sh, _, errOut := newTestShell(t)

	code := sh.Execute(`/bin/echo "unterminated`)
	assert.Equal(t, interp.ExitSyntax, code)
	assert.Contains(t, errOut.String(), "syntax error")
}

func TestExecuteCommandNotFound(t *testing.T) {
	sh, _, errOut := newTestShell(t)

	code := sh.Execute("/no/such/binary")
	assert.Equal(t, interp.ExitNotFound, code)
	assert.Contains(t, errOut.String(), "command not found")
}

func TestExecuteExitBuiltin(t *testing.T) {
	sh, _, _ := newTestShell(t)

	assert.Equal(t, 0, sh.Execute("exit"))
	assert.True(t, sh.quit)
}

func TestPromptExpansion(t *testing.T) {
	sh, _, _ := newTestShell(t)
	sh.Config.Prompt = `\u:\p$ `

	prompt := sh.Prompt()
	assert.Contains(t, prompt, os.Getenv(EnvUser))
	assert.NotContains(t, prompt, `\p`)
	assert.NotContains(t, prompt, `\u`)
}
