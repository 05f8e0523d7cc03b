package config

import (
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialize(t *testing.T) {
	tempDir := t.TempDir()
	discard := log.New(io.Discard, "", 0)

	cfg, err := Initialize(tempDir, discard)
	if err != nil {
		t.Fatal(err)
	}

	// Running init again must not clobber the existing config.
	if _, err := Initialize(tempDir, discard); err != nil {
		t.Fatal(err)
	}

	t.Run("Load", func(t *testing.T) {
		loaded, err := Load(tempDir)
		assert.Nil(t, err)
		assert.Equal(t, cfg.Prompt, loaded.Prompt)
	})

	t.Run("OpenExecLog", func(t *testing.T) {
		fd, err := cfg.OpenExecLog()
		assert.Nil(t, err)
		fd.Close()
	})

	t.Run("ReadExecLog", func(t *testing.T) {
		fd, err := cfg.ReadExecLog()
		assert.Nil(t, err)
		fd.Close()
	})

	t.Run("OpenHistory", func(t *testing.T) {
		fd, err := cfg.OpenHistory()
		assert.Nil(t, err)
		fd.Close()
	})
}
