package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	ConfigurationName = "config.yaml"
	ExecLogName       = "exec.log"
	HistoryName       = ".bsh_history"
)

// Configuration controls the interactive shell. Everything in it is
// cosmetic; the execution core takes no configuration.
type Configuration struct {
	configFs afero.Fs
	dir      string

	// Motd is printed once when the shell starts.
	Motd string `json:"motd"`

	// Prompt is the PS1-style prompt template. Supported escapes:
	// \u user, \h hostname, \w working directory, \p shell PID,
	// \$ "#" for root and "$" otherwise.
	Prompt string `json:"prompt" validate:"required"`

	// HistoryFile is the readline history file, relative to the
	// configuration directory.
	HistoryFile string `json:"history_file" validate:"required"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		// Not loaded from a directory: keep run-time artifacts in memory.
		c.configFs = afero.NewMemMapFs()
	}
	return c.configFs
}

// OpenExecLog opens the command execution log in an append only state.
func (c *Configuration) OpenExecLog() (afero.File, error) {
	return c.fs().OpenFile(ExecLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadExecLog opens the command execution log for reading.
func (c *Configuration) ReadExecLog() (afero.File, error) {
	return c.fs().OpenFile(ExecLogName, os.O_RDONLY, 0600)
}

// OpenHistory opens the readline history file, creating it if needed.
func (c *Configuration) OpenHistory() (afero.File, error) {
	return c.fs().OpenFile(c.HistoryFile, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0600)
}

// HistoryPath returns the on-disk path of the history file, or "" when
// the configuration is not backed by a directory.
func (c *Configuration) HistoryPath() string {
	if c.dir == "" {
		return ""
	}
	return filepath.Join(c.dir, c.HistoryFile)
}

// Default returns the embedded default configuration, not backed by any
// directory on disk.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
