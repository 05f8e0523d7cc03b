package cmd

import (
	"errors"
	"io/fs"

	"github.com/earoland/Basic-Shell/core/config"
	"github.com/spf13/cobra"
)

var cfgPath string

// loadConfig reads the configuration directory, falling back to the
// embedded defaults when no config.yaml exists yet.
func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bsh",
	Short: "A basic UNIX shell",
	Long: `A basic UNIX shell supporting pipelines, I/O redirection and
interrupt forwarding. Executables must be named by absolute path; there
is no PATH search.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
}
