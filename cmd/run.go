package cmd

import (
	"os"

	"github.com/earoland/Basic-Shell/core"
	"github.com/spf13/cobra"
)

var oneShot string

// runCmd starts the interactive shell.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive shell.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		shell, err := core.NewShell(configuration)
		if err != nil {
			return err
		}
		defer shell.Close()

		if oneShot != "" {
			stop := shell.Supervisor.StartRelay()
			code := shell.Execute(oneShot)
			stop()
			shell.Close()
			os.Exit(code)
		}

		return shell.Run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&oneShot, "command", "c", "", "execute a single command line and exit")
}
