package cmd

import (
	"fmt"
	"os"

	"dat-workbench/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// configDir holds .env and dat-workbench.yml.
var configDir string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "dat-workbench",
	Short: "DAT conversion workbench",
	Long: `DAT Workbench exports game DAT files to editable YAML and generates
DAT files back from a project's raw_data folder.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory holding .env and dat-workbench.yml")
}

// Execute runs RootCmd and exits non-zero on failure.
func Execute() {
	err := RootCmd.Execute()
	if err == nil {
		return
	}

	// Errors can come before the configured logger exists, so report them
	// with a fixed console logger.
	l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
	if logErr != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	l.Error("Command failed", zap.Error(err))
	_ = l.Sync()
	os.Exit(1)
}
