package cmd

import (
	"fmt"
	"os"

	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	token   string
)

var rootCmd = &cobra.Command{
	Use:   "coursebell",
	Short: "LMS notification dispatch and certificate migration service",
	Long: `coursebell consumes LMS lifecycle events, fans them out to the
configured recipients of every delivery type and processes the queued
notifications in the background.

Admin commands run in-process against the configured database and are
authorized with a bearer token (see "coursebell token").`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (defaults to CONFIG_PATH)")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("COURSEBELL_TOKEN"), "bearer token for admin commands")
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return goerror.ExitCode(err)
}
