package cmd

import (
	"context"
	"time"

	"github.com/shandysiswandi/coursebell/internal/app"
	"github.com/spf13/cobra"
)

var shutdownTimeout time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the broker consumers until interrupted",
	Long: `Starts the consumers enabled in modules.*.consumer_names: LMS events,
processor schedules and the notification and certificate admin topics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application := app.New(app.Options{ConfigPath: cfgFile, Consumers: true})
		wait := application.Start()
		<-wait

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		application.Stop(ctx)
		return nil
	},
}

func init() {
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
	rootCmd.AddCommand(serveCmd)
}
