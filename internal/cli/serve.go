package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/shandysiswandi/goprofile/internal/app"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web application",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	application := app.New(path)
	wait := application.Start()
	<-wait

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	application.Stop(ctx)
	return nil
}
