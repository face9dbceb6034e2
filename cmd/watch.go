package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchFlags struct {
	data    string
	project string
}

// watchCmd keeps a session alive and logs every completed operation.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the active project and log conversions",
	Long: `Starts a session on the persisted folders (or the ones given as flags),
tracks the project's export files and logs every finished or failed
conversion until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := loadRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		rt.selectFolders(ctx, watchFlags.data, watchFlags.project)
		rt.session.WorkingFiles().Wait()

		st := rt.session.Status()
		rt.logger.Info("Watching",
			zap.String("data_path", st.DataPath),
			zap.String("project_path", st.ProjectPath),
			zap.Int("working_files", st.WorkingFiles),
			zap.Bool("can_process", st.CanProcess),
		)

		<-ctx.Done()
		rt.logger.Info("Shutting down...")
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchFlags.data, "data", "", "game data folder")
	watchCmd.Flags().StringVar(&watchFlags.project, "project", "", "project folder")
	RootCmd.AddCommand(watchCmd)
}
