package cmd

import (
	"context"
	"errors"
	"fmt"

	"dat-workbench/core/backend"
	"dat-workbench/core/backend/local"
	"dat-workbench/core/config"
	"dat-workbench/core/logger"
	"dat-workbench/feature/logs"
	"dat-workbench/feature/processing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// exportDatsCmd generates every DAT of a project without a session.
var exportDatsCmd = &cobra.Command{
	Use:   "export-dats PROJECT_DIR",
	Short: "Generate DATs for every export file of a project",
	Long: `Headless mode: walks PROJECT_DIR/raw_data, generates a DAT for every
export file into PROJECT_DIR/generated_dats and exits. Fails on the first
conversion error. The persisted folders are neither used nor changed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return err
		}
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return err
		}
		defer logg.Sync()

		be, err := local.New(cfg.Backend, local.ExecConverter{Command: cfg.Backend.ConverterCommand}, logg, local.Ephemeral())
		if err != nil {
			return err
		}
		defer be.Close()

		return exportDats(cmd.Context(), be, args[0], logg)
	},
}

func init() {
	RootCmd.AddCommand(exportDatsCmd)
}

type alwaysReady struct{}

func (alwaysReady) Ready() bool { return true }

// exportDats generates every existing export target of project and waits
// until each one has finished.
func exportDats(ctx context.Context, b backend.Backend, project string, logg *zap.Logger) error {
	logg.Info("Processing project", zap.String("project", project))

	sub := b.Subscribe()
	defer sub.Unsubscribe()

	recent, err := b.SelectProjectFolder(ctx, project)
	if err != nil {
		return err
	}
	project = recent[0]

	targets, err := b.EnumerateExistingExportedTargets(ctx)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		logg.Info("Nothing to generate")
		return nil
	}

	ledger := processing.New(alwaysReady{}, logg)
	ledger.Reset(project)
	aggregator := logs.New(logg)

	for _, d := range targets {
		if err := b.RequestGenerate(ctx, d); err != nil {
			return err
		}
	}
	logg.Info("Generating DATs", zap.Int("count", len(targets)))

	finished := 0
	for finished < len(targets) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-sub.Processing:
			if !ok {
				return errors.New("backend closed the event stream")
			}
			ledger.OnEvent(ev)
			aggregator.OnEvent(ev)

			switch ev.Phase.Kind {
			case backend.PhaseFinished:
				finished++
				logg.Debug("Generated", zap.String("descriptor", ev.Descriptor.Label()), zap.String("path", ev.Phase.Path))
			case backend.PhaseError:
				return fmt.Errorf("processing error for %s: %s", ev.Descriptor.Label(), ev.Phase.Message)
			}
		}
	}

	logg.Info("Done", zap.Int("generated", aggregator.Len()), zap.Int("in_flight", ledger.Count()))
	return nil
}
