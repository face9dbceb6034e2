package cmd

import (
	"encoding/json"
	"fmt"

	"dat-workbench/core/config"
	"dat-workbench/core/logger"
	"dat-workbench/core/storage"
	"dat-workbench/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

type integrityReport struct {
	Structure []string          `json:"structure_missing"`
	Lookup    any               `json:"lookup"`
	Storage   any               `json:"storage"`
	Outputs   any               `json:"outputs"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// integrityCmd checks a project without starting a session.
var integrityCmd = &cobra.Command{
	Use:   "integrity PROJECT_DIR",
	Short: "Check the layout and outputs of a project",
	Long: `Checks that PROJECT_DIR has the required folders and lookup tables, then
compares its exports with the generated DATs and, when storage is configured,
with the published objects. Prints the report as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logg.Sync()

		var client storage.Client
		if cfg.Storage.Enabled() {
			client, err = storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Warn("Storage checks disabled", zap.Error(err))
			}
		}

		svc := integrity.NewService(integrity.StaticProject(args[0]), client, cfg.Storage, logg)
		report := integrityReport{Errors: map[string]string{}}

		missing, err := svc.CheckStructure(ctx)
		if err != nil {
			return err
		}
		if len(missing) > 0 && fixFlag {
			if err := svc.FixStructure(ctx, missing); err != nil {
				return err
			}
			missing = nil
		}
		report.Structure = missing

		if lookup, err := svc.CheckLookup(ctx); err != nil {
			report.Errors["lookup"] = err.Error()
		} else {
			report.Lookup = lookup
		}
		if st, err := svc.CheckStorage(ctx); err != nil {
			report.Errors["storage"] = err.Error()
		} else {
			report.Storage = st
		}
		if plan, err := svc.Reconcile(ctx); err != nil {
			report.Errors["outputs"] = err.Error()
		} else {
			report.Outputs = plan
			logg.Info("Integrity check completed",
				zap.Int("targets", plan.Summary.Total),
				zap.Int("missing_generated", plan.Summary.MissingGenerated),
				zap.Int("orphaned", plan.Summary.Orphaned),
			)
		}

		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		if len(report.Errors) > 0 {
			return fmt.Errorf("%d integrity checks failed", len(report.Errors))
		}
		return nil
	},
}

func init() {
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing project folders")
	RootCmd.AddCommand(integrityCmd)
}
