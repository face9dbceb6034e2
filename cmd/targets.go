package cmd

import (
	"encoding/json"
	"fmt"

	"dat-workbench/core/backend"
	"dat-workbench/core/descriptor"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type targetListing struct {
	Fixed map[backend.FixedGroup][]descriptor.Descriptor `json:"fixed"`
	Zones map[descriptor.Category][]backend.ZoneInfo     `json:"zones,omitempty"`
}

// targetsCmd prints every conversion target as JSON.
var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the conversion targets",
	Long: `Prints the fixed-category targets and, when both folders are selected,
the zones available for each zone scoped category.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rt, err := loadRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		b := rt.session.Backend()
		listing := targetListing{
			Fixed: make(map[backend.FixedGroup][]descriptor.Descriptor),
			Zones: make(map[descriptor.Category][]backend.ZoneInfo),
		}

		for _, g := range []backend.FixedGroup{backend.GroupStringTables, backend.GroupItems, backend.GroupGlobalDialog} {
			targets, err := b.EnumerateFixedCategoryTargets(ctx, g)
			if err != nil {
				return err
			}
			listing.Fixed[g] = targets
		}

		if rt.session.Status().Ready {
			for _, c := range descriptor.Categories(descriptor.GroupZoned, false) {
				zones, err := b.EnumerateZoneScopedTargets(ctx, c)
				if err != nil {
					rt.logger.Warn("Zone enumeration failed", zap.String("category", string(c)), zap.Error(err))
					continue
				}
				listing.Zones[c] = zones
			}
		} else {
			rt.logger.Info("Folders not selected, skipping zone scoped targets")
		}

		out, err := json.MarshalIndent(listing, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(targetsCmd)
}
