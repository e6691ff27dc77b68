package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmorley/portalmap/pkg/zone"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Summarize the stored snapshot without running the map",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.loadSnapshot(ctx); err != nil {
				return err
			}

			snap := a.engine.Snapshot()
			fmt.Printf("zones: %d, connections: %d\n", snap.NodeCount(), snap.EdgeCount())

			byCategory := make(map[zone.Category]int)
			for _, n := range snap.Nodes() {
				byCategory[n.Category]++
			}
			for _, cat := range []zone.Category{zone.Royal, zone.Black, zone.Avalon, zone.Unknown} {
				if byCategory[cat] > 0 {
					fmt.Printf("  %-10s %d\n", cat, byCategory[cat])
				}
			}
			return nil
		},
	}
}
