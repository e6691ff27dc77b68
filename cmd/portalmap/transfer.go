package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmorley/portalmap/pkg/codec"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the stored snapshot as plain JSON for exchange",
		Args:  cobra.ExactArgs(1),
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

			wire := codec.ToWire(a.engine.Snapshot())
			data, err := json.MarshalIndent(wire, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal export: %w", err)
			}
			if err := os.WriteFile(args[0], data, 0644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Printf("exported %d zones, %d connections to %s\n",
				len(wire.Nodes), len(wire.Edges), args[0])
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored snapshot with a sanitized JSON import",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.close()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}
			wire, err := codec.Decode(data)
			if err != nil {
				return fmt.Errorf("decode import: %w", err)
			}

			nodes, edges := codec.FromWire(wire)
			report := a.engine.SetGraph(nodes, edges)
			fmt.Printf("imported %d zones, %d connections", report.NodesKept, report.EdgesKept)
			dropped := report.NodesMerged + report.NodesDroppedInvalid +
				report.EdgesDroppedSelfLoop + report.EdgesDroppedDangling + report.EdgesDroppedDuplicate
			if dropped > 0 {
				fmt.Printf(" (%d dirty entries dropped)", dropped)
			}
			fmt.Println()

			return a.saveSnapshot(ctx)
		},
	}
}
