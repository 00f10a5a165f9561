package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReclassifyCmd() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "reclassify",
		Short: "Recalcula la categoría de todas las empresas evaluadas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if workers <= 0 {
				workers = a.cfg.ReclassifyWorkers
			}
			result, err := a.classificationService().Reclassify(ctx, workers)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "processed: %d\nfailed: %d\n", result.Processed, result.Failed)
			if result.Failed > 0 {
				return fmt.Errorf("%d companies could not be reclassified", result.Failed)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Cantidad de workers (por defecto RECLASSIFY_WORKERS)")
	return cmd
}
