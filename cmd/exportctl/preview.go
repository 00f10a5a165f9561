package main

import (
	"github.com/spf13/cobra"
)

func newPreviewCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "preview <company-id>",
		Short: "Muestra el puntaje calculado de una empresa sin guardarlo",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return validateFormat(format)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.classificationService().Preview(ctx, args[0])
			if err != nil {
				return err
			}
			return renderPreview(cmd.OutOrStdout(), args[0], result, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Formato de salida (table|yaml|json)")
	return cmd
}
