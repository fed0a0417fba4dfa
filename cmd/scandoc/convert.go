package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	var printText bool

	cmd := &cobra.Command{
		Use:   "convert <image> [output.pdf]",
		Short: "Convert one photo to a searchable PDF",
		Long: `Convert one photo to a searchable PDF. Without an output path the PDF is
written next to the image with a .pdf extension.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dst string
			if len(args) == 2 {
				dst = args[1]
			}

			c, closeEngine, err := a.converter(cmd.Context())
			if err != nil {
				return err
			}
			defer closeEngine()

			out, err := c.ConvertFile(cmd.Context(), args[0], dst)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if printText {
				fmt.Fprintln(w, out.Text)
				return nil
			}
			if out.Text == "" {
				fmt.Fprintf(w, "%s: no text detected, %d pages\n", out.PDFPath, out.Pages)
				return nil
			}
			fmt.Fprintf(w, "%s: %d characters (%s/%s), %d pages\n",
				out.PDFPath, len([]rune(out.Text)), out.Variant, out.Config, out.Pages)
			return nil
		},
	}

	cmd.Flags().BoolVar(&printText, "print-text", false, "print the extracted text instead of a summary")
	return cmd
}
