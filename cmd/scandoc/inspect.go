package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <image>",
		Short: "Show the recognized text and page layout without writing a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closeEngine, err := a.converter(cmd.Context())
			if err != nil {
				return err
			}
			defer closeEngine()

			doc, sel, err := c.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			}

			if sel.Found() {
				fmt.Fprintf(w, "best candidate: %s/%s (%d characters)\n", sel.Variant, sel.Config.Name, len([]rune(sel.Text)))
			} else {
				fmt.Fprintln(w, "no text detected")
			}
			fmt.Fprintf(w, "pages: %d (%.0fx%.0f pt)\n", len(doc.Pages), doc.Width, doc.Height)
			for i, p := range doc.Pages {
				switch {
				case p.Image != nil:
					fmt.Fprintf(w, "  page %d: image %.0fx%.0f at (%.0f, %.0f)\n", i+1, p.Image.Width, p.Image.Height, p.Image.X, p.Image.Y)
				case len(p.Lines) > 0:
					fmt.Fprintf(w, "  page %d: %d lines\n", i+1, len(p.Lines))
				default:
					fmt.Fprintf(w, "  page %d: empty\n", i+1)
				}
			}
			if sel.Found() {
				fmt.Fprintf(w, "\n%s\n", sel.Text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the page layout as JSON")
	return cmd
}
