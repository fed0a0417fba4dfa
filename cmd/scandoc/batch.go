package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/gardar/scandoc/pkg/scandoc"
)

// batchReport is the JSON document written by --report.
type batchReport struct {
	Source      string              `json:"source"`
	Destination string              `json:"destination"`
	Succeeded   int                 `json:"succeeded"`
	Failed      int                 `json:"failed"`
	Files       scandoc.BatchResult `json:"files"`
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		reportPath string
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "batch <src-dir> <dst-dir>",
		Short: "Convert every photo in a directory",
		Long: `Convert every photo in src-dir whose extension is listed in
batch.extensions to <name>.pdf in dst-dir. A file that fails is reported and
does not stop the others.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			srcDir, dstDir := args[0], args[1]

			c, closeEngine, err := a.converter(cmd.Context())
			if err != nil {
				return err
			}
			defer closeEngine()

			if !noProgress {
				names, err := c.ListSources(srcDir)
				if err != nil {
					return err
				}
				bar := newProgressBar(len(names), cmd.ErrOrStderr())
				defer bar.Finish()
				c.OnFileDone = func(string, scandoc.Outcome) { _ = bar.Add(1) }
			}

			res, err := c.ConvertDir(cmd.Context(), srcDir, dstDir)
			if err != nil {
				return err
			}

			printBatchSummary(cmd.OutOrStdout(), res)
			if reportPath != "" {
				report := batchReport{
					Source:      srcDir,
					Destination: dstDir,
					Succeeded:   res.Succeeded(),
					Failed:      res.Failed(),
					Files:       res,
				}
				if err := writeJSON(reportPath, report); err != nil {
					return err
				}
			}
			if res.Failed() > 0 {
				return fmt.Errorf("%d of %d files failed", res.Failed(), len(res))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "write a JSON report of all outcomes to this path")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	return cmd
}

func newProgressBar(total int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("converting"),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowIts(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func printBatchSummary(w io.Writer, res scandoc.BatchResult) {
	for _, name := range res.Names() {
		o := res[name]
		if o.Success() {
			fmt.Fprintf(w, "ok    %s -> %s\n", name, o.PDFPath)
		} else {
			fmt.Fprintf(w, "fail  %s: %s\n", name, o.Error)
		}
	}
	fmt.Fprintf(w, "%d converted, %d failed\n", res.Succeeded(), res.Failed())
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
