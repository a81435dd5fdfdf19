package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/showloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	rbControls controlFlags
	rbOutDir   string
	rbQuiet    bool
)

var reportBatchCmd = &cobra.Command{
	Use:   "report-batch <files...>",
	Short: "Write a short report for each of several catalogs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := utils.ExpandPaths(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		req, err := rbControls.request(cmd)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(rbOutDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		out := cmd.OutOrStdout()
		total := len(files)
		failed := 0
		for i, path := range files {
			if !rbQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			s, _, err := rbControls.openSession(cmd.Context(), path)
			if err == nil {
				var text string
				rep, rerr := s.Report(req)
				if rerr == nil {
					text = rep.Text()
					base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
					dest := utils.UniquePath(rbOutDir, base, ".summary.txt")
					if !rbQuiet && filepath.Base(dest) != base+".summary.txt" {
						fmt.Fprintf(out, "⚠ Detected existing report, writing to %s to avoid overwrite.\n", filepath.Base(dest))
					}
					if werr := utils.SafeWriteFile(dest, []byte(text)); werr != nil {
						rerr = fmt.Errorf("write report: %w", werr)
					} else if !rbQuiet {
						fmt.Fprintf(out, "✓ Wrote %s\n", dest)
					}
				}
				err = rerr
			}
			if err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s: %v\n", filepath.Base(path), err)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, total)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportBatchCmd)
	rbControls.bind(reportBatchCmd)
	reportBatchCmd.Flags().StringVar(&rbOutDir, "out-dir", "reports", "directory for the generated reports")
	reportBatchCmd.Flags().BoolVarP(&rbQuiet, "quiet", "q", false, "suppress progress output")
}
