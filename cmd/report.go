package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/showloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	repControls   controlFlags
	repOutputPath string
	repStdout     bool
)

var reportCmd = &cobra.Command{
	Use:   "report [file]",
	Short: "Write the short plain-text report for a filtered catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := inputPath(args)
		if err != nil {
			return err
		}
		req, err := repControls.request(cmd)
		if err != nil {
			return err
		}
		s, _, err := repControls.openSession(cmd.Context(), path)
		if err != nil {
			return err
		}
		rep, err := s.Report(req)
		if err != nil {
			return err
		}
		if rep.Empty() {
			fmt.Fprintln(cmd.ErrOrStderr(), "⚠ Warning: no report facts available for this selection")
		}
		if repStdout {
			fmt.Fprintln(cmd.OutOrStdout(), rep.Text())
			return nil
		}
		out := repOutputPath
		if out == "" {
			out = filepath.Clean(currentConfig().ReportFileName)
		}
		if err := utils.SafeWriteFile(out, []byte(rep.Text())); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	repControls.bind(reportCmd)
	reportCmd.Flags().StringVarP(&repOutputPath, "output", "o", "", "report path (default: report_file_name from config)")
	reportCmd.Flags().BoolVar(&repStdout, "stdout", false, "print the report instead of writing a file")
}
