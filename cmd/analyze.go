package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/showloom-cli/internal/session"
	"github.com/KaramelBytes/showloom-cli/internal/utils"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	anaControls   controlFlags
	anaOutputPath string
	anaFormat     string
	anaPreview    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Filter a title catalog and print every breakdown",
	Long: `Analyze loads a title catalog (or the configured default_csv), applies the
year/category/language filters and prints the per-year, genre, status, episode
length and season/episode breakdowns together with the short report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := inputPath(args)
		if err != nil {
			return err
		}
		req, err := anaControls.request(cmd)
		if err != nil {
			return err
		}
		s, loaded, err := anaControls.openSession(cmd.Context(), path)
		if err != nil {
			return err
		}
		view, err := s.View(req)
		if err != nil {
			return err
		}

		var out []byte
		switch strings.ToLower(anaFormat) {
		case "", "text":
			out = []byte(renderText(loaded, view, anaPreview))
		case "json":
			out, err = utils.PrettyJSON(view)
		case "yaml":
			out, err = yaml.Marshal(view)
		default:
			return fmt.Errorf("unsupported --format: %s (use text, json or yaml)", anaFormat)
		}
		if err != nil {
			return err
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(out), "\n"))
		return nil
	},
}

func renderText(l *session.Loaded, v *session.View, preview bool) string {
	var b strings.Builder
	b.WriteString("[DATASET]\n")
	b.WriteString(fmt.Sprintf("File: %s\n", v.Source))
	b.WriteString(fmt.Sprintf("Decoded as: %s/%s\n", l.Encoding, l.Separator))
	b.WriteString(fmt.Sprintf("Rows: %d (skipped %d malformed)\n", l.Dataset.Len(), l.Skipped))
	b.WriteString(fmt.Sprintf("Filtered: %d\n", v.Total))
	if v.Controls.YearOffered {
		b.WriteString(fmt.Sprintf("Years available: %d-%d\n", v.Controls.YearBounds.Min, v.Controls.YearBounds.Max))
	}
	if v.Controls.CategoryOffered {
		b.WriteString(fmt.Sprintf("Categories: %s\n", strings.Join(v.Controls.Categories, ", ")))
	}
	if v.Controls.LanguageOffered {
		b.WriteString(fmt.Sprintf("Languages: %s\n", strings.Join(v.Controls.Languages, ", ")))
	}
	b.WriteString("\n")
	b.WriteString(v.Panels.Text())

	b.WriteString("[REPORT]\n")
	if len(v.Report) == 0 {
		b.WriteString("(empty)\n")
	}
	for _, line := range v.Report {
		b.WriteString(line + "\n")
	}

	if preview && len(v.Preview) > 0 {
		b.WriteString(fmt.Sprintf("\n[PREVIEW (first %d)]\n", len(v.Preview)))
		b.WriteString("| " + strings.Join(v.Columns, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat("---|", len(v.Columns)) + "\n")
		for _, row := range v.Preview {
			cells := make([]string, len(v.Columns))
			for i, c := range v.Columns {
				cells[i] = strings.ReplaceAll(row[c], "|", "/")
			}
			b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaControls.bind(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the analysis")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "text", "output format: text | json | yaml")
	analyzeCmd.Flags().BoolVar(&anaPreview, "preview", false, "include the filtered rows preview (text format)")
}
