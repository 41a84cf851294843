package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"quantpilot/internal/doccheck"
)

var (
	docSections []string
	docMinCode  int
	docMaxCJK   float64
	docJobs     int
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Documentation tooling",
}

var docsCheckCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Verify documentation completeness",
	Long: `Checks markdown files for required section headings, a minimum number
of fenced code blocks, and the ratio of Chinese to English words. The
command exits non-zero when any file fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := doccheck.Requirements{
			Sections:      docSections,
			MinCodeBlocks: docMinCode,
			MaxCJKRatio:   docMaxCJK,
		}
		reports, err := doccheck.Check(cmd.Context(), args, req, docJobs)
		if err != nil {
			return err
		}
		if failed := printDocReports(cmd.OutOrStdout(), reports); failed > 0 {
			return fmt.Errorf("%d of %d files failed the documentation check",
				failed, len(reports))
		}
		return nil
	},
}

func init() {
	docsCheckCmd.Flags().StringSliceVar(&docSections, "section",
		[]string{"Overview", "Usage", "Configuration"},
		"required section heading (repeatable)")
	docsCheckCmd.Flags().IntVar(&docMinCode, "min-code-blocks", 1,
		"minimum fenced code blocks per file")
	docsCheckCmd.Flags().Float64Var(&docMaxCJK, "max-cjk-ratio", 0,
		"maximum Chinese word ratio, 0 disables the check")
	docsCheckCmd.Flags().IntVar(&docJobs, "jobs", doccheck.DefaultJobs,
		"files checked concurrently")
	docsCmd.AddCommand(docsCheckCmd)
}

func defaultDocRequirements() doccheck.Requirements {
	return doccheck.Requirements{
		Sections:      []string{"Overview", "Usage", "Configuration"},
		MinCodeBlocks: 1,
	}
}

// printDocReports writes one line per file plus its failures and returns
// the number of failing files.
func printDocReports(w io.Writer, reports []doccheck.Report) int {
	failed := 0
	for _, rep := range reports {
		if rep.Passed() {
			fmt.Fprintf(w, "ok    %s (%d headings, %d code blocks)\n",
				rep.Path, len(rep.Headings), rep.CodeBlocks)
			continue
		}
		failed++
		fmt.Fprintf(w, "FAIL  %s\n", rep.Path)
		for _, f := range rep.Failures {
			fmt.Fprintf(w, "      - %s\n", f)
		}
	}
	return failed
}
