package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/codementor/internal/mentor"
)

var (
	analyzeLanguage string
	analyzeTopic    string
	analyzeType     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE",
	Short: "Analyze a source file and print feedback",
	Long: `Submit a source file for analysis. The language is inferred from the
file extension unless --language is given. Use '-' to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := readSource(args[0])
		if err != nil {
			return err
		}
		language := analyzeLanguage
		if language == "" {
			language = languageFor(args[0])
		}
		if language == "" {
			return fmt.Errorf("cannot infer language for %s; pass --language", args[0])
		}

		c, err := newClient(true)
		if err != nil {
			return err
		}
		resp, err := c.Analyze(cmd.Context(), mentor.AnalyzeRequest{
			Code:        code,
			Language:    language,
			Topic:       analyzeTopic,
			SessionType: analyzeType,
		})
		if err != nil {
			return err
		}
		printAnalysis(resp)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeLanguage, "language", "l", "", "Source language (default: from extension)")
	analyzeCmd.Flags().StringVarP(&analyzeTopic, "topic", "t", "", "Topic the code practices")
	analyzeCmd.Flags().StringVar(&analyzeType, "type", "", "Session type: code_review, practice or project_guidance")
	rootCmd.AddCommand(analyzeCmd)
}

func readSource(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

var extensionLanguages = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".mjs":  "javascript",
	".ts":   "typescript",
	".java": "java",
	".go":   "go",
	".c":    "c",
	".cpp":  "cpp",
	".cs":   "csharp",
	".rb":   "ruby",
	".rs":   "rust",
}

func languageFor(path string) string {
	return extensionLanguages[strings.ToLower(filepath.Ext(path))]
}

func printAnalysis(resp *mentor.AnalyzeResponse) {
	fmt.Fprintf(ui.Out, "%s %s  (session %d)\n\n", bold("Score:"), scoreColor(resp.Score), resp.SessionID)

	issues := resp.Analysis.Issues()
	if len(issues) > 0 {
		table := ui.Table([]string{"Type", "Severity", "Line", "Description"})
		for _, issue := range issues {
			line := "-"
			if issue.LineNumber > 0 {
				line = strconv.Itoa(issue.LineNumber)
			}
			_ = table.Append([]string{string(issue.Type), severityColor(string(issue.Severity)), line, issue.Description})
		}
		_ = table.Render()
		fmt.Fprintln(ui.Out)
	}

	fmt.Fprintln(ui.Out, resp.Feedback)

	if len(resp.Suggestions) > 0 {
		fmt.Fprintln(ui.Out)
		fmt.Fprintln(ui.Out, bold("Suggestions"))
		for _, s := range resp.Suggestions {
			fmt.Fprintf(ui.Out, "  • %s\n", s)
		}
	}
}
