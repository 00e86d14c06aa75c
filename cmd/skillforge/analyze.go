package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Hackerdomarketing/claude-code-skills/pkg/analyzer"
	"github.com/Hackerdomarketing/claude-code-skills/pkg/presenter"
	"github.com/Hackerdomarketing/claude-code-skills/pkg/skills"
	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Output formats of the analyze command
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

type AnalyzeConfig struct {
	Format string
}

func NewAnalyzeConfig() *AnalyzeConfig {
	return &AnalyzeConfig{
		Format: FormatText,
	}
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <bundle>",
	Short: "Suggest improvements for a skill bundle",
	Long: `Analyze a skill bundle and print metrics plus improvement suggestions. The
analysis is advisory: it never fails because of what it finds.

Examples:
  skillforge analyze ./pdf-tables
  skillforge analyze ./pdf-tables --format json
  skillforge analyze ./pdf-tables --format markdown`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config := getAnalyzeConfigFromFlags(cmd)
		return runAnalyze(cmd.Context(), cmd.OutOrStdout(), args[0], config)
	},
}

func init() {
	defaults := NewAnalyzeConfig()
	analyzeCmd.Flags().StringP("format", "f", defaults.Format, "Output format (text, json or markdown)")
	rootCmd.AddCommand(analyzeCmd)
}

func getAnalyzeConfigFromFlags(cmd *cobra.Command) *AnalyzeConfig {
	config := NewAnalyzeConfig()
	if format, err := cmd.Flags().GetString("format"); err == nil {
		config.Format = format
	}
	return config
}

func runAnalyze(ctx context.Context, out io.Writer, bundlePath string, config *AnalyzeConfig) error {
	switch config.Format {
	case FormatText, FormatJSON, FormatMarkdown:
	default:
		return errors.Errorf("unsupported format '%s' (expected text, json or markdown)", config.Format)
	}

	h, err := skills.LoadHeuristics()
	if err != nil {
		return err
	}

	report, err := analyzer.Analyze(ctx, bundlePath, analyzer.WithHeuristics(h))
	if err != nil {
		return err
	}

	switch config.Format {
	case FormatJSON:
		data, err := report.JSON()
		if err != nil {
			return errors.Wrap(err, "failed to format report")
		}
		fmt.Fprintln(out, data)
	case FormatMarkdown:
		return printMarkdownReport(out, report)
	default:
		printTextReport(report)
	}
	return nil
}

// printMarkdownReport renders through glamour when writing to a terminal
// and prints the raw markdown otherwise
func printMarkdownReport(out io.Writer, report *analyzer.Report) error {
	md := report.Markdown()

	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		rendered, err := glamour.Render(md, "auto")
		if err != nil {
			return errors.Wrap(err, "failed to render report")
		}
		fmt.Fprint(out, rendered)
		return nil
	}

	fmt.Fprint(out, md)
	return nil
}

func printTextReport(report *analyzer.Report) {
	m := report.Metrics

	presenter.Section(fmt.Sprintf("Analysis: %s", report.Name))
	presenter.Info(report.Path)

	presenter.Section(skills.DescriptorFileName)
	presenter.Bullet(fmt.Sprintf("%d lines, %d words, %d characters",
		m.Descriptor.Lines, m.Descriptor.Words, m.Descriptor.Chars))
	presenter.Bullet(fmt.Sprintf("%s/ size: %s", skills.ReferencesDir, presenter.HumanSize(m.ReferencesBytes)))

	presenter.Section("Description")
	if d := m.Description; d != nil {
		presenter.Bullet(fmt.Sprintf("%d characters", d.Chars))
		presenter.Check(d.HasActivation, "Activation scenarios")
		presenter.Check(d.HasExamples, "Examples")
		presenter.Check(d.HasFormats, "File formats")
	} else {
		presenter.Warning("No description")
	}

	presenter.Section("Structure")
	presenter.Bullet(fmt.Sprintf("%d sections, %d subsections", m.Structure.Sections, m.Structure.Subsections))
	if len(m.Structure.SectionTitles) > 0 {
		presenter.Bullet("Sections: " + strings.Join(m.Structure.SectionTitles, ", "))
	}
	presenter.Check(m.Structure.HasTable, "Quick reference table")

	presenter.Section("Code")
	presenter.Bullet(fmt.Sprintf("%d blocks, %d lines", m.Code.Blocks, m.Code.TotalLines))
	if langs := m.Code.LanguageNames(); len(langs) > 0 {
		parts := make([]string, 0, len(langs))
		for _, lang := range langs {
			parts = append(parts, fmt.Sprintf("%s (%d)", lang, m.Code.Languages[lang]))
		}
		presenter.Bullet("Languages: " + strings.Join(parts, ", "))
	}
	presenter.Bullet(fmt.Sprintf("CRITICAL markers: %d", m.Code.CriticalMarkers))

	if len(m.Scripts)+len(m.References)+m.AssetCount > 0 {
		presenter.Section("Resources")
		if len(m.Scripts) > 0 {
			presenter.Bullet(fmt.Sprintf("%s/: %s", skills.ScriptsDir, strings.Join(m.Scripts, ", ")))
		}
		if len(m.References) > 0 {
			presenter.Bullet(fmt.Sprintf("%s/: %s", skills.ReferencesDir, strings.Join(m.References, ", ")))
		}
		if m.AssetCount > 0 {
			listed := strings.Join(m.Assets, ", ")
			if hidden := m.AssetCount - len(m.Assets); hidden > 0 {
				listed += fmt.Sprintf(" and %d more", hidden)
			}
			presenter.Bullet(fmt.Sprintf("%s/: %s", skills.AssetsDir, listed))
		}
	}

	presenter.Section("Suggestions")
	if len(report.Suggestions) == 0 {
		presenter.Success("No improvements identified")
		return
	}
	for i, s := range report.Suggestions {
		presenter.Numbered(i+1, s)
	}
}
