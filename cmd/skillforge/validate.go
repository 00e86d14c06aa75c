package main

import (
	"context"
	"strings"

	"github.com/Hackerdomarketing/claude-code-skills/pkg/presenter"
	"github.com/Hackerdomarketing/claude-code-skills/pkg/skills"
	"github.com/Hackerdomarketing/claude-code-skills/pkg/validator"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type ValidateConfig struct {
	Verbose bool
}

func NewValidateConfig() *ValidateConfig {
	return &ValidateConfig{
		Verbose: false,
	}
}

var validateCmd = &cobra.Command{
	Use:   "validate <bundle>",
	Short: "Check a skill bundle for structural errors",
	Long: `Validate the structure and content of a skill bundle. Errors make the bundle
invalid and block packaging; warnings are advisory.

Examples:
  skillforge validate ./pdf-tables
  skillforge validate ./pdf-tables --verbose`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config := getValidateConfigFromFlags(cmd)
		return runValidate(cmd.Context(), args[0], config)
	},
}

func init() {
	defaults := NewValidateConfig()
	validateCmd.Flags().BoolP("verbose", "v", defaults.Verbose, "Show every check, including the ones that passed")
	rootCmd.AddCommand(validateCmd)
}

func getValidateConfigFromFlags(cmd *cobra.Command) *ValidateConfig {
	config := NewValidateConfig()
	if verbose, err := cmd.Flags().GetBool("verbose"); err == nil {
		config.Verbose = verbose
	}
	return config
}

func runValidate(ctx context.Context, bundlePath string, config *ValidateConfig) error {
	h, err := skills.LoadHeuristics()
	if err != nil {
		return err
	}

	presenter.Info("Validating: " + bundlePath)
	result := validator.Validate(ctx, bundlePath, validator.WithHeuristics(h))
	printFindings(result, config.Verbose)

	if !result.Valid {
		presenter.Error(errors.New(result.Summary), "")
		return errReported
	}
	presenter.Success(result.Summary)
	return nil
}

// printFindings prints errors and warnings grouped by stage. Verbose mode
// adds the passed checks. Quiet mode prints only the errors.
func printFindings(result *validator.Result, verbose bool) {
	if presenter.IsQuiet() {
		for _, f := range result.Errors() {
			presenter.Error(errors.New(f.Message), stageTitle(f.Stage))
		}
		return
	}

	for _, stage := range validator.Stages {
		var shown []validator.Finding
		for _, f := range result.StageFindings(stage) {
			if f.Severity != validator.SeverityPass || verbose {
				shown = append(shown, f)
			}
		}
		if len(shown) == 0 {
			continue
		}

		presenter.Section(stageTitle(stage))
		for _, f := range shown {
			switch f.Severity {
			case validator.SeverityError:
				presenter.Check(false, f.Message)
			case validator.SeverityWarning:
				presenter.Warning(f.Message)
			default:
				presenter.Check(true, f.Message)
			}
		}
	}
	presenter.Separator()
}

func stageTitle(stage validator.Stage) string {
	s := string(stage)
	return strings.ToUpper(s[:1]) + s[1:]
}
