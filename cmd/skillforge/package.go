package main

import (
	"context"
	"fmt"

	"github.com/Hackerdomarketing/claude-code-skills/pkg/packager"
	"github.com/Hackerdomarketing/claude-code-skills/pkg/presenter"
	"github.com/Hackerdomarketing/claude-code-skills/pkg/skills"
	"github.com/Hackerdomarketing/claude-code-skills/pkg/validator"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type PackageConfig struct {
	Output string
}

func NewPackageConfig() *PackageConfig {
	return &PackageConfig{
		Output: "",
	}
}

var packageCmd = &cobra.Command{
	Use:   "package <bundle>",
	Short: "Validate a skill bundle and write a .skill archive",
	Long: `Validate a skill bundle and, when it has no errors, write <bundle-name>.skill
to the working directory or to --output. Version control metadata, caches,
temp files and documentation that does not belong in a bundle are left out.

Examples:
  skillforge package ./pdf-tables
  skillforge package ./pdf-tables --output ./dist`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config := getPackageConfigFromFlags(cmd)
		return runPackage(cmd.Context(), args[0], config)
	},
}

func init() {
	defaults := NewPackageConfig()
	packageCmd.Flags().StringP("output", "o", defaults.Output, "Output directory (default: working directory)")
	rootCmd.AddCommand(packageCmd)
}

func getPackageConfigFromFlags(cmd *cobra.Command) *PackageConfig {
	config := NewPackageConfig()
	if output, err := cmd.Flags().GetString("output"); err == nil {
		config.Output = output
	}
	return config
}

func runPackage(ctx context.Context, bundlePath string, config *PackageConfig) error {
	h, err := skills.LoadHeuristics()
	if err != nil {
		return err
	}

	opts := []packager.Option{packager.WithValidatorOptions(validator.WithHeuristics(h))}
	if config.Output != "" {
		opts = append(opts, packager.WithOutputDir(config.Output))
	}

	presenter.Info("Packaging: " + bundlePath)
	result, err := packager.Package(ctx, bundlePath, opts...)
	if err != nil {
		var validationErr *packager.ValidationError
		if errors.As(err, &validationErr) {
			for _, f := range validationErr.Result.Errors() {
				presenter.Check(false, f.Message)
			}
			presenter.Error(err, "Fix the errors before packaging")
			return errReported
		}
		return err
	}

	presenter.Success(result.Validation.Summary)
	for _, entry := range result.Entries {
		presenter.Bullet(entry)
	}

	presenter.Success("Packaged successfully")
	presenter.Bullet("File: " + result.ArchivePath)
	presenter.Bullet("Size: " + presenter.HumanSize(result.Size))
	presenter.Bullet(fmt.Sprintf("Files: %d", result.Files))
	return nil
}
