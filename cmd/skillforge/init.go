package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Hackerdomarketing/claude-code-skills/pkg/presenter"
	"github.com/Hackerdomarketing/claude-code-skills/pkg/scaffold"
	"github.com/spf13/cobra"
)

type InitConfig struct {
	Path string
}

func NewInitConfig() *InitConfig {
	return &InitConfig{
		Path: "",
	}
}

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Create a new skill bundle from templates",
	Long: `Create a new skill bundle named <name> under the --path directory. The name
must be kebab-case (lowercase letters, digits and single hyphens, at most 64
characters). The bundle starts with a SKILL.md full of TODO placeholders, an
example script, an example reference and an asset placeholder.

Examples:
  skillforge init pdf-tables --path ./skills
  skillforge init invoice-parser --path /abs/path`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config := getInitConfigFromFlags(cmd)
		return runInit(cmd.Context(), args[0], config)
	},
}

func init() {
	defaults := NewInitConfig()
	initCmd.Flags().StringP("path", "p", defaults.Path, "Directory the bundle is created in")
	initCmd.MarkFlagRequired("path")
	rootCmd.AddCommand(initCmd)
}

func getInitConfigFromFlags(cmd *cobra.Command) *InitConfig {
	config := NewInitConfig()
	if path, err := cmd.Flags().GetString("path"); err == nil {
		config.Path = path
	}
	return config
}

func runInit(ctx context.Context, name string, config *InitConfig) error {
	target, err := scaffold.Create(ctx, name, config.Path)
	if err != nil {
		return err
	}

	presenter.Success(fmt.Sprintf("Created skill '%s' at %s", name, target))
	for _, artifact := range scaffold.Artifacts {
		presenter.Bullet(filepath.ToSlash(filepath.Join(name, artifact.Path)))
	}

	presenter.Section("Next steps")
	presenter.Numbered(1, "Edit SKILL.md and resolve every TODO")
	presenter.Numbered(2, "Replace or delete the examples in scripts/, references/ and assets/")
	presenter.Numbered(3, fmt.Sprintf("Validate: skillforge validate %s", target))
	presenter.Numbered(4, fmt.Sprintf("Package: skillforge package %s", target))
	return nil
}
