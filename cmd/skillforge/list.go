package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Hackerdomarketing/claude-code-skills/pkg/presenter"
	"github.com/Hackerdomarketing/claude-code-skills/pkg/skills"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [root...]",
	Short: "List the skill bundles found under the given roots",
	Long: `List skill bundles with their names, directories and descriptions. Each root
is either a bundle itself or a directory whose children are bundles. Without
arguments the working directory and ./skills are searched.

Examples:
  skillforge list
  skillforge list ./skills ~/shared-skills`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd.Context(), cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(ctx context.Context, out io.Writer, roots []string) error {
	opt := skills.WithDefaultRoots()
	if len(roots) > 0 {
		opt = skills.WithRoots(roots...)
	}

	discovery, err := skills.NewDiscovery(opt)
	if err != nil {
		return errors.Wrap(err, "failed to initialize skill discovery")
	}

	allSkills, err := discovery.DiscoverSkills(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to discover skills")
	}

	if len(allSkills) == 0 {
		presenter.Info("No skills found")
		return nil
	}

	names, err := discovery.ListSkillNames(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to list skills")
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDIRECTORY\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t---------\t-----------")

	for _, name := range names {
		skill := allSkills[name]
		fmt.Fprintf(tw, "%s\t%s\t%s\n", skill.Name, skill.Directory, truncateDescription(skill.Description, 60))
	}
	return tw.Flush()
}

// truncateDescription shortens s to at most limit runes, ending in "..."
func truncateDescription(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
