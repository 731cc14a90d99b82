package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Show the configured category set",
	Long: `Show the configured category set and whether aggregate judgments are on.

Substantive categories are marked with *; only they count towards judgments.

Examples:
  thinkstep categories
  thinkstep categories --category-set framework
  thinkstep categories --category-file ./categories.yaml`,
	Args: cobra.NoArgs,
	RunE: runCategories,
}

func runCategories(cmd *cobra.Command, args []string) error {
	set, err := cfg.Categories()
	if err != nil {
		return fmt.Errorf("category set: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Category set: %s (%s)\n", set.Name(), set.Kind())
	fmt.Fprintf(out, "Judgment: %v\n", cfg.JudgmentEnabled(set))

	if set.Open() {
		fmt.Fprintln(out, "Any non-empty category is accepted.")
		return nil
	}

	fmt.Fprintln(out)
	for i, c := range set.Categories() {
		marker := " "
		if c.Substantive {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %d. %s\n", marker, i, c.Name)
	}
	return nil
}
