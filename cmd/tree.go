package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/ringside/internal/config"
	"github.com/zjrosen/ringside/internal/hierarchy"
	"github.com/zjrosen/ringside/internal/presentation"
	"github.com/zjrosen/ringside/internal/ui/tree"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the registration tree of a show",
	Example: `  ringside tree
  ringside tree --show spring-classic --grouping fci_group,breed
  ringside tree --collapsed --output json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		output, _ := cmd.Flags().GetString("output")
		format, err := outputFormat(output)
		if err != nil {
			return err
		}
		opts := treeOptions{format: format}
		opts.collapsed, _ = cmd.Flags().GetBool("collapsed")
		opts.width, _ = cmd.Flags().GetInt("width")
		opts.grouping, _ = cmd.Flags().GetStringSlice("grouping")
		return printTree(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)

	treeCmd.Flags().Bool("collapsed", false, "collapse every group")
	treeCmd.Flags().StringP("output", "o", "text", "output format: text, json or yaml")
	treeCmd.Flags().Int("width", 0, "truncate rows to this many columns (0: no limit)")
	treeCmd.Flags().StringSlice("grouping", nil, "tree levels, outermost first (fci_group, breed, class)")
}

type treeOptions struct {
	collapsed bool
	format    presentation.Format // Empty prints the text tree
	width     int
	grouping  []string
}

// outputFormat maps the --output flag to a presentation format. "text" maps
// to the empty format.
func outputFormat(s string) (presentation.Format, error) {
	if s == "" || s == "text" {
		return "", nil
	}
	return presentation.ParseFormat(s)
}

func printTree(ctx context.Context, w io.Writer, c config.Config, opts treeOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(opts.grouping) > 0 {
		c.Grouping = opts.grouping
	}

	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	show, err := resolveShow(ctx, e.svc, c.ShowID)
	if err != nil {
		return err
	}
	roots, err := e.svc.Tree(ctx, show.ID)
	if err != nil {
		return fmt.Errorf("building tree for show %s: %w", show.ID, err)
	}
	if opts.collapsed {
		roots = hierarchy.CollapseAll(roots)
	}

	if opts.format != "" {
		return presentation.NewFormatter(w, opts.format).FormatTree(presentation.FromTree(roots))
	}
	return tree.Render(w, roots, tree.RenderOptions{
		ShowCounts: c.UI.ShowCounts,
		Width:      opts.width,
	})
}
