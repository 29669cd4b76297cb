package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"restaurant-media-organizer/internal/organizer"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Display the folder tree of a business",
	Long: `Display the folder tree derived from the business's storage paths,
including empty folders that were created explicitly.

Example:
  mediactl tree --business 42`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		org, err := loadOrganizer(context.Background())
		if err != nil {
			return err
		}
		printTree(cmd.OutOrStdout(), org.Tree())
		return nil
	},
}

func printTree(w io.Writer, root *organizer.FolderNode) {
	fmt.Fprintf(w, "%s %s\n", rootStyle.Render(root.Name), countStyle.Render(fmt.Sprintf("(%d)", root.ImageCount)))
	printChildren(w, root.Children, "")
}

func printChildren(w io.Writer, children []*organizer.FolderNode, prefix string) {
	for i, child := range children {
		last := i == len(children)-1
		branch, next := "├── ", "│   "
		if last {
			branch, next = "└── ", "    "
		}

		name := folderStyle.Render(child.Name)
		if child.ImageCount == 0 {
			name = emptyStyle.Render(child.Name)
		}
		fmt.Fprintf(w, "%s%s %s\n",
			branchStyle.Render(prefix+branch),
			name,
			countStyle.Render(fmt.Sprintf("(%d)", child.ImageCount)),
		)
		printChildren(w, child.Children, prefix+next)
	}
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

// pathArg trims a folder argument the way the organizer normalizes paths.
func pathArg(s string) string {
	return organizer.NormalizeFolderPath(strings.TrimSpace(s))
}
