package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"restaurant-media-organizer/internal/organizer"
)

var (
	lsSearch string
	lsSort   string
	lsOrder  string
)

var lsCmd = &cobra.Command{
	Use:   "ls [folder]",
	Short: "List the images directly inside a folder",
	Long: `List the images directly inside a folder. Without a folder the root is
listed.

Examples:
  mediactl ls menu/desserts
  mediactl ls menu --search cake --sort size --order desc`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		by, err := organizer.ParseSortBy(lsSort)
		if err != nil {
			return err
		}
		order, err := organizer.ParseSortOrder(lsOrder)
		if err != nil {
			return err
		}

		org, err := loadOrganizer(context.Background())
		if err != nil {
			return err
		}
		if len(args) == 1 {
			folder := pathArg(args[0])
			if folder != "" && org.Tree().Find(folder) == nil {
				return fmt.Errorf("folder not found: %s", folder)
			}
			org.NavigateToFolder(folder)
		}
		org.SetSearchQuery(lsSearch)
		org.SetSort(by, order)

		crumbs := org.Breadcrumbs()
		names := make([]string, 0, len(crumbs))
		for _, c := range crumbs {
			names = append(names, c.Name)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, rootStyle.Render(strings.Join(names, " / ")))

		images := org.FilteredImages()
		if len(images) == 0 {
			fmt.Fprintln(out, emptyStyle.Render("no images"))
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tSIZE\tDIMENSIONS\tUPLOADED")
		for _, img := range images {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%dx%d\t%s\n",
				img.ID,
				organizer.Filename(img.StoragePath),
				img.FileSize,
				img.Width, img.Height,
				img.UploadedAt.Format(time.DateTime),
			)
		}
		return tw.Flush()
	},
}

func init() {
	lsCmd.Flags().StringVarP(&lsSearch, "search", "s", "", "filter by file name")
	lsCmd.Flags().StringVar(&lsSort, "sort", string(organizer.SortByDate), "sort key: name, date or size")
	lsCmd.Flags().StringVar(&lsOrder, "order", string(organizer.SortDesc), "sort order: asc or desc")
	rootCmd.AddCommand(lsCmd)
}
