package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Create a folder",
	Long: `Create a folder. Intermediate folders appear automatically.

Example:
  mediactl mkdir menu/2024/summer`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		org, err := loadOrganizer(ctx)
		if err != nil {
			return err
		}
		if err := org.CreateFolder(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), done("Created %s", pathArg(args[0])))
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <old-path> <new-path>",
	Short: "Rename a folder and everything below it",
	Long: `Rename a folder. Every image and subfolder below it moves along.

Example:
  mediactl rename menu carte`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		org, err := loadOrganizer(ctx)
		if err != nil {
			return err
		}
		if err := org.RenameFolder(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), done("Renamed %s to %s", pathArg(args[0]), pathArg(args[1])))
		return nil
	},
}

var rmdirForce bool

var rmdirCmd = &cobra.Command{
	Use:   "rmdir <path>",
	Short: "Delete a folder with all its images",
	Long: `Delete a folder, its subfolders and every image inside them.
Folders that still hold images are only deleted with --force.

Example:
  mediactl rmdir events/2023 --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		org, err := loadOrganizer(ctx)
		if err != nil {
			return err
		}
		folder := pathArg(args[0])
		if node := org.Tree().Find(folder); node != nil && node.ImageCount > 0 && !rmdirForce {
			return fmt.Errorf("%s holds %d images, use --force to delete them", folder, node.ImageCount)
		}
		if err := org.DeleteFolder(ctx, folder); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), done("Deleted %s", folder))
		return nil
	},
}

func init() {
	rmdirCmd.Flags().BoolVarP(&rmdirForce, "force", "f", false, "delete folders that still hold images")
	rootCmd.AddCommand(mkdirCmd, renameCmd, rmdirCmd)
}
