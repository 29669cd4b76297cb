package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"restaurant-media-organizer/internal/client"
)

var mvCmd = &cobra.Command{
	Use:   "mv <target-folder> <image-id>...",
	Short: "Move images into a folder",
	Long: `Move images into a folder. The folder is created when missing.

Example:
  mediactl mv menu/desserts 3f2a9c 81bd04`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		org, err := loadOrganizer(ctx)
		if err != nil {
			return err
		}
		if err := org.MoveImages(ctx, args[1:], args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), done("Moved %d images to %s", len(args)-1, pathArg(args[0])))
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <image-id>...",
	Short: "Delete images",
	Long: `Delete images one at a time. Deletion stops at the first failure.

Example:
  mediactl rm 3f2a9c 81bd04`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		org, err := loadOrganizer(ctx)
		if err != nil {
			return err
		}
		if err := org.DeleteImages(ctx, args); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), done("Deleted %d images", len(args)))
		return nil
	},
}

var uploadFolder string

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload images into a folder",
	Long: `Upload image files. Without --folder they land in uncategorized.

Example:
  mediactl upload --folder menu/desserts cake.jpg pie.webp`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if businessID == "" {
			return fmt.Errorf("business id is required (--business or MEDIA_BUSINESS_ID)")
		}

		files := make([]client.UploadFile, 0, len(args))
		for _, name := range args {
			f, err := os.Open(name)
			if err != nil {
				return err
			}
			defer f.Close()
			files = append(files, client.UploadFile{Name: filepath.Base(name), Reader: f})
		}

		res, err := api.UploadImages(context.Background(), businessID, pathArg(uploadFolder), files...)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, img := range res.Uploaded {
			fmt.Fprintf(out, "%s  %s\n", img.ID, countStyle.Render(img.StoragePath))
		}
		fmt.Fprintln(out, done("Uploaded %d images", res.Count))
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadFolder, "folder", "f", "", "destination folder")
	rootCmd.AddCommand(mvCmd, rmCmd, uploadCmd)
}
