package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"restaurant-media-organizer/internal/client"
	"restaurant-media-organizer/internal/config"
	"restaurant-media-organizer/internal/logging"
	"restaurant-media-organizer/internal/organizer"
)

var (
	cfg        *config.Config
	apiURL     string
	token      string
	businessID string
	verbose    bool

	api    *client.Client
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "mediactl",
	Short: "Organize a business's media library from the terminal",
	Long: `mediactl talks to the media API and shows a business's images as a
folder tree derived from their storage paths.

It can list, upload, move and delete images, and create, rename and
delete folders.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if verbose {
			l, err := logging.New("development")
			if err != nil {
				return err
			}
			logger = l
		}
		api = client.New(apiURL, token, cfg.Client.Timeout)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api", cfg.Client.BaseURL, "media API base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", cfg.Client.Token, "bearer token for the media API")
	rootCmd.PersistentFlags().StringVarP(&businessID, "business", "b", os.Getenv("MEDIA_BUSINESS_ID"), "business id")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log organizer activity")
}

// loadOrganizer fetches the business and builds its folder view.
func loadOrganizer(ctx context.Context) (*organizer.Organizer, error) {
	if businessID == "" {
		return nil, fmt.Errorf("business id is required (--business or MEDIA_BUSINESS_ID)")
	}
	b, err := api.GetBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return organizer.New(b, api, organizer.WithLogger(logger))
}
