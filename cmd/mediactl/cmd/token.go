package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"restaurant-media-organizer/internal/utils"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Mint an API token signed with JWT_SECRET",
	Long: `Mint a bearer token for a user, signed with the server's JWT_SECRET.
Meant for local development and scripts.

Example:
  export MEDIA_API_TOKEN=$(mediactl token u1)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ttl := tokenTTL
		if ttl <= 0 {
			ttl = cfg.JWT.Expiration
		}
		t, err := utils.GenerateToken(args[0], cfg.JWT.Secret, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), t)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (defaults to JWT_EXPIRATION)")
	rootCmd.AddCommand(tokenCmd)
}
