// ABOUTME: Token command that mints signed session tokens
// ABOUTME: Issues app session tokens or, with --operator, the MCP operator token

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/oneblog/internal/auth"
	"github.com/harper/oneblog/internal/config"
)

var (
	tokenTTL      time.Duration
	tokenOperator bool
)

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Mint a session token for a user",
	Long: `Mint a signed session token for a user and print it to stdout.

Without flags the token is an app session token, signed with
auth.session_secret, for the Authorization: Bearer header of /api requests.

With --operator the token is signed with mcp.session_secret for the MCP
server. Put it in mcp.session_token (MCP_SESSION_TOKEN).

Examples:
  oneblog token user_123
  oneblog token user_123 --ttl 1h
  oneblog token user_123 --operator`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, issuer, err := tokenSigner(tokenOperator)
		if err != nil {
			return err
		}

		ttl := tokenTTL
		if ttl == 0 {
			ttl = config.DefaultSessionTTL
			if tokenOperator {
				ttl = config.DefaultOperatorTTL
			}
		}

		token, err := auth.NewTokenManager(secret, issuer).Issue(args[0], ttl, time.Now())
		if err != nil {
			return fmt.Errorf("failed to issue token: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default 24h, or 720h with --operator)")
	tokenCmd.Flags().BoolVar(&tokenOperator, "operator", false, "mint the MCP operator token")
}

// tokenSigner returns the signing secret and issuer for the requested token kind.
func tokenSigner(operator bool) (string, string, error) {
	if operator {
		secret, err := cfg.RequireMCPSessionSecret()
		return secret, auth.OperatorIssuer, err
	}
	secret, err := cfg.RequireSessionSecret()
	return secret, auth.AppIssuer, err
}
