// ABOUTME: MCP server command for oneblog CLI
// ABOUTME: Starts the stdio MCP server that calls the service API as the operator

package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/harper/oneblog/internal/backend"
	"github.com/harper/oneblog/internal/config"
	"github.com/harper/oneblog/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agents",
	Long: `Start the Model Context Protocol (MCP) server on stdio.

This allows AI agents like Claude to find trending topics, generate posts,
and manage your drafts through structured tools.

The server does not open storage itself: every tool calls the service API
of a running 'oneblog serve' (mcp.backend_url) as the operator named in
mcp.session_token. Mint that token with 'oneblog token --operator'.

The server communicates via JSON-RPC on stdin/stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		backendURL, err := cfg.RequireBackendURL()
		if err != nil {
			return err
		}
		serviceSecret, err := cfg.RequireServiceSecret()
		if err != nil {
			return err
		}
		sessionSecret, err := cfg.RequireMCPSessionSecret()
		if err != nil {
			return err
		}

		client := backend.NewClient(backendURL, serviceSecret,
			backend.WithHTTPClient(&http.Client{Timeout: config.DefaultBackendTimeout}))
		sessions := mcp.NewSessionResolver(sessionSecret, cfg.MCP.SessionToken)

		server := mcp.NewServer(client, sessions, Version)
		if err := server.ServeStdio(); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
