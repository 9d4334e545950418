// ABOUTME: Centralized configuration defaults for oneblog
// ABOUTME: Contains hardcoded values for the model, server, display and storage

package config

import "time"

// LLM settings
const (
	DefaultModel      = "gpt-4o"
	DefaultLLMBaseURL = "https://api.openai.com/v1"
)

// HTTP settings
const (
	DefaultServerAddr = ":8080"
	// DefaultBackendTimeout bounds MCP-to-backend calls. Generation runs three
	// sequential model calls, so this is generous.
	DefaultBackendTimeout = 10 * time.Minute
	ShutdownTimeout       = 10 * time.Second
	ReadHeaderTimeout     = 10 * time.Second
)

// Session settings
const (
	DefaultSessionTTL  = 24 * time.Hour
	DefaultOperatorTTL = 30 * 24 * time.Hour
)

// Display settings
const (
	DisplayIDLength = 8
	SeparatorWidth  = 60
	DateFormatShort = "02 Jan 06 15:04 MST"
	DateFormatLong  = "Mon, 02 Jan 2006 15:04 MST"
)

// Storage settings
const (
	DefaultDBFilename = "oneblog.db"
)
