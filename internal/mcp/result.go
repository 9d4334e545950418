// ABOUTME: Builds dual-format tool results: a text summary plus structured content
// ABOUTME: A JSON text block repeats the structured content for clients that ignore it

package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// DataScope marks results that come from the user's app data.
const DataScope = "app"

func toolResult(structured interface{}, text string) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(structured)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
			mcp.NewTextContent(string(jsonBytes)),
		},
		StructuredContent: structured,
	}, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func annotations(readOnly, idempotent, destructive bool) mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		ReadOnlyHint:    boolPtr(readOnly),
		IdempotentHint:  boolPtr(idempotent),
		DestructiveHint: boolPtr(destructive),
	}
}
