//
// Tencent is pleased to support the open source community by making trpc-agent-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval is licensed under the Apache License Version 2.0.
//
//

package mcp

import (
	"encoding/json"
	"strings"

	mcp "trpc.group/trpc-go/trpc-mcp-go"
)

// resultMapping converts a tool call result into a structured mapping.
// A single JSON-object text payload is decoded so downstream consumers can
// inspect fields like "items"; anything else is kept under "content".
func resultMapping(result *mcp.CallToolResult) map[string]any {
	if len(result.Content) == 1 {
		if textContent, ok := result.Content[0].(mcp.TextContent); ok {
			var decoded map[string]any
			if err := json.Unmarshal([]byte(textContent.Text), &decoded); err == nil {
				return decoded
			}
			return map[string]any{"content": textContent.Text}
		}
	}
	return map[string]any{"content": convertContentToResult(result.Content)}
}

// convertContentToResult converts MCP content to a suitable return format.
func convertContentToResult(content []mcp.Content) any {
	if len(content) == 0 {
		return nil
	}

	if len(content) == 1 {
		return convertSingleContent(content[0])
	}

	// Multiple content items - return as array.
	results := make([]any, len(content))
	for i, item := range content {
		results[i] = convertSingleContent(item)
	}
	return results
}

// convertSingleContent converts a single MCP content item to standard format.
func convertSingleContent(content mcp.Content) any {
	switch c := content.(type) {
	case mcp.TextContent:
		return map[string]any{
			"type": "text",
			"text": c.Text,
		}
	case mcp.ImageContent:
		return map[string]any{
			"type":     "image",
			"data":     c.Data,
			"mimetype": c.MimeType,
		}
	case mcp.AudioContent:
		return map[string]any{
			"type":     "audio",
			"data":     c.Data,
			"mimetype": c.MimeType,
		}
	default:
		// Fallback: try to marshal the content as-is.
		contentBytes, err := json.Marshal(content)
		if err != nil {
			return map[string]any{
				"type":  "unknown",
				"error": err.Error(),
			}
		}

		var result any
		if err := json.Unmarshal(contentBytes, &result); err != nil {
			return map[string]any{
				"type":  "unknown",
				"error": err.Error(),
			}
		}
		return result
	}
}

// extractErrorFromContent extracts error information from MCP content.
func extractErrorFromContent(contents []mcp.Content) string {
	if len(contents) == 0 {
		return "unknown error"
	}

	var errorMessages []string
	for _, content := range contents {
		if textContent, ok := content.(mcp.TextContent); ok {
			errorMessages = append(errorMessages, textContent.Text)
		}
	}

	if len(errorMessages) == 0 {
		return "error content not readable"
	}

	return strings.Join(errorMessages, "; ")
}
