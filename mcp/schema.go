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
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	"trpc.group/trpc-go/trpc-agent-eval/log"
	mcp "trpc.group/trpc-go/trpc-mcp-go"
)

// Search tool names that are exposed to the agent. Only these three are
// emitted by ToToolParams; search_issues additionally carries the
// evaluation disclosure so the agent knows results are filtered.
const (
	ToolSearchIssues       = "search_issues"
	ToolSearchRepositories = "search_repositories"
	ToolSearchCode         = "search_code"
)

// filterDisclosure is appended to the search_issues tool description.
const filterDisclosure = " (Note: Current SWE-bench task issues are filtered out for evaluation purposes)"

// exposedTools lists the tool names included in the adapted schema.
var exposedTools = map[string]struct{}{
	ToolSearchIssues:       {},
	ToolSearchRepositories: {},
	ToolSearchCode:         {},
}

// ToToolParams flattens the tools advertised by every client into
// chat-completion tool params. A nil pool yields an empty result with a
// warning. Conversion is fail-closed: any error empties the whole result
// rather than returning a partial schema.
func ToToolParams(clients []*Client) []openai.ChatCompletionToolParam {
	if clients == nil {
		log.Warn("MCP client pool is nil, returning empty tool list")
		return []openai.ChatCompletionToolParam{}
	}

	all := make([]openai.ChatCompletionToolParam, 0)
	for _, client := range clients {
		for _, tool := range client.Tools() {
			if _, ok := exposedTools[tool.Name]; !ok {
				continue
			}

			param, err := toToolParam(tool)
			if err != nil {
				log.Errorf("Error converting MCP tools to tool params: %v", err)
				return []openai.ChatCompletionToolParam{}
			}
			all = append(all, param)
		}
	}
	return all
}

// toToolParam converts a single MCP tool to a chat-completion tool param.
func toToolParam(tool mcp.Tool) (openai.ChatCompletionToolParam, error) {
	parameters, err := toFunctionParameters(tool.InputSchema)
	if err != nil {
		return openai.ChatCompletionToolParam{}, fmt.Errorf("convert schema for tool %s: %w", tool.Name, err)
	}

	description := tool.Description
	if tool.Name == ToolSearchIssues {
		description += filterDisclosure
	}

	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        tool.Name,
			Description: openai.String(description),
			Parameters:  parameters,
		},
	}, nil
}

// toFunctionParameters converts an MCP input schema into OpenAI function
// parameters via a JSON round trip.
func toFunctionParameters(schema any) (shared.FunctionParameters, error) {
	if schema == nil {
		return shared.FunctionParameters{"type": "object"}, nil
	}

	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal tool schema: %w", err)
	}

	var parameters shared.FunctionParameters
	if err := json.Unmarshal(schemaBytes, &parameters); err != nil {
		return nil, fmt.Errorf("unmarshal tool schema: %w", err)
	}
	if parameters == nil {
		// A typed-nil schema marshals to "null".
		return shared.FunctionParameters{"type": "object"}, nil
	}
	return parameters, nil
}

// ToolNames returns the function names of the given tool params.
func ToolNames(tools []openai.ChatCompletionToolParam) []string {
	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.Function.Name
	}
	return names
}
