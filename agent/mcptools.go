//
// Tencent is pleased to support the open source community by making trpc-agent-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval is licensed under the Apache License Version 2.0.
//
//

package agent

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"

	"trpc.group/trpc-go/trpc-agent-eval/log"
	"trpc.group/trpc-go/trpc-agent-eval/mcp"
)

// FetchMCPTools connects to every configured MCP server, adapts the
// advertised tools to the chat-completion schema and disconnects again.
// Connections are not kept alive - tool invocation later reconnects
// through its own pool. Returns an empty list when no server could be
// reached.
func FetchMCPTools(ctx context.Context, cfg *mcp.Config) []openai.ChatCompletionToolParam {
	if cfg == nil || len(cfg.Servers) == 0 {
		log.Debug("No MCP servers configured")
		return []openai.ChatCompletionToolParam{}
	}

	clients := mcp.NewClientPool(ctx, cfg.Servers)
	if len(clients) == 0 {
		log.Debug("No MCP clients were successfully connected")
		return []openai.ChatCompletionToolParam{}
	}
	defer mcp.DisconnectAll(clients)

	return mcp.ToToolParams(clients)
}

// AddMCPTools attaches the MCP tool schema to an agent: the runtime must
// be present and initialized (precondition violations are programmer
// errors), its updated config - which advertises the runtime itself as a
// tool server - drives pool construction and schema adaptation.
func AddMCPTools(ctx context.Context, agent Agent, runtime Runtime, cfg *mcp.Config) error {
	if agent == nil {
		return errors.New("agent is required to add MCP tools")
	}
	if runtime == nil {
		return errors.New("runtime is required to add MCP tools")
	}
	if !runtime.Initialized() {
		return errors.New("runtime must be initialized before adding MCP tools")
	}

	updated, err := runtime.UpdatedMCPConfig(cfg)
	if err != nil {
		return fmt.Errorf("get updated MCP config: %w", err)
	}

	tools := FetchMCPTools(ctx, updated)
	log.Infof("Loaded %d MCP tools: %v", len(tools), mcp.ToolNames(tools))

	agent.SetMCPTools(tools)
	return nil
}
