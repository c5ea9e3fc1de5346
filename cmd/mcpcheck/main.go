//
// Tencent is pleased to support the open source community by making trpc-agent-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval is licensed under the Apache License Version 2.0.
//
//

// mcpcheck connects to the MCP servers in a config file, lists their tools
// and optionally invokes search_issues through the dispatcher. Useful for
// verifying an evaluation setup before a run.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"trpc.group/trpc-go/trpc-agent-eval/log"
	"trpc.group/trpc-go/trpc-agent-eval/mcp"
	"trpc.group/trpc-go/trpc-agent-eval/swebench"
)

func main() {
	configPath := flag.String("config", "mcp.yaml", "path to the MCP server config file")
	instanceID := flag.String("instance", "", "SWE-Bench instance id to set before dispatching, e.g. django__django-11099")
	query := flag.String("search", "", "if set, invoke search_issues with this query")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	logLevel := flag.String("log-level", log.LevelInfo, "log level: debug, info, warn, error")
	flag.Parse()

	log.SetLevel(*logLevel)

	if err := run(*configPath, *instanceID, *query, *timeout); err != nil {
		log.Errorf("mcpcheck failed: %v", err)
		os.Exit(1)
	}
}

func run(configPath, instanceID, query string, timeout time.Duration) error {
	cfg, err := mcp.LoadConfig(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	clients := mcp.NewClientPool(ctx, cfg.Servers)
	if len(clients) == 0 {
		return fmt.Errorf("no MCP server could be reached (%d configured)", len(cfg.Servers))
	}
	defer mcp.DisconnectAll(clients)

	for _, client := range clients {
		tools := client.Tools()
		fmt.Printf("%s: %d tool(s)\n", client.ServerName(), len(tools))
		for _, tool := range tools {
			fmt.Printf("  - %s: %s\n", tool.Name, tool.Description)
		}
	}

	params := mcp.ToToolParams(clients)
	fmt.Printf("adapted schema exposes %d tool(s): %v\n", len(params), mcp.ToolNames(params))

	if query == "" {
		return nil
	}

	if instanceID != "" {
		swebench.SetCurrentTask(instanceID)
	}

	dispatcher := mcp.NewDispatcher(clients)
	obs, err := dispatcher.Dispatch(ctx, mcp.ToolRequest{
		Name:      mcp.ToolSearchIssues,
		Arguments: map[string]any{"q": query},
	})
	if err != nil {
		return fmt.Errorf("search_issues dispatch: %w", err)
	}

	fmt.Println(obs.Content)
	return nil
}
