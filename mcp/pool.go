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
	"context"

	"trpc.group/trpc-go/trpc-agent-eval/log"
)

// NewClientPool connects to each configured server sequentially, in config
// order. A server that fails to connect is logged and skipped; its client
// is disconnected best-effort. The pool never fails as a whole - when every
// connection fails the result is simply empty.
func NewClientPool(ctx context.Context, servers []ServerConfig) []*Client {
	clients := make([]*Client, 0, len(servers))

	for _, server := range servers {
		client := NewClient(server)
		if err := client.Connect(ctx); err != nil {
			log.Errorf("Failed to connect to %s: %v", client.ServerName(), err)
			if disconnectErr := client.Disconnect(); disconnectErr != nil {
				log.Errorf("Error during disconnect after failed connection: %v", disconnectErr)
			}
			continue
		}
		log.Infof("Connected to MCP server %s", client.ServerName())
		clients = append(clients, client)
	}

	return clients
}

// DisconnectAll closes every client in the pool, logging rather than
// propagating individual failures.
func DisconnectAll(clients []*Client) {
	for _, client := range clients {
		if err := client.Disconnect(); err != nil {
			log.Errorf("Error disconnecting MCP client %s: %v", client.ServerName(), err)
		}
	}
}
