//
// Tencent is pleased to support the open source community by making trpc-agent-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval is licensed under the Apache License Version 2.0.
//
//

// Package mcp connects to MCP servers, adapts their tool manifests to the
// chat-completion tool schema and dispatches tool invocations, applying the
// SWE-Bench issue filter to issue search results.
package mcp

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"trpc.group/trpc-go/trpc-agent-eval/log"
	mcp "trpc.group/trpc-go/trpc-mcp-go"
)

// connector is the slice of the MCP client surface this package depends on.
// mcp.Connector satisfies it; tests substitute stubs.
type connector interface {
	Initialize(ctx context.Context, req *mcp.InitializeRequest) (*mcp.InitializeResult, error)
	ListTools(ctx context.Context, req *mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error)
	Close() error
}

// newConnector creates the transport client for a server config.
// Package-level so tests can substitute a stub transport.
var newConnector = func(cfg ServerConfig) (connector, error) {
	transportType, err := cfg.validateTransport()
	if err != nil {
		return nil, err
	}
	clientInfo := cfg.clientInfo()

	switch transportType {
	case transportStdio:
		config := mcp.StdioTransportConfig{
			ServerParams: mcp.StdioServerParameters{
				Command: cfg.Command,
				Args:    cfg.Args,
			},
			Timeout: cfg.Timeout,
		}
		client, err := mcp.NewStdioClient(config, clientInfo)
		if err != nil {
			return nil, err
		}
		return client, nil

	case transportStreamable:
		options := []mcp.ClientOption{
			mcp.WithClientLogger(mcp.GetDefaultLogger()),
		}

		headers := http.Header{}
		for k, v := range cfg.Headers {
			headers.Set(k, v)
		}
		if cfg.APIKey != "" {
			headers.Set("Authorization", "Bearer "+cfg.APIKey)
		}
		if len(headers) > 0 {
			options = append(options, mcp.WithHTTPHeaders(headers))
		}

		client, err := mcp.NewClient(cfg.ServerURL, clientInfo, options...)
		if err != nil {
			return nil, err
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unsupported transport: %s", cfg.Transport)
	}
}

// Client wraps a single MCP server connection together with the tools the
// server advertised at connect time.
type Client struct {
	config ServerConfig
	retry  *RetryConfig

	mu        sync.RWMutex
	conn      connector
	connected bool
	tools     []mcp.Tool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRetryConfig overrides the retry behavior for tool calls.
func WithRetryConfig(config RetryConfig) ClientOption {
	return func(c *Client) {
		c.retry = &config
	}
}

// NewClient creates an unconnected client for the given server config.
func NewClient(cfg ServerConfig, opts ...ClientOption) *Client {
	retry := defaultRetryConfig
	c := &Client{
		config: cfg,
		retry:  &retry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ServerName identifies the server for logging.
func (c *Client) ServerName() string {
	if c.config.ServerURL != "" {
		return c.config.ServerURL
	}
	return c.config.Command
}

// Connect establishes the transport, initializes the MCP session and
// fetches the server's tool manifest.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	log.Infof("Connecting to MCP server %s...", c.ServerName())

	conn, err := newConnector(c.config)
	if err != nil {
		return fmt.Errorf("failed to create MCP client: %w", err)
	}

	initResp, err := conn.Initialize(ctx, &mcp.InitializeRequest{})
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			log.Errorf("Failed to close client after initialization failure: %v", closeErr)
		}
		return fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	listResp, err := conn.ListTools(ctx, &mcp.ListToolsRequest{})
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			log.Errorf("Failed to close client after tool listing failure: %v", closeErr)
		}
		return fmt.Errorf("failed to list tools: %w", err)
	}

	log.Infof("MCP session initialized: server=%s version=%s tools=%d",
		initResp.ServerInfo.Name, initResp.ServerInfo.Version, len(listResp.Tools))

	c.conn = conn
	c.connected = true
	c.tools = listResp.Tools
	return nil
}

// Disconnect closes the connection. It is safe to call on a client that
// never connected or already disconnected.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected || c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	c.conn = nil
	c.connected = false
	c.tools = nil

	if err != nil {
		return fmt.Errorf("failed to close MCP client: %w", err)
	}
	return nil
}

// IsConnected returns whether the session is connected.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Tools returns the tools the server advertised at connect time.
func (c *Client) Tools() []mcp.Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]mcp.Tool, len(c.tools))
	copy(result, c.tools)
	return result
}

// HasTool reports whether the server advertises a tool with the given name.
func (c *Client) HasTool(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, tool := range c.tools {
		if tool.Name == name {
			return true
		}
	}
	return false
}

// CallTool invokes a tool on the server and returns the result as a
// structured mapping. Retryable transport failures are retried with
// exponential backoff.
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]any) (map[string]any, error) {
	c.mu.RLock()
	conn := c.conn
	connected := c.connected
	c.mu.RUnlock()

	if !connected || conn == nil {
		return nil, fmt.Errorf("MCP session not connected")
	}

	callReq := &mcp.CallToolRequest{}
	callReq.Params.Name = name
	callReq.Params.Arguments = arguments

	result, err := executeWithRetry(ctx, c.retry, func() (any, error) {
		return conn.CallTool(ctx, callReq)
	}, "call_tool "+name)
	if err != nil {
		return nil, fmt.Errorf("failed to call tool %s: %w", name, err)
	}

	callResp := result.(*mcp.CallToolResult)
	if callResp.IsError {
		errorMessage := extractErrorFromContent(callResp.Content)
		log.Errorf("Tool %s returned error: %s", name, errorMessage)
		return nil, fmt.Errorf("tool %s returned error: %s", name, errorMessage)
	}

	log.Debugf("Tool call %s completed with %d content item(s)", name, len(callResp.Content))
	return resultMapping(callResp), nil
}
