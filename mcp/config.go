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
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	mcp "trpc.group/trpc-go/trpc-mcp-go"
)

// transport specifies the transport method: "stdio", "streamable".
type transport string

const (
	// transportStdio is the stdio transport.
	transportStdio transport = "stdio"
	// transportStreamable is the streamable HTTP transport.
	transportStreamable transport = "streamable"
)

// Default configurations.
var (
	defaultClientInfo = mcp.Implementation{
		Name:    "trpc-agent-eval",
		Version: "1.0.0",
	}

	// defaultRetryConfig provides sensible defaults for retry configuration.
	defaultRetryConfig = RetryConfig{
		MaxRetries:     2,
		InitialBackoff: 500 * time.Millisecond,
		BackoffFactor:  2.0,
		MaxBackoff:     8 * time.Second,
	}
)

// ServerConfig defines the configuration for connecting to a single MCP server.
type ServerConfig struct {
	// Transport specifies the transport method: "stdio", "streamable".
	// When empty it is inferred from the rest of the config.
	Transport string `json:"transport,omitempty" yaml:"transport,omitempty"`

	// Streamable HTTP configuration.
	ServerURL string            `json:"server_url,omitempty" yaml:"server_url,omitempty"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	// APIKey is sent as a bearer token when set.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// STDIO configuration.
	Command string   `json:"command,omitempty" yaml:"command,omitempty"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty"`

	// Common configuration.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// ClientInfo overrides the default client identity advertised to the server.
	ClientInfo mcp.Implementation `json:"client_info,omitempty" yaml:"-"`
}

// Config is the MCP configuration consumed by the client pool builder.
type Config struct {
	Servers []ServerConfig `json:"servers" yaml:"servers"`
}

// RetryConfig defines configuration for MCP tool call retry behavior.
type RetryConfig struct {
	// MaxRetries specifies the maximum number of retry attempts for tool calls.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// InitialBackoff specifies the initial backoff duration before the first retry.
	InitialBackoff time.Duration `json:"initial_backoff" yaml:"initial_backoff"`

	// BackoffFactor specifies the factor to multiply the backoff duration for
	// each retry. For example, with factor 2.0: 100ms -> 200ms -> 400ms.
	BackoffFactor float64 `json:"backoff_factor" yaml:"backoff_factor"`

	// MaxBackoff specifies the maximum backoff duration to cap exponential growth.
	MaxBackoff time.Duration `json:"max_backoff" yaml:"max_backoff"`
}

// LoadConfig reads a YAML config file describing the MCP servers to connect to.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read MCP config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse MCP config %s: %w", path, err)
	}
	return &cfg, nil
}

// validateTransport validates the transport string and returns the internal
// transport type. An empty transport is inferred from the server config.
func (c ServerConfig) validateTransport() (transport, error) {
	switch c.Transport {
	case "stdio":
		return transportStdio, nil
	case "streamable", "streamable_http":
		return transportStreamable, nil
	case "":
		if c.Command != "" {
			return transportStdio, nil
		}
		if c.ServerURL != "" {
			return transportStreamable, nil
		}
		return "", fmt.Errorf("transport not set and neither command nor server_url is configured")
	default:
		return "", fmt.Errorf("unsupported transport: %s, supported: stdio, streamable", c.Transport)
	}
}

// clientInfo returns the client identity to advertise, falling back to the
// package default.
func (c ServerConfig) clientInfo() mcp.Implementation {
	if c.ClientInfo.Name == "" {
		return defaultClientInfo
	}
	return c.ClientInfo
}
