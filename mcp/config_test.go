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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	content := `
servers:
  - transport: streamable
    server_url: https://mcp.example.com/sse
    api_key: secret-token
    headers:
      X-Custom: value
  - transport: stdio
    command: github-mcp-server
    args: ["--stdio"]
`
	path := filepath.Join(t.TempDir(), "mcp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Servers, 2)

	first := cfg.Servers[0]
	assert.Equal(t, "streamable", first.Transport)
	assert.Equal(t, "https://mcp.example.com/sse", first.ServerURL)
	assert.Equal(t, "secret-token", first.APIKey)
	assert.Equal(t, "value", first.Headers["X-Custom"])

	second := cfg.Servers[1]
	assert.Equal(t, "stdio", second.Transport)
	assert.Equal(t, "github-mcp-server", second.Command)
	assert.Equal(t, []string{"--stdio"}, second.Args)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("servers: [unclosed"), 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestValidateTransport(t *testing.T) {
	tests := []struct {
		name    string
		config  ServerConfig
		want    transport
		wantErr bool
	}{
		{
			name:   "explicit stdio",
			config: ServerConfig{Transport: "stdio", Command: "server"},
			want:   transportStdio,
		},
		{
			name:   "explicit streamable",
			config: ServerConfig{Transport: "streamable", ServerURL: "http://x"},
			want:   transportStreamable,
		},
		{
			name:   "streamable_http alias",
			config: ServerConfig{Transport: "streamable_http", ServerURL: "http://x"},
			want:   transportStreamable,
		},
		{
			name:   "inferred stdio from command",
			config: ServerConfig{Command: "server"},
			want:   transportStdio,
		},
		{
			name:   "inferred streamable from url",
			config: ServerConfig{ServerURL: "http://x"},
			want:   transportStreamable,
		},
		{
			name:    "nothing to infer from",
			config:  ServerConfig{},
			wantErr: true,
		},
		{
			name:    "unsupported transport",
			config:  ServerConfig{Transport: "carrier-pigeon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.config.validateTransport()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientInfoDefault(t *testing.T) {
	cfg := ServerConfig{}
	assert.Equal(t, defaultClientInfo, cfg.clientInfo())

	cfg.ClientInfo.Name = "custom"
	cfg.ClientInfo.Version = "2.0.0"
	assert.Equal(t, "custom", cfg.clientInfo().Name)
}
