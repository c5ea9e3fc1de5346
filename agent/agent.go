//
// Tencent is pleased to support the open source community by making trpc-agent-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval is licensed under the Apache License Version 2.0.
//
//

// Package agent defines the agent and runtime collaborator contracts and
// wires the adapted MCP tool schema into an agent instance.
package agent

import (
	"fmt"
	"sync"

	openai "github.com/openai/openai-go"

	"trpc.group/trpc-go/trpc-agent-eval/mcp"
)

// Agent is the sink for the adapted MCP tool schema.
type Agent interface {
	// Name returns the agent's registered name.
	Name() string

	// SetMCPTools attaches the chat-completion tool params the agent may call.
	SetMCPTools(tools []openai.ChatCompletionToolParam)
}

// Runtime is the execution environment companion of an agent. A runtime
// can advertise itself as an additional MCP tool server by extending the
// configuration it hands back from UpdatedMCPConfig.
type Runtime interface {
	// Initialized reports whether the runtime completed its startup.
	Initialized() bool

	// UpdatedMCPConfig returns the given MCP configuration extended with
	// the runtime's own tool server.
	UpdatedMCPConfig(cfg *mcp.Config) (*mcp.Config, error)
}

// Factory constructs a registered agent.
type Factory func() Agent

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register registers an agent factory under a name. Registering the same
// name twice is a programmer error and fails.
func Register(name string, factory Factory) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, ok := registry[name]; ok {
		return fmt.Errorf("agent %s already registered", name)
	}
	registry[name] = factory
	return nil
}

// New constructs a registered agent by name.
func New(name string) (Agent, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("agent %s not registered", name)
	}
	return factory(), nil
}

// Registered returns the names of all registered agents.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
