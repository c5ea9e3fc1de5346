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
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-agent-eval/internal/telemetry"
	"trpc.group/trpc-go/trpc-agent-eval/log"
	"trpc.group/trpc-go/trpc-agent-eval/swebench"
)

// FilterEnvVar enables SWE-Bench issue filtering for search_issues when
// set to "true" (case-insensitive). Any other value disables it.
const FilterEnvVar = "SWE_BENCH_MCP_FILTER"

// Dispatch errors surfaced to the caller.
var (
	// ErrNoClients is returned when the client pool is empty.
	ErrNoClients = errors.New("no MCP clients found")

	// ErrToolNotFound is returned when no client advertises the requested tool.
	ErrToolNotFound = errors.New("no matching MCP client found for tool")
)

// ToolRequest is a tool invocation emitted by the agent.
type ToolRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// Observation is the uniform envelope around any tool response. Content is
// the JSON-serialized result mapping.
type Observation struct {
	Content string `json:"content"`
}

// FilterEnabled reports whether SWE-Bench issue filtering is switched on
// in the environment.
func FilterEnabled() bool {
	return strings.EqualFold(os.Getenv(FilterEnvVar), "true")
}

// Dispatcher routes tool invocations to the client that owns the tool.
// search_issues invocations pass through the SWE-Bench issue filter when
// the feature is enabled.
type Dispatcher struct {
	clients []*Client
	store   *swebench.Store
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithTaskStore injects an isolated task store instead of the process-wide
// default. Mainly for tests running concurrently.
func WithTaskStore(store *swebench.Store) DispatcherOption {
	return func(d *Dispatcher) {
		d.store = store
	}
}

// NewDispatcher creates a dispatcher over the given client pool.
func NewDispatcher(clients []*Client, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		clients: clients,
		store:   swebench.DefaultStore,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch routes a tool invocation to the owning client and wraps the
// response into an Observation.
func (d *Dispatcher) Dispatch(ctx context.Context, req ToolRequest) (Observation, error) {
	if len(d.clients) == 0 {
		return Observation{}, ErrNoClients
	}

	invocationID := uuid.NewString()
	ctx, span := telemetry.Tracer.Start(ctx, telemetry.NewExecuteToolSpanName(req.Name))
	defer span.End()

	log.Debugf("MCP tool request received: %s (invocation %s)", req.Name, invocationID)

	var (
		obs Observation
		err error
	)
	if req.Name == ToolSearchIssues {
		obs, err = d.dispatchSearchIssues(ctx, req)
	} else {
		obs, err = d.dispatchDirect(ctx, req)
	}

	telemetry.TraceToolCall(span, req.Name, invocationID, err)
	return obs, err
}

// dispatchDirect scans clients in pool order and invokes the first one
// advertising the requested tool.
func (d *Dispatcher) dispatchDirect(ctx context.Context, req ToolRequest) (Observation, error) {
	client := d.findClient(req.Name)
	if client == nil {
		return Observation{}, fmt.Errorf("%w: %s", ErrToolNotFound, req.Name)
	}

	result, err := client.CallTool(ctx, req.Name, req.Arguments)
	if err != nil {
		return Observation{}, err
	}
	return newObservation(result)
}

// dispatchSearchIssues invokes search_issues and removes the current
// SWE-Bench task's own issue from the result. With filtering disabled the
// request falls through to the direct path.
func (d *Dispatcher) dispatchSearchIssues(ctx context.Context, req ToolRequest) (Observation, error) {
	if !FilterEnabled() {
		return d.dispatchDirect(ctx, req)
	}

	task := d.store.CurrentTask()
	if task.InstanceID != "" {
		log.Infof("Filtering GitHub issues for SWE-Bench task: %s (%s#%d)",
			task.InstanceID, task.OwnerRepo, task.IssueNumber)
	}

	client := d.findClient(ToolSearchIssues)
	if client == nil {
		return Observation{}, fmt.Errorf("%w: %s", ErrToolNotFound, ToolSearchIssues)
	}

	result, err := client.CallTool(ctx, req.Name, req.Arguments)
	if err != nil {
		return Observation{}, err
	}

	d.filterSearchResult(result)
	return newObservation(result)
}

// filterSearchResult rewrites the "items" field of a search_issues result
// in place, dropping the current task's issue and recomputing total_count.
func (d *Dispatcher) filterSearchResult(result map[string]any) {
	rawItems, ok := result["items"].([]any)
	if !ok {
		return
	}

	issues := make([]swebench.Issue, 0, len(rawItems))
	for _, item := range rawItems {
		m, ok := item.(map[string]any)
		if !ok {
			log.Debug("Skipping issue filtering: non-object item in search results")
			return
		}
		issues = append(issues, swebench.Issue(m))
	}

	filtered := d.store.FilterIssues(issues)
	items := make([]any, len(filtered))
	for i, issue := range filtered {
		items[i] = map[string]any(issue)
	}
	result["items"] = items
	result["total_count"] = len(filtered)

	if removed := len(issues) - len(filtered); removed > 0 {
		note := fmt.Sprintf("Filtered %d SWE-Bench task issue(s) for evaluation purposes", removed)
		result["filter_note"] = note
		log.Info(note)
	}
}

// findClient returns the first client in pool order advertising the tool.
func (d *Dispatcher) findClient(name string) *Client {
	for _, client := range d.clients {
		if client.HasTool(name) {
			return client
		}
	}
	return nil
}

// newObservation serializes a result mapping into the observation envelope.
func newObservation(result map[string]any) (Observation, error) {
	content, err := json.Marshal(result)
	if err != nil {
		return Observation{}, fmt.Errorf("marshal tool result: %w", err)
	}
	return Observation{Content: string(content)}, nil
}
