//
// Tencent is pleased to support the open source community by making trpc-agent-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval is licensed under the Apache License Version 2.0.
//
//

// Package telemetry provides tracing helpers for tool dispatch.
package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// telemetry service constants.
const (
	InstrumentName = "trpc.agent.eval"

	OperationExecuteTool = "execute_tool"
)

// Telemetry attribute keys.
const (
	KeyToolName     = "gen_ai.tool.name"
	KeyInvocationID = "trpc.agent.eval.invocation_id"
	KeyServerCount  = "trpc.agent.eval.mcp.server_count"
)

// Tracer is the tracer used for tool dispatch spans. It resolves through
// the global tracer provider, so it stays a no-op until the host process
// installs one.
var Tracer trace.Tracer = otel.Tracer(InstrumentName)

// NewExecuteToolSpanName creates a new execute tool span name.
func NewExecuteToolSpanName(toolName string) string {
	return fmt.Sprintf("%s %s", OperationExecuteTool, toolName)
}

// TraceToolCall annotates a tool dispatch span with the tool identity and
// outcome.
func TraceToolCall(span trace.Span, toolName, invocationID string, err error) {
	span.SetAttributes(
		attribute.String(KeyToolName, toolName),
		attribute.String(KeyInvocationID, invocationID),
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
