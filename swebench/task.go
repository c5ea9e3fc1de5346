//
// Tencent is pleased to support the open source community by making trpc-agent-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval is licensed under the Apache License Version 2.0.
//
//

// Package swebench tracks the identity of the SWE-Bench task currently under
// evaluation and filters the task's own GitHub issue out of issue search
// results, so an agent cannot read the very issue it is being evaluated on.
package swebench

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"trpc.group/trpc-go/trpc-agent-eval/log"
)

// instanceIDPattern matches SWE-Bench instance ids of the form
// {org}__{repo}-{number}, e.g. "django__django-11099".
var instanceIDPattern = regexp.MustCompile(`^([^_]+)__([^-]+)-(\d+)$`)

// TaskRef identifies a single SWE-Bench task.
type TaskRef struct {
	// InstanceID is the raw instance id, kept even when it cannot be parsed.
	InstanceID string `json:"instance_id"`

	// OwnerRepo is the owning repository in "org/repo" form.
	// Empty when the instance id could not be parsed.
	OwnerRepo string `json:"owner_repo,omitempty"`

	// IssueNumber is the target issue number.
	// Zero when the instance id could not be parsed.
	IssueNumber int `json:"issue_number,omitempty"`
}

// FilterEnabled reports whether the task carries enough identity to
// filter issues. OwnerRepo and IssueNumber are either both set or both
// empty; either alone disables filtering.
func (t TaskRef) FilterEnabled() bool {
	return t.OwnerRepo != "" && t.IssueNumber != 0
}

// ParseInstanceID parses a SWE-Bench instance id into a TaskRef.
// On parse failure the returned TaskRef keeps the instance id but has
// no repository or issue number, which disables filtering.
func ParseInstanceID(instanceID string) (TaskRef, error) {
	ref := TaskRef{InstanceID: instanceID}

	m := instanceIDPattern.FindStringSubmatch(instanceID)
	if m == nil {
		return ref, fmt.Errorf("instance id %q does not match {org}__{repo}-{number}", instanceID)
	}

	number, err := strconv.Atoi(m[3])
	if err != nil {
		return ref, fmt.Errorf("parse issue number %q: %w", m[3], err)
	}

	ref.OwnerRepo = m[1] + "/" + m[2]
	ref.IssueNumber = number
	return ref, nil
}

// Store holds the task currently under evaluation.
//
// The intended usage is a single write at evaluation start followed by
// reads from concurrently executing tool calls; the mutex makes that
// safe even if the ordering assumption is ever violated.
type Store struct {
	mu   sync.RWMutex
	task TaskRef
}

// NewStore creates an empty task store.
func NewStore() *Store {
	return &Store{}
}

// DefaultStore is the process-wide store used by the package-level helpers.
// Code that needs isolated task state (tests, concurrent evaluations)
// should create its own Store instead.
var DefaultStore = NewStore()

// SetCurrentTask parses instanceID and records it as the task under
// evaluation, overwriting any previous task. A malformed instance id is
// logged as a warning and stored with filtering disabled.
func (s *Store) SetCurrentTask(instanceID string) {
	ref, err := ParseInstanceID(instanceID)
	if err != nil {
		log.Warnf("Could not parse SWE-Bench instance id: %v", err)
	} else {
		log.Infof("Set current SWE-Bench task: repo=%s, issue_number=%d", ref.OwnerRepo, ref.IssueNumber)
	}

	s.mu.Lock()
	s.task = ref
	s.mu.Unlock()
}

// CurrentTask returns the task currently under evaluation.
// The zero TaskRef means no task has been set.
func (s *Store) CurrentTask() TaskRef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.task
}

// SetCurrentTask records the task under evaluation in the default store.
func SetCurrentTask(instanceID string) {
	DefaultStore.SetCurrentTask(instanceID)
}

// CurrentTask returns the task under evaluation from the default store.
func CurrentTask() TaskRef {
	return DefaultStore.CurrentTask()
}
