//
// Tencent is pleased to support the open source community by making trpc-agent-eval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval is licensed under the Apache License Version 2.0.
//
//

package swebench

import (
	"encoding/json"
	"strings"

	"trpc.group/trpc-go/trpc-agent-eval/log"
)

// Issue is a GitHub issue record as returned by an issue search tool.
// It is externally supplied and read-only to this package.
type Issue map[string]any

// ShouldBlock reports whether the issue is the one the current task is
// evaluated against. It always returns false when no task is set or the
// task's instance id could not be parsed.
//
// The repository is taken from "repository.full_name" when present,
// otherwise derived from the last two path segments of "repository_url".
// Matching is exact, no case folding or normalization.
func (s *Store) ShouldBlock(issue Issue) bool {
	task := s.CurrentTask()
	if !task.FilterEnabled() {
		return false
	}

	repo := issueRepo(issue)
	if repo != task.OwnerRepo {
		return false
	}

	number, ok := issueNumber(issue)
	if !ok || number != task.IssueNumber {
		return false
	}

	log.Infof("Blocking SWE-Bench issue: %s#%d", repo, number)
	return true
}

// FilterIssues returns a new slice with every issue matching the current
// task removed, preserving the original order. The input is never
// mutated; an empty input is returned as is.
func (s *Store) FilterIssues(issues []Issue) []Issue {
	if len(issues) == 0 {
		return issues
	}

	filtered := make([]Issue, 0, len(issues))
	blocked := 0
	for _, issue := range issues {
		if s.ShouldBlock(issue) {
			blocked++
			continue
		}
		filtered = append(filtered, issue)
	}

	if blocked > 0 {
		log.Infof("Filtered %d SWE-Bench task issue(s) from search results", blocked)
	}
	return filtered
}

// ShouldBlock reports whether the issue matches the default store's task.
func ShouldBlock(issue Issue) bool {
	return DefaultStore.ShouldBlock(issue)
}

// FilterIssues filters issues against the default store's task.
func FilterIssues(issues []Issue) []Issue {
	return DefaultStore.FilterIssues(issues)
}

// issueRepo extracts the "owner/repo" identity of an issue record.
func issueRepo(issue Issue) string {
	if repo, ok := issue["repository"].(map[string]any); ok {
		if fullName, ok := repo["full_name"].(string); ok && fullName != "" {
			return fullName
		}
	}

	// Fall back to the repository URL, e.g.
	// https://api.github.com/repos/psf/requests -> "psf/requests".
	repoURL, _ := issue["repository_url"].(string)
	if repoURL == "" {
		return ""
	}
	parts := strings.Split(strings.TrimRight(repoURL, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2] + "/" + parts[len(parts)-1]
}

// issueNumber extracts the issue number, tolerating the numeric types
// produced by JSON decoding.
func issueNumber(issue Issue) (int, bool) {
	switch n := issue["number"].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		v, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}
