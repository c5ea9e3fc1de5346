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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestsStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore()
	store.SetCurrentTask("psf__requests-42")
	task := store.CurrentTask()
	require.Equal(t, "psf/requests", task.OwnerRepo)
	require.Equal(t, 42, task.IssueNumber)
	return store
}

func TestShouldBlockNoTask(t *testing.T) {
	store := NewStore()
	issue := Issue{
		"number":     42,
		"repository": map[string]any{"full_name": "psf/requests"},
	}
	assert.False(t, store.ShouldBlock(issue))
}

func TestShouldBlockByFullName(t *testing.T) {
	store := requestsStore(t)

	tests := []struct {
		name  string
		issue Issue
		want  bool
	}{
		{
			name: "matching repo and number",
			issue: Issue{
				"number":     42,
				"repository": map[string]any{"full_name": "psf/requests"},
			},
			want: true,
		},
		{
			name: "matching repo, different number",
			issue: Issue{
				"number":     43,
				"repository": map[string]any{"full_name": "psf/requests"},
			},
			want: false,
		},
		{
			name: "same owner, different repo",
			issue: Issue{
				"number":     42,
				"repository": map[string]any{"full_name": "psf/black"},
			},
			want: false,
		},
		{
			name: "number as float64 from JSON decoding",
			issue: Issue{
				"number":     float64(42),
				"repository": map[string]any{"full_name": "psf/requests"},
			},
			want: true,
		},
		{
			name:  "missing everything",
			issue: Issue{},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, store.ShouldBlock(tt.issue))
		})
	}
}

func TestShouldBlockByRepositoryURL(t *testing.T) {
	store := requestsStore(t)

	blocked := Issue{
		"number":         42,
		"repository_url": "https://api.github.com/repos/psf/requests",
	}
	assert.True(t, store.ShouldBlock(blocked))

	trailingSlash := Issue{
		"number":         42,
		"repository_url": "https://api.github.com/repos/psf/requests/",
	}
	assert.True(t, store.ShouldBlock(trailingSlash))

	otherRepo := Issue{
		"number":         42,
		"repository_url": "https://api.github.com/repos/psf/black",
	}
	assert.False(t, store.ShouldBlock(otherRepo))

	// full_name wins over repository_url when both are present.
	fullNameWins := Issue{
		"number":         42,
		"repository":     map[string]any{"full_name": "psf/black"},
		"repository_url": "https://api.github.com/repos/psf/requests",
	}
	assert.False(t, store.ShouldBlock(fullNameWins))
}

func TestFilterIssuesEmpty(t *testing.T) {
	store := requestsStore(t)

	var empty []Issue
	assert.Nil(t, store.FilterIssues(empty))

	zeroLen := []Issue{}
	got := store.FilterIssues(zeroLen)
	assert.Len(t, got, 0)
}

func TestFilterIssuesOrderPreserved(t *testing.T) {
	store := requestsStore(t)

	first := Issue{
		"number":     1,
		"repository": map[string]any{"full_name": "psf/requests"},
	}
	blocked := Issue{
		"number":     42,
		"repository": map[string]any{"full_name": "psf/requests"},
	}
	last := Issue{
		"number":     99,
		"repository": map[string]any{"full_name": "psf/requests"},
	}

	input := []Issue{first, blocked, last}
	got := store.FilterIssues(input)

	require.Len(t, got, 2)
	assert.Equal(t, first, got[0])
	assert.Equal(t, last, got[1])

	// The input slice is left untouched.
	require.Len(t, input, 3)
	assert.Equal(t, blocked, input[1])
}

func TestFilterIssuesDisabledTask(t *testing.T) {
	store := NewStore()
	store.SetCurrentTask("not-an-instance-id")

	issues := []Issue{
		{
			"number":     42,
			"repository": map[string]any{"full_name": "psf/requests"},
		},
	}
	got := store.FilterIssues(issues)
	assert.Len(t, got, 1)
}

func TestDefaultStoreHelpers(t *testing.T) {
	original := DefaultStore
	defer func() { DefaultStore = original }()

	DefaultStore = NewStore()
	SetCurrentTask("psf__requests-42")
	require.Equal(t, "psf/requests", CurrentTask().OwnerRepo)

	issue := Issue{
		"number":     42,
		"repository": map[string]any{"full_name": "psf/requests"},
	}
	assert.True(t, ShouldBlock(issue))
	assert.Len(t, FilterIssues([]Issue{issue}), 0)
}
