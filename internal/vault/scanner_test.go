package vault

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()

	files := map[string]string{
		"vault/Projects/Auth Service.md": `---
title: Auth Service
class: project
tags: [ops, infra]
---

Links to [[User Service]] and [[Tokens]].
`,
		"vault/Projects/User Service.md": `---
class: project
tags: [ops]
---

# User Service

See [[Auth Service]].
`,
		"vault/Inbox/scratch.md":       "just text, no metadata\n",
		"vault/.obsidian/workspace.md": "should never be scanned\n",
		"vault/Templates/daily.md":     "template, skipped by dir name\n",
		"vault/Projects/diagram.png":   "not markdown",
	}
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
	return fs
}

func newTestScanner(t *testing.T) *Scanner {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	return NewScanner(testFS(t), "vault", []string{".obsidian", ".trash", "templates"}, logger)
}

func TestScanWholeVault(t *testing.T) {
	s := newTestScanner(t)

	notes, err := s.Scan("")
	require.NoError(t, err)
	require.Len(t, notes, 3)

	byPath := make(map[string]int)
	for i, n := range notes {
		byPath[n.Path] = i
	}

	auth := notes[byPath["Projects/Auth Service.md"]]
	assert.Equal(t, "Auth Service", auth.Title)
	assert.Equal(t, []string{"ops", "infra"}, auth.Tags)
	assert.Equal(t, []string{"user service", "tokens"}, auth.Links)
	assert.Equal(t, "Projects", auth.Folder)
	assert.Equal(t, "", auth.ParentFolder)
	assert.Equal(t, "project", auth.Class())

	// No title anywhere: falls back to filename stem.
	scratch := notes[byPath["Inbox/scratch.md"]]
	assert.Equal(t, "scratch", scratch.Title)
	assert.Empty(t, scratch.Tags)
}

func TestScanScoped(t *testing.T) {
	s := newTestScanner(t)

	notes, err := s.Scan("Projects")
	require.NoError(t, err)
	assert.Len(t, notes, 2)
	for _, n := range notes {
		assert.Equal(t, "Projects", n.Folder)
	}
}

func TestScanSkipsSystemDirs(t *testing.T) {
	s := newTestScanner(t)

	notes, err := s.Scan("")
	require.NoError(t, err)
	for _, n := range notes {
		assert.NotContains(t, n.Path, ".obsidian")
		assert.NotContains(t, n.Path, "Templates")
	}
}

func TestResolveScopeValidation(t *testing.T) {
	s := newTestScanner(t)

	_, err := s.ResolveScope("../outside")
	assert.True(t, errors.Is(err, ErrScopeOutsideVault), "got %v", err)

	_, err = s.ResolveScope("/etc")
	assert.True(t, errors.Is(err, ErrScopeOutsideVault), "got %v", err)

	_, err = s.ResolveScope("NoSuchFolder")
	assert.True(t, errors.Is(err, ErrScopeNotFound), "got %v", err)

	dir, err := s.ResolveScope("Projects")
	require.NoError(t, err)
	assert.Contains(t, dir, "Projects")
}

func TestScanProgress(t *testing.T) {
	s := newTestScanner(t)

	var calls, lastDone, total int
	s.SetProgress(func(done, n int) {
		calls++
		lastDone = done
		total = n
	})

	_, err := s.Scan("")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, lastDone)
	assert.Equal(t, 3, total)
}
