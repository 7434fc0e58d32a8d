package undo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/notegrep/pkg/vault"
)

func entry(label string, docs ...DocumentState) Entry {
	return Entry{
		Time:      time.Now(),
		Scope:     ScopeVault,
		Template:  label,
		Documents: docs,
	}
}

func TestHistory_PushPop(t *testing.T) {
	h := NewHistory(10)
	assert.Equal(t, 0, h.Len())

	h.Push(entry("first"))
	h.Push(entry("second"))

	got, err := h.PopMostRecent()
	require.NoError(t, err)
	assert.Equal(t, "second", got.Template)

	got, err = h.PopMostRecent()
	require.NoError(t, err)
	assert.Equal(t, "first", got.Template)

	_, err = h.PopMostRecent()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestHistory_CapacityEvictsOldest(t *testing.T) {
	h := NewHistory(2)
	h.Push(entry("A"))
	h.Push(entry("B"))
	h.Push(entry("C"))

	assert.Equal(t, 2, h.Len())

	got, err := h.PopMostRecent()
	require.NoError(t, err)
	assert.Equal(t, "C", got.Template)

	got, err = h.PopMostRecent()
	require.NoError(t, err)
	assert.Equal(t, "B", got.Template)

	// A was evicted, not retrievable.
	_, err = h.PopMostRecent()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestHistory_DefaultCapacity(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < DefaultCapacity+5; i++ {
		h.Push(entry("e"))
	}
	assert.Equal(t, DefaultCapacity, h.Len())
}

func TestHistory_Clear(t *testing.T) {
	h := NewHistory(5)
	h.Push(entry("A"))
	h.Clear()

	assert.Equal(t, 0, h.Len())
	_, err := h.PopMostRecent()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRevert(t *testing.T) {
	ctx := context.Background()
	v := vault.NewMemVault(map[string]string{
		"a.md": "after a",
		"b.md": "after b",
		"c.md": "untouched",
	})

	e := entry("batch",
		DocumentState{Path: "a.md", Before: "before a", After: "after a"},
		DocumentState{Path: "b.md", Before: "before b", After: "after b"},
	)

	restored, failed := Revert(ctx, e, v)
	assert.Equal(t, 2, restored)
	assert.Equal(t, 0, failed)

	for path, want := range map[string]string{
		"a.md": "before a",
		"b.md": "before b",
		"c.md": "untouched",
	} {
		got, err := v.Read(ctx, vault.DocumentRef{Path: path})
		require.NoError(t, err)
		assert.Equal(t, want, got, "content of %s", path)
	}
}

func TestRevert_FailuresCountedIndependently(t *testing.T) {
	ctx := context.Background()
	v := vault.NewMemVault(map[string]string{
		"a.md": "after a",
		"b.md": "after b",
	})
	v.FailWrites["a.md"] = true

	e := entry("batch",
		DocumentState{Path: "a.md", Before: "before a"},
		DocumentState{Path: "b.md", Before: "before b"},
	)

	restored, failed := Revert(ctx, e, v)
	assert.Equal(t, 1, restored)
	assert.Equal(t, 1, failed)

	got, err := v.Read(ctx, vault.DocumentRef{Path: "b.md"})
	require.NoError(t, err)
	assert.Equal(t, "before b", got)
}
