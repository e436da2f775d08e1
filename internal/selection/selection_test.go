package selection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLongPressSeedsSelection(t *testing.T) {
	m := NewManager()
	assert.False(t, m.Selecting())

	m.LongPress("a")
	assert.True(t, m.Selecting())
	assert.Equal(t, []string{"a"}, m.Selected())
	assert.Equal(t, 1, m.Count())
}

func TestTapOutsideSelectionIsNotConsumed(t *testing.T) {
	m := NewManager()
	assert.False(t, m.Tap("a"), "a plain tap runs the item's normal action")
	assert.False(t, m.Selecting())
}

func TestTapTogglesMembership(t *testing.T) {
	m := NewManager()
	m.LongPress("a")

	assert.True(t, m.Tap("b"))
	assert.True(t, m.Tap("c"))
	assert.Equal(t, []string{"a", "b", "c"}, m.Selected())

	assert.True(t, m.Tap("b"), "second tap deselects")
	assert.Equal(t, []string{"a", "c"}, m.Selected())
	assert.False(t, m.IsSelected("b"))
}

func TestLongPressWhileSelectingActsLikeTap(t *testing.T) {
	m := NewManager()
	m.LongPress("a")
	m.LongPress("b")
	assert.Equal(t, []string{"a", "b"}, m.Selected())

	m.LongPress("a")
	assert.Equal(t, []string{"b"}, m.Selected())
}

func TestCancelHasNoSideEffects(t *testing.T) {
	m := NewManager()
	m.LongPress("a")
	m.Tap("b")

	m.Cancel()
	assert.False(t, m.Selecting())
	assert.Zero(t, m.Count())
	assert.False(t, m.Tap("c"), "back to idle: taps are not consumed")
}

func TestConfirmAppliesAllAndResets(t *testing.T) {
	m := NewManager()
	m.LongPress("a")
	m.Tap("b")

	var applied []string
	err := m.Confirm(func(ids []string) error {
		applied = ids
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, applied)
	assert.False(t, m.Selecting())
	assert.Zero(t, m.Count())
}

func TestConfirmFailureKeepsSelection(t *testing.T) {
	m := NewManager()
	m.LongPress("a")
	m.Tap("b")

	boom := errors.New("backend down")
	err := m.Confirm(func(ids []string) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.True(t, m.Selecting(), "failed apply leaves the selection for retry")
	assert.Equal(t, []string{"a", "b"}, m.Selected())
}

func TestConfirmWhileIdleIsNoOp(t *testing.T) {
	m := NewManager()
	called := false
	err := m.Confirm(func(ids []string) error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.False(t, called)
}

// Seed, toggle everything off, confirm: apply never runs on an empty
// selection but the mode still resets.
func TestConfirmEmptySelectionResetsWithoutApply(t *testing.T) {
	m := NewManager()
	m.LongPress("a")
	m.Tap("a")
	assert.Zero(t, m.Count())

	called := false
	err := m.Confirm(func(ids []string) error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.False(t, called)
	assert.False(t, m.Selecting())
}
