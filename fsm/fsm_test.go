package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLinear(t *testing.T) {
	f, err := NewLinear([]string{"START", "STEP_1", "STEP_2", "COMPLETE"})
	require.NoError(t, err)
	require.NoError(t, f.Validate())

	assert.Equal(t, "START", f.CurrentState())
	assert.True(t, f.Transition("next"))
	assert.Equal(t, "STEP_1", f.CurrentState())
	assert.True(t, f.Transition("next"))
	assert.True(t, f.Transition("next"))
	assert.Equal(t, "COMPLETE", f.CurrentState())
	assert.True(t, f.IsTerminal("COMPLETE"))
	assert.False(t, f.Transition("next"))
}

func TestNewLinear_Empty(t *testing.T) {
	_, err := NewLinear(nil)
	assert.Error(t, err)
}

func TestFSM_CanTransitionAndAvailableEvents(t *testing.T) {
	f, err := NewLinear([]string{"a", "b", "c"})
	require.NoError(t, err)

	assert.True(t, f.CanTransition("a", "next"))
	assert.False(t, f.CanTransition("a", "bogus"))
	assert.Equal(t, []string{"next"}, f.AvailableEvents("a"))
	assert.Empty(t, f.AvailableEvents("c"))
}

func TestFSM_StatusAndResultIndependence(t *testing.T) {
	f, err := NewBranching([]string{Start, "WORK", Complete}, Start, []BranchTransition{
		{From: Start, Event: "next", To: "WORK"},
		{From: "WORK", Event: "next", To: Complete},
	})
	require.NoError(t, err)

	md, ok := f.StateMetadataFor("WORK")
	require.True(t, ok)
	assert.Equal(t, StatusPending, md.Status)

	f.SetResult("WORK", "partial")
	md, _ = f.StateMetadataFor("WORK")
	assert.Equal(t, StatusPending, md.Status, "setting a result must not change status")

	f.SetStatus("WORK", StatusExecuting)
	md, _ = f.StateMetadataFor("WORK")
	assert.Equal(t, StatusExecuting, md.Status)

	result, ok := f.Result("WORK")
	require.True(t, ok)
	assert.Equal(t, "partial", result)
}

func TestFSM_Reset(t *testing.T) {
	f, err := NewLinear([]string{"a", "b"})
	require.NoError(t, err)
	f.Transition("next")
	assert.Equal(t, "b", f.CurrentState())
	f.Reset()
	assert.Equal(t, "a", f.CurrentState())
}

func TestFSM_Validate(t *testing.T) {
	f, err := NewLinear([]string{"a", "b"})
	require.NoError(t, err)
	assert.NoError(t, f.Validate())
}

func TestNew_InvalidInitial(t *testing.T) {
	_, err := New([]string{"a", "b"}, "c")
	assert.Error(t, err)
}

func TestFSM_AddTransitionUnknownStates(t *testing.T) {
	f, err := New([]string{"a", "b"}, "a")
	require.NoError(t, err)
	assert.Error(t, f.AddTransition("a", "next", "zzz"))
	assert.Error(t, f.AddTransition("zzz", "next", "b"))
}

func TestNewBranching_ValidatesEndpoints(t *testing.T) {
	_, err := NewBranching([]string{Start, Complete}, Start, []BranchTransition{
		{From: Start, Event: "next", To: "missing"},
	})
	assert.Error(t, err)
}

func TestKeyDisambiguatesSeparatorCharacters(t *testing.T) {
	// Events containing ":" must not collide with a state name that also
	// contains ":" — this is the whole point of keying by a typed pair
	// instead of a "state:event" string (spec.md §9).
	f, err := New([]string{"a:b", "a", "b"}, "a:b")
	require.NoError(t, err)
	require.NoError(t, f.AddTransition("a:b", "x", "a"))
	require.NoError(t, f.AddTransition("a", "b:x", "b"))

	assert.True(t, f.CanTransition("a:b", "x"))
	assert.False(t, f.CanTransition("a:b", "b:x"))
	assert.True(t, f.CanTransition("a", "b:x"))
}
