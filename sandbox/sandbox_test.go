package sandbox

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/axiom/axerrors"
	"github.com/kadirpekel/axiom/resource"
)

func requirePython(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not available")
	}
}

func TestSubprocess_Initialize(t *testing.T) {
	requirePython(t)
	s := New(Config{})
	require.NoError(t, s.Initialize(context.Background()))
}

func TestSubprocess_InitializeMissingInterpreter(t *testing.T) {
	s := New(Config{Interpreter: "definitely-not-an-interpreter"})
	err := s.Initialize(context.Background())
	require.Error(t, err)
	assert.Equal(t, axerrors.ResourceUnavailable, axerrors.KindOf(err))
}

func TestSubprocess_QueryExecutesSource(t *testing.T) {
	requirePython(t)
	s := New(Config{})
	require.NoError(t, s.Initialize(context.Background()))

	resp, err := s.Query(context.Background(), resource.Request{
		Prompt: "print(1*2*3*4*5)",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Content, "120")
}

func TestSubprocess_QueryTimeout(t *testing.T) {
	requirePython(t)
	s := New(Config{})
	require.NoError(t, s.Initialize(context.Background()))

	_, err := s.Query(context.Background(), resource.Request{
		Prompt:  "import time\ntime.sleep(5)",
		Timeout: 1,
	})
	require.Error(t, err)
	assert.Equal(t, axerrors.Timeout, axerrors.KindOf(err))
}

func TestSubprocess_QueryEmptySource(t *testing.T) {
	s := New(Config{})
	_, err := s.Query(context.Background(), resource.Request{})
	assert.Error(t, err)
}

func TestSubprocess_QueryNoSharedState(t *testing.T) {
	requirePython(t)
	s := New(Config{})
	require.NoError(t, s.Initialize(context.Background()))

	_, err := s.Query(context.Background(), resource.Request{Prompt: "x = 42"})
	require.NoError(t, err)

	resp, err := s.Query(context.Background(), resource.Request{Prompt: "print(x)"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "NameError")
}
