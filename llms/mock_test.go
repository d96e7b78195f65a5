package llms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/axiom/resource"
)

func TestMockProvider_QueryBeforeInitialize(t *testing.T) {
	m := NewMockProvider("")
	_, err := m.Query(context.Background(), resource.Request{Prompt: "hi"})
	assert.Error(t, err)
}

func TestMockProvider_RespondersAndFallback(t *testing.T) {
	m := NewMockProvider("plan: DIRECT\nsolution: \"fallback\"\n")
	m.AddResponder("2+2", "plan: DIRECT\nsolution: \"4\"\n")

	require.NoError(t, m.Initialize(context.Background()))

	resp, err := m.Query(context.Background(), resource.Request{Prompt: "What is 2+2?"})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "\"4\"")

	resp, err = m.Query(context.Background(), resource.Request{Prompt: "something else"})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "fallback")

	assert.Equal(t, 2, m.Calls())
}

func TestMockProvider_Lifecycle(t *testing.T) {
	m := NewMockProvider("")
	var h resource.Handle = m
	assert.Equal(t, resource.CapabilityLLM, h.Capability())
	require.NoError(t, h.Initialize(context.Background()))
	require.NoError(t, h.Stop(context.Background()))
	require.NoError(t, h.Cleanup(context.Background()))

	_, err := m.Query(context.Background(), resource.Request{Prompt: "x"})
	assert.Error(t, err)
}
