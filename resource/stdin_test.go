package resource

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdinInput_Query(t *testing.T) {
	in := NewStdinInput(strings.NewReader("hello world\n"))
	require.NoError(t, in.Initialize(context.Background()))

	resp, err := in.Query(context.Background(), Request{Prompt: "say something: "})
	require.NoError(t, err)
	assert.Equal(t, "hello world", resp.Content)
}

func TestStdinInput_Cancellation(t *testing.T) {
	in := NewStdinInput(&blockingReader{})
	require.NoError(t, in.Initialize(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := in.Query(ctx, Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStdinInput_NotInitialized(t *testing.T) {
	in := NewStdinInput(strings.NewReader("x\n"))
	_, err := in.Query(context.Background(), Request{})
	assert.Error(t, err)
}

type blockingReader struct{}

func (b *blockingReader) Read(p []byte) (int, error) {
	select {}
}
