package executil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingExecutor_KeysOnSubcommand(t *testing.T) {
	ctx := context.Background()

	rec := &RecordingExecutor{
		Outputs: map[string][]byte{
			"log":  []byte("log output"),
			"show": []byte("show output"),
		},
		Errors: map[string]error{
			"show": errors.New("boom"),
		},
	}

	out, err := rec.RunDir(ctx, "/repo", "git", "log", "-5")
	require.NoError(t, err)
	assert.Equal(t, "log output", string(out))

	_, err = rec.RunDir(ctx, "/repo", "git", "show", "abc123")
	require.Error(t, err)

	require.Len(t, rec.Commands, 2)
	assert.Equal(t, "/repo", rec.Commands[0].Dir)
	assert.Equal(t, []string{"log", "-5"}, rec.Commands[0].Args)
}

func TestRecordingExecutor_RunInputCapturesStdin(t *testing.T) {
	ctx := context.Background()

	rec := &RecordingExecutor{Outputs: map[string][]byte{"--print": []byte("reply")}}

	out, err := rec.RunInput(ctx, "a prompt", "claude", "--print")
	require.NoError(t, err)
	assert.Equal(t, "reply", string(out))
	require.Len(t, rec.Commands, 1)
	assert.Equal(t, "a prompt", rec.Commands[0].Input)
}

func TestRealExecutor_RunInput(t *testing.T) {
	ctx := context.Background()

	e := &RealExecutor{}
	out, err := e.RunInput(ctx, "hello\n", "cat")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}

func TestRealExecutor_RunDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	e := &RealExecutor{}
	out, err := e.RunDir(ctx, dir, "pwd")
	require.NoError(t, err)
	assert.Contains(t, string(out), dir)
}
