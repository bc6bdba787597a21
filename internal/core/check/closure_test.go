package check

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/colonyops/aipm/internal/core/ticket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultChoice(t *testing.T) {
	assert.Equal(t, ChoiceClose, DefaultChoice(Verdict{Status: StatusDone}))
	assert.Equal(t, ChoiceSkip, DefaultChoice(Verdict{Status: StatusInProgress}))
	assert.Equal(t, ChoiceSkip, DefaultChoice(Verdict{Status: StatusNotStarted}))
	assert.Equal(t, ChoiceSkip, DefaultChoice(Verdict{Status: StatusUnknown}))
}

func newClosureFixture(t *testing.T) (*Closer, *ticket.Store, *fakeGit, ticket.Ticket) {
	t.Helper()

	root := t.TempDir()
	store := ticket.NewStore(root)
	fg := newFakeGit()

	tk := ticket.Ticket{
		Key:     "L-0001",
		Title:   "Fix login bug",
		Status:  ticket.StatusOpen,
		Horizon: "now",
		Path:    filepath.Join(root, "tickets", "local", "L-0001_fix_login_bug.md"),
	}
	require.NoError(t, store.Save(tk))

	return NewCloser(store, fg, root), store, fg, tk
}

func TestCloser_Skip(t *testing.T) {
	closer, store, fg, tk := newClosureFixture(t)

	state, err := closer.Apply(context.Background(), tk, ChoiceSkip)
	require.NoError(t, err)
	assert.Equal(t, StateLeftOpen, state)

	reloaded, err := store.Load("L-0001")
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusOpen, reloaded.Status, "skip never mutates the ticket")
	assert.Empty(t, fg.staged)
	assert.Empty(t, fg.committed)
}

func TestCloser_Close(t *testing.T) {
	closer, store, fg, tk := newClosureFixture(t)

	state, err := closer.Apply(context.Background(), tk, ChoiceClose)
	require.NoError(t, err)
	assert.Equal(t, StateClosed, state)

	reloaded, err := store.Load("L-0001")
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusCompleted, reloaded.Status)

	require.Len(t, fg.staged, 1)
	assert.Equal(t, []string{tk.Path}, fg.staged[0])
	assert.Empty(t, fg.committed)
}

func TestCloser_CloseAndCommit(t *testing.T) {
	closer, store, fg, tk := newClosureFixture(t)

	state, err := closer.Apply(context.Background(), tk, ChoiceCommit)
	require.NoError(t, err)
	assert.Equal(t, StateClosedAndCommitted, state)

	reloaded, err := store.Load("L-0001")
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusCompleted, reloaded.Status)

	require.Len(t, fg.staged, 1)
	require.Len(t, fg.committed, 1)
	assert.Equal(t, "AIPM: Marked L-0001 as completed", fg.committed[0])
}
