package check

import (
	"context"
	"fmt"
	"sync"

	"github.com/colonyops/aipm/internal/core/git"
	"github.com/colonyops/aipm/internal/core/ticket"
)

// Choice is the user's decision for a ticket with a ready verdict.
type Choice string

const (
	// ChoiceClose marks the ticket completed and stages it.
	ChoiceClose Choice = "close"
	// ChoiceCommit marks the ticket completed, stages it, and commits.
	ChoiceCommit Choice = "commit"
	// ChoiceSkip leaves the ticket untouched.
	ChoiceSkip Choice = "skip"
)

// ClosureState is the terminal state of the closure decision for one ticket.
type ClosureState string

const (
	StateClosed             ClosureState = "closed"
	StateClosedAndCommitted ClosureState = "closed-and-committed"
	StateLeftOpen           ClosureState = "left-open"
)

// DefaultChoice returns the choice applied when the user gives no explicit
// input: close for a DONE verdict, skip for anything else. There is no
// unattended auto-close; callers still present the choice.
func DefaultChoice(v Verdict) Choice {
	if v.Status == StatusDone {
		return ChoiceClose
	}
	return ChoiceSkip
}

// Closer applies closure decisions: it mutates ticket status and performs
// the staging/commit side effects. Stage and commit operations are
// serialized per repository so concurrent ticket pipelines sharing a repo
// cannot interleave them.
type Closer struct {
	store *ticket.Store
	git   git.Git
	root  string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCloser creates a Closer operating on the project root repository.
func NewCloser(store *ticket.Store, g git.Git, projectRoot string) *Closer {
	return &Closer{
		store: store,
		git:   g,
		root:  projectRoot,
		locks: make(map[string]*sync.Mutex),
	}
}

// Apply executes the chosen transition and returns the terminal state.
// Close and commit both mutate the ticket's status to completed; commit
// additionally records a version-control commit.
func (c *Closer) Apply(ctx context.Context, t ticket.Ticket, choice Choice) (ClosureState, error) {
	if choice == ChoiceSkip {
		return StateLeftOpen, nil
	}

	t.Status = ticket.StatusCompleted
	if err := c.store.Save(t); err != nil {
		return "", fmt.Errorf("save ticket %s: %w", t.Key, err)
	}

	lock := c.lockFor(c.root)
	lock.Lock()
	defer lock.Unlock()

	if err := c.git.StageFiles(ctx, c.root, t.Path); err != nil {
		return "", fmt.Errorf("stage ticket %s: %w", t.Key, err)
	}

	if choice == ChoiceCommit {
		msg := fmt.Sprintf("AIPM: Marked %s as completed", t.Key)
		if err := c.git.Commit(ctx, c.root, msg); err != nil {
			return "", fmt.Errorf("commit ticket %s: %w", t.Key, err)
		}
		return StateClosedAndCommitted, nil
	}

	return StateClosed, nil
}

func (c *Closer) lockFor(repo string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.locks[repo]; !ok {
		c.locks[repo] = &sync.Mutex{}
	}
	return c.locks[repo]
}
