package check

import (
	"context"
	"errors"
	"sync"

	"github.com/colonyops/aipm/internal/core/assistant"
	"github.com/colonyops/aipm/internal/core/git"
	"github.com/colonyops/aipm/internal/core/ticket"
	"github.com/rs/zerolog"
)

// Options configures a check run.
type Options struct {
	// LogLimit bounds how many recent commits are scanned per repository.
	LogLimit int
	// DiffBudget caps the assembled diff text, in characters.
	DiffBudget int
	// Workers bounds concurrent ticket pipelines.
	Workers int
	// Debug captures assistant prompts and raw responses on each result.
	Debug bool
}

// Result is the outcome of one ticket's pipeline run.
type Result struct {
	Ticket   ticket.Ticket
	RepoPath string
	Commits  []git.Commit
	Relevant []git.Commit
	Diffs    string
	Verdict  Verdict
	Strategy Strategy

	// Err marks a per-ticket failure (e.g. repository not found). When set,
	// the verdict is not meaningful and the ticket was skipped.
	Err error

	// Exchanges holds assistant traffic when debug capture is enabled.
	Exchanges []assistant.Exchange
}

// Runner drives the per-ticket pipeline: commit log, relevance filter, diff
// extraction, completion analysis. Assistant availability is decided once by
// the caller; a nil assistant selects the fallback strategies everywhere.
type Runner struct {
	git         git.Git
	ai          assistant.Assistant
	projectRoot string
	home        string
	opts        Options
	log         zerolog.Logger
}

// NewRunner creates a Runner. Pass a nil assistant to force the keyword
// fallback strategies for the whole run.
func NewRunner(g git.Git, ai assistant.Assistant, projectRoot, home string, opts Options, log zerolog.Logger) *Runner {
	if opts.LogLimit <= 0 {
		opts.LogLimit = 50
	}
	if opts.DiffBudget <= 0 {
		opts.DiffBudget = 12000
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Runner{
		git:         g,
		ai:          ai,
		projectRoot: projectRoot,
		home:        home,
		opts:        opts,
		log:         log.With().Str("component", "check").Logger(),
	}
}

// Assisted reports whether the run uses the AI-assisted strategies.
func (r *Runner) Assisted() bool {
	return r.ai != nil
}

// CheckTicket runs the full pipeline for one ticket. Stages are strictly
// ordered: diffs are fetched only for commits the relevance filter selected,
// and the analyzer only sees what the diff extractor processed.
func (r *Runner) CheckTicket(ctx context.Context, t ticket.Ticket) (res Result) {
	res = Result{Ticket: t, Strategy: r.strategy()}
	res.RepoPath = ResolveRepoPath(t.Repo, r.projectRoot, r.home)

	ai := r.ai
	var rec *assistant.Recorder
	if ai != nil && r.opts.Debug {
		rec = assistant.NewRecorder(ai)
		ai = rec
	}
	defer func() {
		if rec != nil {
			res.Exchanges = rec.Drain()
		}
	}()

	commits, err := r.git.Log(ctx, res.RepoPath, r.opts.LogLimit)
	if err != nil && !errors.Is(err, git.ErrNoCommits) {
		res.Err = err
		return res
	}
	res.Commits = commits

	// An empty history means nothing has happened yet, regardless of
	// strategy. No assistant call is made.
	if len(commits) == 0 {
		res.Verdict = Verdict{Status: StatusNotStarted, Confidence: ConfidenceNA}
		return res
	}

	res.Relevant = r.filterRelevant(ctx, ai, t, commits, &res)

	if res.Strategy == StrategyAssisted {
		res.Diffs = FetchDiffs(ctx, r.git, res.RepoPath, res.Relevant, r.opts.DiffBudget, r.log)
	}

	res.Verdict = r.analyze(ctx, ai, t, &res)
	return res
}

// filterRelevant applies the active relevance strategy, downgrading this
// ticket to the keyword fallback if the assistant fails.
func (r *Runner) filterRelevant(ctx context.Context, ai assistant.Assistant, t ticket.Ticket, commits []git.Commit, res *Result) []git.Commit {
	if res.Strategy == StrategyAssisted {
		relevant, err := (&AssistantFilter{AI: ai}).Relevant(ctx, t, commits)
		if err == nil {
			return relevant
		}
		r.log.Warn().Err(err).Str("ticket", t.Key).Msg("assistant relevance failed, using keyword fallback")
		res.Strategy = StrategyFallback
	}

	relevant, _ := KeywordFilter{}.Relevant(ctx, t, commits)
	return relevant
}

// analyze applies the active analysis strategy. A malformed or failed
// assistant response downgrades this single analysis to the fallback; it
// does not flip the rest of the run.
func (r *Runner) analyze(ctx context.Context, ai assistant.Assistant, t ticket.Ticket, res *Result) Verdict {
	if res.Strategy == StrategyAssisted {
		v, err := (&AssistantAnalyzer{AI: ai}).Analyze(ctx, t, res.Relevant, res.Diffs)
		if err == nil {
			return v
		}
		r.log.Warn().Err(err).Str("ticket", t.Key).Msg("assistant analysis failed, using fallback")
		res.Strategy = StrategyFallback
	}

	v, _ := FallbackAnalyzer{}.Analyze(ctx, t, res.Relevant, res.Diffs)
	return v
}

func (r *Runner) strategy() Strategy {
	if r.ai != nil {
		return StrategyAssisted
	}
	return StrategyFallback
}

// RunBatch processes tickets concurrently, bounded by the worker count.
// Results come back in input order. Cancellation is honored between tickets,
// never mid-ticket, so an interrupt cannot corrupt a ticket's on-disk state;
// undispatched tickets carry the context error.
func (r *Runner) RunBatch(ctx context.Context, tickets []ticket.Ticket) []Result {
	results := make([]Result, len(tickets))

	sem := make(chan struct{}, r.opts.Workers)
	var wg sync.WaitGroup

	for i, t := range tickets {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(tickets); j++ {
				results[j] = Result{Ticket: tickets[j], Err: err}
			}
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(i int, t ticket.Ticket) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = r.CheckTicket(ctx, t)
		}(i, t)
	}

	wg.Wait()
	return results
}
