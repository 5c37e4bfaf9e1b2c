package fetch

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/salonhub/salon-admin/internal/domain/gate"
)

var errRedirect = errors.New("session rejected")

// Outcome is the type-erased settlement of one fetcher in a Group.
type Outcome struct {
	Name       string
	Status     Status
	Message    string
	RedirectTo string
}

// Task is anything a Group can run; every *Fetcher satisfies it.
type Task interface {
	Run(ctx context.Context) Outcome
}

// Run fetches and reports the settlement.
func (f *Fetcher[T]) Run(ctx context.Context) Outcome {
	snap := f.Fetch(ctx)
	return Outcome{Name: f.opts.Name, Status: snap.Status, Message: snap.Message, RedirectTo: snap.RedirectTo}
}

// GroupResult summarizes a Group run.
type GroupResult struct {
	Outcomes []Outcome
	// RedirectTo is set when any task hit an auth failure.
	RedirectTo string
}

// Redirected reports whether the page must navigate to login.
func (r GroupResult) Redirected() bool { return r.RedirectTo != "" }

// Failed returns the outcomes that ended in Failure.
func (r GroupResult) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == Failure {
			out = append(out, o)
		}
	}
	return out
}

// Group runs tasks concurrently. Each task settles its own state; the first
// auth failure cancels the rest and wins.
func Group(ctx context.Context, tasks ...Task) GroupResult {
	res := GroupResult{Outcomes: make([]Outcome, len(tasks))}
	g, gctx := errgroup.WithContext(ctx)
	for i, task := range tasks {
		g.Go(func() error {
			o := task.Run(gctx)
			res.Outcomes[i] = o
			if o.Status == Redirect {
				return errRedirect
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range res.Outcomes {
		if o.Status == Redirect {
			res.RedirectTo = o.RedirectTo
			if res.RedirectTo == "" {
				res.RedirectTo = gate.CustomerLoginPath
			}
			break
		}
	}
	return res
}
