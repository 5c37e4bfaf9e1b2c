// Package fetch loads one remote collection for a page and tracks how the
// request settled: loading, success, failure with a retry, or a redirect to
// login when the backend rejects the session.
package fetch

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/salonhub/salon-admin/internal/apiclient"
	apperrors "github.com/salonhub/salon-admin/internal/errors"
	"github.com/salonhub/salon-admin/internal/observability/metrics"
	"github.com/salonhub/salon-admin/internal/observability/statsd"
)

// Status is the lifecycle position of a fetcher.
type Status int

const (
	Idle Status = iota
	Loading
	Success
	Failure
	Redirect
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

const outcomeRedirect = "redirect"

// LoadFunc retrieves the full collection.
type LoadFunc[T any] func(ctx context.Context) ([]T, error)

// Options configures a Fetcher.
type Options struct {
	// Name tags logs and metrics, usually the backend resource.
	Name string
	// LoginPath is where the page goes when the backend rejects the token.
	LoginPath string
	// OnAuthFailure clears the stored session. It runs before the fetcher
	// reports Redirect.
	OnAuthFailure func(ctx context.Context)
	Metrics       statsd.Sink
	Logger        *slog.Logger
}

// Snapshot is an immutable view of a fetcher's state.
type Snapshot[T any] struct {
	Status     Status
	Items      []T
	Err        error
	Message    string
	RedirectTo string
}

// Loaded reports whether Items holds a successful result, possibly from an
// earlier generation while a newer load is in flight.
func (s Snapshot[T]) Loaded() bool { return s.Items != nil }

// Fetcher is safe for concurrent use. Only the newest Fetch settles state;
// results from superseded calls are discarded.
type Fetcher[T any] struct {
	load LoadFunc[T]
	opts Options

	mu       sync.Mutex
	gen      uint64
	status   Status
	items    []T
	err      error
	message  string
	redirect string
}

// New creates an idle fetcher.
func New[T any](load LoadFunc[T], opts Options) *Fetcher[T] {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Fetcher[T]{load: load, opts: opts}
}

// Snapshot returns the current state.
func (f *Fetcher[T]) Snapshot() Snapshot[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Fetcher[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		Status:     f.status,
		Items:      f.items,
		Err:        f.err,
		Message:    f.message,
		RedirectTo: f.redirect,
	}
}

// Fetch loads the collection. Previously loaded items stay visible while the
// request is in flight.
func (f *Fetcher[T]) Fetch(ctx context.Context) Snapshot[T] {
	return f.run(ctx, false)
}

// Refresh reloads the collection; clear drops the current items immediately.
func (f *Fetcher[T]) Refresh(ctx context.Context, clear bool) Snapshot[T] {
	return f.run(ctx, clear)
}

// Retry re-runs the same load after a failure.
func (f *Fetcher[T]) Retry(ctx context.Context) Snapshot[T] {
	return f.run(ctx, false)
}

func (f *Fetcher[T]) run(ctx context.Context, clear bool) Snapshot[T] {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.status = Loading
	f.err, f.message, f.redirect = nil, "", ""
	if clear {
		f.items = nil
	}
	f.mu.Unlock()

	items, err := f.load(ctx)

	authFailed := err != nil && apiclient.IsAuthFailure(err)
	if authFailed && f.opts.OnAuthFailure != nil {
		f.opts.OnAuthFailure(context.WithoutCancel(ctx))
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		metrics.EmitFetchOutcome(f.opts.Metrics, metrics.FetchOutcome{Resource: f.opts.Name, Outcome: "discarded"})
		return f.snapshotLocked()
	}

	switch {
	case err == nil:
		if items == nil {
			items = []T{}
		}
		f.status, f.items = Success, items
		metrics.EmitFetchOutcome(f.opts.Metrics, metrics.FetchOutcome{Resource: f.opts.Name, Outcome: metrics.ResultSuccess, Items: len(items)})
	case authFailed:
		f.status, f.items, f.err = Redirect, nil, err
		f.redirect = f.opts.LoginPath
		metrics.EmitFetchOutcome(f.opts.Metrics, metrics.FetchOutcome{Resource: f.opts.Name, Outcome: outcomeRedirect})
	default:
		f.status, f.err = Failure, err
		f.message = FailureMessage(err)
		if !errors.Is(err, context.Canceled) {
			f.opts.Logger.WarnContext(ctx, "collection fetch failed", "resource", f.opts.Name, "error", err)
		}
		metrics.EmitFetchOutcome(f.opts.Metrics, metrics.FetchOutcome{Resource: f.opts.Name, Outcome: metrics.ResultError})
	}
	return f.snapshotLocked()
}

// FailureMessage turns a load error into text for the failure banner.
func FailureMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case apperrors.IsTimeout(err):
		return "The salon service took too long to respond."
	case apperrors.IsCanceled(err), errors.Is(err, context.Canceled):
		return "The request was canceled."
	}
	if apiErr, ok := apiclient.AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	if apperrors.IsTransient(err) {
		return "The salon service is unavailable right now."
	}
	return "Something went wrong while loading this page."
}
