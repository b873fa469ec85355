// Package worker serializes all document automation onto one OS thread.
//
// The slide application's automation interface is thread-affine, so a
// Worker owns a dedicated goroutine locked to its OS thread. The session is
// initialized and torn down on that goroutine, and every operation runs
// there, submitted through a FIFO queue. Callers block until their task
// completes; a pending task can be withdrawn by cancelling its context, but
// a task that has started always runs to completion.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"citedeck/internal/anchor"
	"citedeck/internal/host"
	"citedeck/internal/logging"
	"citedeck/internal/reference"
	"citedeck/internal/style"
)

// State is the worker lifecycle state, observable for tests and status
// reporting.
type State int32

const (
	StateUninitialized State = iota
	StateSessionReady
	StateBusy
	StateShuttingDown
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateSessionReady:
		return "session-ready"
	case StateBusy:
		return "busy"
	case StateShuttingDown:
		return "shutting-down"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Status is a point-in-time snapshot of the document and session.
type Status struct {
	DocumentOpen bool
	AnchorFound  bool
	CitedCount   int
}

type task struct {
	ctx context.Context
	run func(sess host.Session, led *ledger) error
	res chan error
}

// Worker drives a host session from its dedicated, thread-locked goroutine.
type Worker struct {
	logger *zap.Logger

	tasks chan *task
	stop  chan struct{}
	done  chan struct{}

	state atomic.Int32

	// sessionLedger is confined to the worker goroutine.
	sessionLedger *ledger

	closeOnce sync.Once
}

const queueDepth = 16

// New starts the worker goroutine and initializes the session on it. A
// session that fails to initialize is never torn down, and no worker is
// returned.
func New(sess host.Session, logger *zap.Logger) (*Worker, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	w := &Worker{
		logger: logger,
		tasks:  make(chan *task, queueDepth),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	initErr := make(chan error, 1)

	go w.loop(sess, initErr)

	if err := <-initErr; err != nil {
		return nil, fmt.Errorf("worker: initialize session: %w", err)
	}

	return w, nil
}

func (w *Worker) loop(sess host.Session, initErr chan<- error) {
	// The session binds to this thread for its whole life. The thread is
	// retired with the goroutine rather than returned to the pool.
	runtime.LockOSThread()

	defer close(w.done)

	if err := sess.Initialize(); err != nil {
		w.state.Store(int32(StateClosed))
		initErr <- err

		return
	}

	defer func() {
		if err := sess.Close(); err != nil {
			w.logger.Warn("session teardown failed", zap.Error(err))
		}

		w.state.Store(int32(StateClosed))
	}()

	w.state.Store(int32(StateSessionReady))
	initErr <- nil

	w.logger.Debug("worker session ready")

	for {
		select {
		case <-w.stop:
			w.state.Store(int32(StateShuttingDown))
			w.drain()

			return
		case t := <-w.tasks:
			w.runTask(sess, t)
		}
	}
}

func (w *Worker) runTask(sess host.Session, t *task) {
	// Withdrawal window: a task whose context died while queued never
	// touches the session.
	select {
	case <-t.ctx.Done():
		t.res <- t.ctx.Err()

		return
	default:
	}

	w.state.Store(int32(StateBusy))
	t.res <- t.run(sess, w.led())
	w.state.Store(int32(StateSessionReady))
}

// drain answers every still-queued task with ErrClosed.
func (w *Worker) drain() {
	for {
		select {
		case t := <-w.tasks:
			t.res <- ErrClosed
		default:
			return
		}
	}
}

// led is only ever called from the worker goroutine.
func (w *Worker) led() *ledger {
	if w.sessionLedger == nil {
		w.sessionLedger = newLedger()
	}

	return w.sessionLedger
}

func (w *Worker) submit(ctx context.Context, run func(host.Session, *ledger) error) error {
	t := &task{ctx: ctx, run: run, res: make(chan error, 1)}

	select {
	case <-w.stop:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case w.tasks <- t:
	}

	// The send can race Close: with stop already closed, the select above
	// may still pick the buffered send, and a task that lands in the buffer
	// during or after the final drain has no consumer. Worker exit must
	// therefore unblock the caller too.
	select {
	case err := <-t.res:
		return err
	case <-w.done:
		// The loop may have answered just before exiting.
		select {
		case err := <-t.res:
			return err
		default:
			return ErrClosed
		}
	}
}

// State returns the current lifecycle state.
func (w *Worker) State() State {
	return State(w.state.Load())
}

// Close stops the worker, withdraws pending tasks, and tears the session
// down on the worker goroutine. An in-flight task finishes first. Safe to
// call more than once.
func (w *Worker) Close() error {
	w.closeOnce.Do(func() { close(w.stop) })
	<-w.done

	return nil
}

// InsertCitation formats an in-text citation for the item and inserts it at
// the active text cursor, then records the item in the session ledger. The
// returned string is the inserted text.
//
// With no document open it returns host.ErrNoDocument; with a document but
// no text cursor it returns ErrNoCursor. In both cases nothing is mutated:
// a citation is never dropped into an arbitrary shape.
func (w *Worker) InsertCitation(ctx context.Context, item reference.Item, name style.Name) (string, error) {
	var text string

	err := w.submit(ctx, func(sess host.Session, led *ledger) error {
		open, err := sess.DocumentOpen()
		if err != nil {
			return err
		}

		if !open {
			return host.ErrNoDocument
		}

		sel, err := sess.ActiveSelection()
		if err != nil {
			return err
		}

		if !sel.HasTextCursor {
			return ErrNoCursor
		}

		pos := led.position(item.Key)
		if pos == 0 {
			pos = led.len() + 1
		}

		cite, err := style.InText(item, name, pos)
		if err != nil {
			return err
		}

		if err := sess.InsertAtCursor(cite); err != nil {
			return err
		}

		led.record(item)
		text = cite

		w.logger.Debug("citation inserted",
			zap.String("key", item.Key),
			zap.Int("position", pos))

		return nil
	})

	return text, err
}

// RefreshBibliography rewrites the anchor shape with every citation
// recorded this session, formatted and ordered per the style. The rewrite
// replaces the shape text wholesale, so refreshing twice is byte-identical.
//
// No document or no anchor shape makes the refresh a no-op: it reports
// refreshed false with a nil error and creates nothing.
func (w *Worker) RefreshBibliography(ctx context.Context, name style.Name) (bool, error) {
	var refreshed bool

	err := w.submit(ctx, func(sess host.Session, led *ledger) error {
		open, err := sess.DocumentOpen()
		if err != nil {
			return err
		}

		if !open {
			w.logger.Debug("bibliography refresh skipped, no document")

			return nil
		}

		a, err := anchor.Find(sess, w.logger)
		if err != nil {
			return err
		}

		if !a.Found {
			w.logger.Debug("bibliography refresh skipped, no anchor")

			return nil
		}

		text, err := renderBibliography(led, name)
		if err != nil {
			return err
		}

		if err := sess.SetShapeText(a.Shape, text); err != nil {
			return err
		}

		refreshed = true

		w.logger.Debug("bibliography refreshed", zap.Int("entries", led.len()))

		return nil
	})

	return refreshed, err
}

// SetAnchor designates the selected shape as the bibliography anchor.
func (w *Worker) SetAnchor(ctx context.Context) (anchor.Anchor, error) {
	var a anchor.Anchor

	err := w.submit(ctx, func(sess host.Session, _ *ledger) error {
		var err error

		a, err = anchor.Set(sess, w.logger)

		return err
	})

	return a, err
}

// Status reports the document, anchor, and ledger state.
func (w *Worker) Status(ctx context.Context) (Status, error) {
	var st Status

	err := w.submit(ctx, func(sess host.Session, led *ledger) error {
		open, err := sess.DocumentOpen()
		if err != nil {
			return err
		}

		st.DocumentOpen = open
		st.CitedCount = led.len()

		if !open {
			return nil
		}

		a, err := anchor.Find(sess, w.logger)
		if err != nil {
			return err
		}

		st.AnchorFound = a.Found

		return nil
	})

	return st, err
}
