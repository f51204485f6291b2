package runner

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/mattco98/gcverify/toolchain"
)

// flusher is satisfied by bufio.Writer; output is flushed after every
// block so interleaving stays at block granularity across workers.
type flusher interface {
	Flush() error
}

// Emitter serializes verification results to a single output stream.
// Each result's combined output is written as one contiguous block;
// blocks from different workers never interleave mid-write. Counters are
// atomic so they can be read while workers are still emitting.
type Emitter struct {
	mu     sync.Mutex
	w      io.Writer
	render func([]byte) []byte

	blocks   atomic.Int64
	failures atomic.Int64
}

// NewEmitter creates an Emitter writing to w. render, if non-nil, is
// applied to each block before it is written (e.g. terminal highlighting);
// it must not change what the block reports, only how it displays.
func NewEmitter(w io.Writer, render func([]byte) []byte) *Emitter {
	return &Emitter{w: w, render: render}
}

// Emit writes one result's output block and updates the counters. Results
// that failed to spawn at all surface through the failure count; their
// (empty) output is not synthesized into diagnostics.
func (e *Emitter) Emit(res toolchain.Result) error {
	if !res.Clean() {
		e.failures.Add(1)
	}

	out := res.Output
	if len(out) > 0 && e.render != nil {
		out = e.render(out)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(out) > 0 {
		if _, err := e.w.Write(out); err != nil {
			return err
		}
		if f, ok := e.w.(flusher); ok {
			if err := f.Flush(); err != nil {
				return err
			}
		}
	}

	e.blocks.Add(1)
	return nil
}

// Blocks returns how many results have been emitted so far.
func (e *Emitter) Blocks() int64 {
	return e.blocks.Load()
}

// Failures returns how many emitted results had findings or failed to run.
func (e *Emitter) Failures() int64 {
	return e.failures.Load()
}
