package observe

import (
	"bytes"
	"io"
	"sync"
)

// DeferredConfig holds the settings for a DeferredWriter.
type DeferredConfig struct {
	// Limit caps the number of bytes held back while the console is
	// suspended; the oldest output is dropped beyond it.
	// Default: 1 MiB.
	Limit int
}

// DeferredWriter wraps an io.Writer so that output produced during a
// sleep transition is held back instead of racing the hardware going
// down, then replayed once the console is usable again.
//
// The suspend path brackets it twice: Prepare/Restore around the whole
// attempt and Suspend/Resume around the device phase. Output is held
// while any bracket is open and flushed when the last one closes.
type DeferredWriter struct {
	config DeferredConfig

	mu      sync.Mutex
	w       io.Writer
	depth   int
	buf     bytes.Buffer
	dropped int
}

// NewDeferredWriter creates a DeferredWriter in front of w.
func NewDeferredWriter(w io.Writer, config ...DeferredConfig) *DeferredWriter {
	cfg := DeferredConfig{
		Limit: 1 << 20,
	}
	if len(config) > 0 {
		cfg = config[0]
		if cfg.Limit <= 0 {
			cfg.Limit = 1 << 20
		}
	}
	return &DeferredWriter{
		config: cfg,
		w:      w,
	}
}

// Write passes output straight through while the console is live and
// buffers it while suspended. It never reports an error; output beyond
// the buffer limit is dropped oldest-first.
func (d *DeferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.depth == 0 {
		d.w.Write(p)
		return len(p), nil
	}

	d.buf.Write(p)
	if over := d.buf.Len() - d.config.Limit; over > 0 {
		d.buf.Next(over)
		d.dropped += over
	}
	return len(p), nil
}

// Prepare opens the outer hold, taken at the start of a sleep attempt.
func (d *DeferredWriter) Prepare() {
	d.hold()
}

// Restore closes the outer hold and flushes if no hold remains.
func (d *DeferredWriter) Restore() {
	d.release()
}

// Suspend opens the inner hold, taken around the device phase.
func (d *DeferredWriter) Suspend() {
	d.hold()
}

// Resume closes the inner hold and flushes if no hold remains.
func (d *DeferredWriter) Resume() {
	d.release()
}

// Dropped returns the number of buffered bytes discarded so far.
func (d *DeferredWriter) Dropped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

func (d *DeferredWriter) hold() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.depth++
}

func (d *DeferredWriter) release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.depth == 0 {
		return
	}
	d.depth--
	if d.depth == 0 && d.buf.Len() > 0 {
		d.w.Write(d.buf.Bytes())
		d.buf.Reset()
	}
}
