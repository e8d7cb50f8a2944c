package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

var (
	// errNoSinks is reported once every sink has failed.
	errNoSinks = errors.New("logger: all sinks failed")
	errClosed  = errors.New("logger: writer closed")
)

// asyncWriter provides buffered asynchronous writes to one or more sinks.
// A sink that fails is dropped; the remaining sinks keep receiving records,
// so a detached console does not silence the log file.
type asyncWriter struct {
	queue    chan []byte
	flushReq chan chan error
	done     chan struct{}
	once     sync.Once
	closeMu  sync.RWMutex
	closed   bool
	sinks    []*sink
	sinkMu   sync.Mutex
	writeErr error
}

// sink is one buffered output; a failed sink is skipped from then on.
type sink struct {
	buf  *bufio.Writer
	dead bool
}

func (s *sink) put(p []byte) bool {
	if s.dead {
		return false
	}
	if _, err := s.buf.Write(p); err != nil {
		s.dead = true
	} else if err := s.buf.Flush(); err != nil {
		s.dead = true
	}
	return !s.dead
}

func newAsyncWriter(writers []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	var sinks []*sink
	for _, w := range writers {
		if w != nil {
			sinks = append(sinks, &sink{buf: bufio.NewWriterSize(w, bufSize)})
		}
	}
	aw := &asyncWriter{
		queue:    make(chan []byte, 256),
		flushReq: make(chan chan error),
		done:     make(chan struct{}),
		sinks:    sinks,
	}
	go aw.loop()
	return aw
}

func (w *asyncWriter) loop() {
	for {
		select {
		case data, ok := <-w.queue:
			if !ok {
				w.flushAll()
				close(w.done)
				return
			}
			if len(data) == 0 {
				continue
			}
			if err := w.writeAll(data); err != nil {
				w.setErr(err)
			}
		case ack := <-w.flushReq:
			ack <- w.flushAll()
		}
	}
}

// Write enqueues the payload for asynchronous fan-out to all sinks.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.getErr(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	data := make([]byte, len(p))
	copy(data, p)
	w.closeMu.RLock()
	defer w.closeMu.RUnlock()
	if w.closed {
		return errClosed
	}
	// Blocks when the queue is full; records are never dropped.
	w.queue <- data
	return nil
}

// Flush waits for the writer to flush all buffered content to sinks.
func (w *asyncWriter) Flush() error {
	if err := w.getErr(); err != nil {
		return err
	}
	w.closeMu.RLock()
	closed := w.closed
	w.closeMu.RUnlock()
	if closed {
		return errClosed
	}
	ack := make(chan error, 1)
	w.flushReq <- ack
	return <-ack
}

// Close drains the queue and reports the first encountered write error.
func (w *asyncWriter) Close() error {
	w.once.Do(func() {
		w.closeMu.Lock()
		w.closed = true
		close(w.queue)
		w.closeMu.Unlock()
	})
	<-w.done
	return w.getErr()
}

func (w *asyncWriter) writeAll(p []byte) error {
	w.sinkMu.Lock()
	defer w.sinkMu.Unlock()
	alive := 0
	for _, s := range w.sinks {
		if s.put(p) {
			alive++
		}
	}
	if alive == 0 && len(w.sinks) > 0 {
		return errNoSinks
	}
	return nil
}

func (w *asyncWriter) flushAll() error {
	w.sinkMu.Lock()
	defer w.sinkMu.Unlock()
	var errs []error
	for _, s := range w.sinks {
		if s.dead {
			continue
		}
		if err := s.buf.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *asyncWriter) getErr() error {
	w.sinkMu.Lock()
	defer w.sinkMu.Unlock()
	return w.writeErr
}

func (w *asyncWriter) setErr(err error) {
	if err == nil {
		return
	}
	w.sinkMu.Lock()
	defer w.sinkMu.Unlock()
	if w.writeErr == nil {
		w.writeErr = err
	}
}
