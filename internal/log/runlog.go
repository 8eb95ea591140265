package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// TimeLayout is the timestamp layout of run log entries.
const TimeLayout = "2006-01-02 15:04:05"

// logFileMode is the permission of a newly created run log file.
const logFileMode os.FileMode = 0o644

// Entry is a single audit log line.
type Entry struct {
	// Time is when the event happened.
	Time time.Time

	// Message describes the event.
	Message string
}

// String renders the entry as "<timestamp> - <message>".
func (e Entry) String() string {
	return e.Time.Format(TimeLayout) + " - " + e.Message
}

// Recorder receives audit messages. Implementations timestamp them.
type Recorder interface {
	Record(message string)
	Recordf(format string, args ...any)
}

// RunLog appends entries to a log file and mirrors them to the console.
// It is safe for concurrent use; entries written in one call stay contiguous.
type RunLog struct {
	mu      sync.Mutex
	file    io.Writer
	console io.Writer
	closer  io.Closer
	now     func() time.Time
	count   int
	err     error
}

// RunLogOption configures a RunLog.
type RunLogOption func(*RunLog)

// WithClock sets the time source. The default is time.Now.
func WithClock(now func() time.Time) RunLogOption {
	return func(l *RunLog) {
		l.now = now
	}
}

// WithConsole sets the console mirror. A nil writer disables mirroring.
func WithConsole(w io.Writer) RunLogOption {
	return func(l *RunLog) {
		l.console = w
	}
}

// NewRunLog creates a RunLog writing to w. The console mirror defaults to os.Stdout.
func NewRunLog(w io.Writer, opts ...RunLogOption) *RunLog {
	l := &RunLog{
		file:    w,
		console: os.Stdout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OpenRunLog opens path in append mode, creating it when needed.
func OpenRunLog(path string, opts ...RunLogOption) (*RunLog, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, logFileMode) //nolint:gosec // path is <root>/<log file name>
	if err != nil {
		return nil, fmt.Errorf("failed to open run log %s: %w", path, err)
	}
	l := NewRunLog(f, opts...)
	l.closer = f
	return l, nil
}

// Now returns the current time of the log's clock.
func (l *RunLog) Now() time.Time {
	return l.now()
}

// Record writes one entry stamped with the current time.
func (l *RunLog) Record(message string) {
	l.WriteEntries(Entry{Time: l.now(), Message: message})
}

// Recordf formats and writes one entry.
func (l *RunLog) Recordf(format string, args ...any) {
	l.Record(fmt.Sprintf(format, args...))
}

// WriteEntries writes entries as one contiguous block.
// The first file write error is kept and reported by Err and Close;
// console errors are ignored.
func (l *RunLog) WriteEntries(entries ...Entry) {
	if len(entries) == 0 {
		return
	}
	var block []byte
	for _, e := range entries {
		block = append(block, e.String()...)
		block = append(block, '\n')
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		if _, err := l.file.Write(block); err != nil && l.err == nil {
			l.err = fmt.Errorf("failed to write run log: %w", err)
		}
	}
	if l.console != nil {
		_, _ = l.console.Write(block) //nolint:errcheck // console mirror is best effort
	}
	l.count += len(entries)
}

// Count returns the number of entries written so far.
func (l *RunLog) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Err returns the first write error, if any.
func (l *RunLog) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close closes the underlying file when the log owns it and returns the
// first error seen by the log.
func (l *RunLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var closeErr error
	if l.closer != nil {
		closeErr = l.closer.Close()
		l.closer = nil
	}
	return errors.Join(l.err, closeErr)
}

// Buffer collects entries in memory until they are flushed.
// A Buffer is owned by one goroutine.
type Buffer struct {
	now     func() time.Time
	entries []Entry
}

// NewBuffer creates a Buffer stamping entries with now.
func NewBuffer(now func() time.Time) *Buffer {
	if now == nil {
		now = time.Now
	}
	return &Buffer{now: now}
}

// Record buffers one entry.
func (b *Buffer) Record(message string) {
	b.entries = append(b.entries, Entry{Time: b.now(), Message: message})
}

// Recordf formats and buffers one entry.
func (b *Buffer) Recordf(format string, args ...any) {
	b.Record(fmt.Sprintf(format, args...))
}

// Entries returns the buffered entries.
func (b *Buffer) Entries() []Entry {
	return b.entries
}

// FlushTo writes the buffered entries to l as one block and empties the buffer.
func (b *Buffer) FlushTo(l *RunLog) {
	l.WriteEntries(b.entries...)
	b.entries = nil
}
