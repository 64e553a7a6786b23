// Package oplog appends timestamped operation events to daily log
// files. Each event is a header line with the time, name and payload
// size, followed by the event attributes encoded in toon format.
//
// A nil *Log is valid and discards all events, so callers can wire
// event logging unconditionally.
package oplog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/toon-format/toon-go"
)

// Log writes events to one file per UTC day under Dir.
type Log struct {
	dir string

	mu          sync.Mutex
	file        *os.File
	currentDate int // YYYYMMDD
}

// New creates a Log writing under dir. The directory and the first
// file are created lazily on the first event.
func New(dir string) *Log {
	return &Log{dir: dir}
}

func dayFromTime(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// writer returns the file for today, rotating if the day changed.
// Caller holds l.mu.
func (l *Log) writer(now time.Time) (*os.File, error) {
	today := dayFromTime(now)
	if l.file != nil && l.currentDate != today {
		_ = l.file.Close()
		l.file = nil
	}
	if l.file == nil {
		if err := os.MkdirAll(l.dir, 0755); err != nil {
			return nil, err
		}
		path := filepath.Join(l.dir, now.Format("2006-01-02")+".txt")
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		l.file = f
		l.currentDate = today
	}
	return l.file, nil
}

// Event appends a named event. vals are alternating key, value pairs.
// Safe to call on a nil receiver.
func (l *Log) Event(name string, vals ...any) error {
	if l == nil {
		return nil
	}
	if len(vals)%2 != 0 {
		return fmt.Errorf("oplog: odd number of vals for event %q", name)
	}

	var body []byte
	if len(vals) > 0 {
		m := map[string]any{}
		for i := 0; i < len(vals); i += 2 {
			k, ok := vals[i].(string)
			if !ok {
				k = fmt.Sprintf("%v", vals[i])
			}
			m[k] = vals[i+1]
		}
		d, err := toon.Marshal(m)
		if err != nil {
			return err
		}
		body = d
	}

	now := time.Now().UTC()

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := l.writer(now)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f, "%d %s %d\n", now.UnixMilli(), name, len(body)); err != nil {
		return err
	}
	if len(body) > 0 {
		if _, err := f.Write(body); err != nil {
			return err
		}
	}
	_, err = f.Write([]byte{'\n'})
	return err
}

// Close closes the current log file. Safe on a nil receiver.
func (l *Log) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.currentDate = 0
	return err
}
