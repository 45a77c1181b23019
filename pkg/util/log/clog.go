// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Severity identifies the sort of log: info, warning etc.
type Severity int32

// These constants identify the log levels in order of increasing Severity.
const (
	InfoLog Severity = iota
	WarningLog
	ErrorLog
	NumSeverity = 3
)

const severityChar = "IWE"

// severityName provides a mapping from Severity level to a string.
var severityName = []string{
	InfoLog:    "INFO",
	WarningLog: "WARNING",
	ErrorLog:   "ERROR",
}

// String returns the name of the severity (i.e. ERROR, INFO).
func (s Severity) String() string {
	if s >= 0 && int(s) < len(severityName) {
		return severityName[s]
	}
	return fmt.Sprintf("Severity(%d)", int32(s))
}

// SeverityByName attempts to parse the passed in string into a severity. (i.e.
// ERROR, INFO). If it succeeds, the returned bool is set to true.
func SeverityByName(s string) (Severity, bool) {
	s = strings.ToUpper(s)
	for i, name := range severityName {
		if name == s {
			return Severity(i), true
		}
	}
	return 0, false
}

// Entry is a single formatted log record as handed to interceptors.
type Entry struct {
	Severity Severity
	Time     time.Time
	File     string
	Line     int
	// Tags is the rendered context tags, without brackets.
	Tags    string
	Message string
}

// loggingT collects all the global state of the logging setup.
type loggingT struct {
	mu struct {
		sync.Mutex
		out          io.Writer
		threshold    Severity
		interceptors []func(Entry)
	}
}

var logging = func() *loggingT {
	l := &loggingT{}
	l.mu.out = os.Stderr
	l.mu.threshold = InfoLog
	return l
}()

// SetOutput redirects log output to w and returns a function restoring the
// previous writer.
func SetOutput(w io.Writer) (restore func()) {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	prev := logging.mu.out
	logging.mu.out = w
	return func() {
		logging.mu.Lock()
		defer logging.mu.Unlock()
		logging.mu.out = prev
	}
}

// SetThreshold sets the minimum severity written to the output. Interceptors
// see every entry regardless of the threshold.
func SetThreshold(s Severity) (restore func()) {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	prev := logging.mu.threshold
	logging.mu.threshold = s
	return func() {
		logging.mu.Lock()
		defer logging.mu.Unlock()
		logging.mu.threshold = prev
	}
}

// Intercept registers fn to be called with every log entry. The returned
// function unregisters it.
func Intercept(fn func(Entry)) (remove func()) {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	logging.mu.interceptors = append(logging.mu.interceptors, fn)
	idx := len(logging.mu.interceptors) - 1
	return func() {
		logging.mu.Lock()
		defer logging.mu.Unlock()
		logging.mu.interceptors[idx] = nil
	}
}

func (l *loggingT) outputLogEntry(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, fn := range l.mu.interceptors {
		if fn != nil {
			fn(entry)
		}
	}
	if entry.Severity < l.mu.threshold {
		return
	}
	buf := formatLogEntry(entry)
	// Failing to write a log line is not something we can report anywhere.
	_, _ = l.mu.out.Write(buf.Bytes())
}

// formatLogEntry renders an entry as
//
//	Lyymmdd hh:mm:ss.uuuuuu file:line  [tags] msg
//
// where L is the severity character.
func formatLogEntry(entry Entry) *bytes.Buffer {
	var buf bytes.Buffer
	s := entry.Severity
	if s < 0 || s >= NumSeverity {
		s = InfoLog
	}
	buf.WriteByte(severityChar[s])
	buf.WriteString(entry.Time.Format("060102 15:04:05.000000"))
	fmt.Fprintf(&buf, " %s:%d  ", entry.File, entry.Line)
	if entry.Tags != "" {
		buf.WriteByte('[')
		buf.WriteString(entry.Tags)
		buf.WriteString("] ")
	}
	buf.WriteString(entry.Message)
	if !strings.HasSuffix(entry.Message, "\n") {
		buf.WriteByte('\n')
	}
	return &buf
}
