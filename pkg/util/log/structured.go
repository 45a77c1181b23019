// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
)

// redactableLogs controls whether redaction markers are kept in the output.
var redactableLogs atomic.Bool

// SetRedactable toggles redaction markers in log messages. When disabled (the
// default) markers are stripped and messages read as plain text.
func SetRedactable(enabled bool) {
	redactableLogs.Store(enabled)
}

// FormatWithContextTags formats the string and prepends the context
// tags.
//
// Redaction markers are *not* inserted. The resulting
// string is generally unsafe for reporting.
func FormatWithContextTags(ctx context.Context, format string, args ...interface{}) string {
	var buf strings.Builder
	if tags := formatTags(ctx); tags != "" {
		buf.WriteByte('[')
		buf.WriteString(tags)
		buf.WriteString("] ")
	}
	buf.WriteString(renderArgs(false /* redactable */, format, args...))
	return buf.String()
}

func formatTags(ctx context.Context) string {
	tags := logtags.FromContext(ctx)
	if tags == nil {
		return ""
	}
	var buf strings.Builder
	for i, t := range tags.Get() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(t.Key())
		if v := t.Value(); v != nil {
			buf.WriteByte('=')
			fmt.Fprint(&buf, v)
		}
	}
	return buf.String()
}

func renderArgs(redactable bool, format string, args ...interface{}) string {
	var msg redact.RedactableString
	if len(format) == 0 {
		msg = redact.Sprint(args...)
	} else {
		msg = redact.Sprintf(format, args...)
	}
	if redactable {
		return string(msg)
	}
	return msg.StripMarkers()
}

// addStructured creates a structured log entry to be written to the
// specified facility of the logger.
func addStructured(
	ctx context.Context, s Severity, depth int, format string, args []interface{},
) {
	if ctx == nil {
		panic("nil context")
	}
	file, line := "???", 0
	if _, f, l, ok := runtime.Caller(depth + 1); ok {
		file, line = filepath.Base(f), l
	}
	logging.outputLogEntry(Entry{
		Severity: s,
		Time:     time.Now(),
		File:     file,
		Line:     line,
		Tags:     formatTags(ctx),
		Message:  renderArgs(redactableLogs.Load(), format, args...),
	})
}
