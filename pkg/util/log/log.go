// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package log implements leveled, context-aware logging. Context tags added
// with logtags.AddTag are rendered in front of every message.
package log

import "context"

// Infof logs to the INFO log.
// Arguments are handled in the manner of fmt.Printf; a newline is appended if missing.
func Infof(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, InfoLog, 1, format, args)
}

// Info logs to the INFO log.
// Arguments are handled in the manner of fmt.Print; a newline is appended if missing.
func Info(ctx context.Context, args ...interface{}) {
	addStructured(ctx, InfoLog, 1, "", args)
}

// Warningf logs to the WARNING and INFO logs.
// Arguments are handled in the manner of fmt.Printf; a newline is appended if missing.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, WarningLog, 1, format, args)
}

// Warning logs to the WARNING and INFO logs.
func Warning(ctx context.Context, args ...interface{}) {
	addStructured(ctx, WarningLog, 1, "", args)
}

// Errorf logs to the ERROR, WARNING, and INFO logs.
// Arguments are handled in the manner of fmt.Printf; a newline is appended if missing.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, ErrorLog, 1, format, args)
}

// Error logs to the ERROR, WARNING, and INFO logs.
func Error(ctx context.Context, args ...interface{}) {
	addStructured(ctx, ErrorLog, 1, "", args)
}

// InfofDepth logs to the INFO log, offsetting the caller's stack frame by
// 'depth'.
func InfofDepth(ctx context.Context, depth int, format string, args ...interface{}) {
	addStructured(ctx, InfoLog, depth+1, format, args)
}

// WarningfDepth logs to the WARNING and INFO logs, offsetting the caller's
// stack frame by 'depth'.
func WarningfDepth(ctx context.Context, depth int, format string, args ...interface{}) {
	addStructured(ctx, WarningLog, depth+1, format, args)
}
