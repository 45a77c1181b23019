// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package echotest compares test output with golden files.
package echotest

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
)

// Require checks that act matches the file at path, which must follow the
// datadriven format:
//
//	echo
//	----
//	<expected output>
//
// The file can be updated with datadriven's -rewrite flag.
func Require(t *testing.T, act, path string) {
	t.Helper()
	if !strings.HasSuffix(act, "\n") {
		act += "\n"
	}
	var ran bool
	datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
		if d.Cmd != "echo" {
			return "only 'echo' is supported"
		}
		ran = true
		return act
	})
	if !ran {
		// A file without directives passes vacuously, even after -rewrite.
		t.Errorf("no tests run for %s, is the file empty?", path)
	}
}

// RequireJSON is like Require for the indented JSON encoding of v.
func RequireJSON(t *testing.T, v interface{}, path string) {
	t.Helper()
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("encoding %T: %v", v, err)
	}
	Require(t, string(b), path)
}
