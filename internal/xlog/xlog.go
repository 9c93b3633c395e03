// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package xlog centralizes structured-logging setup, generalized from the
// teacher's modules/trace (trace.Errorf's location-tagged error log,
// logrus used directly throughout pkg/serve/httpserver). Every package
// that logs calls xlog.For(component) once and keeps the returned entry,
// rather than configuring logrus itself.
package xlog

import (
	"os"

	"github.com/sirupsen/logrus"
)

var base = newBase()

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// SetLevel adjusts the shared logger's verbosity; callers normally do
// this once at process startup from a -v/--debug flag.
func SetLevel(level logrus.Level) {
	base.SetLevel(level)
}

// For returns a logger entry tagged with component, the unit every log
// line from that package carries — mirrors trace.Errorf's
// function:line tagging, at package granularity instead of call-site
// granularity since these are routine operational logs, not error
// traces.
func For(component string) *logrus.Entry {
	return base.WithField("component", component)
}
