// Package klog builds the structured loggers the kernel subsystems log
// boot and diagnostic events through, one named logger per subsystem so
// log lines carry a component field the way dmesg carries a subsystem
// tag.
package klog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console-friendly development logger for the named
// subsystem (e.g. "clock", "pty", "unixsock"). Kernel cores care about
// readable boot output more than JSON, so this mirrors zap's development
// config rather than its production JSON encoder.
func New(component string) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build()
	if err != nil {
		// The only failure mode is a malformed encoder config, which is a
		// programmer error, not a runtime condition callers can recover
		// from.
		panic(err)
	}
	return l.Named(component)
}

// Nop returns a logger that discards everything, for tests and embedders
// that don't want kernel-core diagnostics on stderr.
func Nop() *zap.Logger {
	return zap.NewNop()
}
