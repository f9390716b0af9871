package main

import "go.uber.org/zap"

// logger wraps a zap.Logger in its sugared form so call sites can use
// the key/value Errorw style without every file importing zap directly.
type logger struct {
	z *zap.Logger
}

func (l *logger) Errorw(msg string, kv ...interface{}) {
	l.z.Sugar().Errorw(msg, kv...)
}

func (l *logger) Sync() {
	_ = l.z.Sync()
}
