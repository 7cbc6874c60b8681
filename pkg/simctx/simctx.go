// Package simctx carries the dependencies simulation-core packages need but
// must never reach for as package-level globals: the clock and the random
// source. Constructors that need either take a *Context instead of calling
// time.Now or math/rand directly, so tests can replay a simulation
// deterministically.
package simctx

import (
	"math/rand"
	"time"
)

// LogLevel mirrors pkg/log's levels without importing pkg/log, so the
// simulation core never depends on the ambient logging package.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// LogFunc is the logging callback the simulation core calls instead of a
// global logger.
type LogFunc func(level LogLevel, format string, args ...interface{})

// Context bundles the clock, PRNG, and logging callback injected into the
// simulation core.
type Context struct {
	Now  func() time.Time
	Rand *rand.Rand
	Log  LogFunc
}

// New builds a Context with a real clock and a seeded PRNG. A zero seed asks
// for a time-derived seed; tests should pass a fixed nonzero seed for
// reproducibility.
func New(seed int64, log LogFunc) *Context {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if log == nil {
		log = func(LogLevel, string, ...interface{}) {}
	}
	return &Context{
		Now:  time.Now,
		Rand: rand.New(rand.NewSource(seed)),
		Log:  log,
	}
}

// NowMs returns the injected clock's current time in Unix milliseconds.
func (c *Context) NowMs() int64 {
	return c.Now().UnixMilli()
}

func (c *Context) logf(level LogLevel, format string, args ...interface{}) {
	if c == nil || c.Log == nil {
		return
	}
	c.Log(level, format, args...)
}

func (c *Context) Errorf(format string, args ...interface{}) { c.logf(LogLevelError, format, args...) }
func (c *Context) Warnf(format string, args ...interface{})  { c.logf(LogLevelWarn, format, args...) }
func (c *Context) Infof(format string, args ...interface{})  { c.logf(LogLevelInfo, format, args...) }
func (c *Context) Debugf(format string, args ...interface{}) { c.logf(LogLevelDebug, format, args...) }
