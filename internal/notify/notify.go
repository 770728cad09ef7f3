// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify provides the logging handle passed through each conversion
// run. A Notifier filters by a minimum level, prefixes every line with its
// sender and instance, writes to teltech/logger and optionally mirrors each
// event to a channel.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/teltech/logger"
)

// Level is a notification severity.
type Level int

const (
	LevelInvalid Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "INVALID"
}

// ParseLevel maps a level name (case-insensitive) to a Level. Unknown names
// return LevelInvalid.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	}
	return LevelInvalid
}

// Event is a single emitted notification.
type Event struct {
	Level     string
	Sender    string
	Instance  string
	Message   string
	Timestamp time.Time
}

// Notifier is a per-invocation logging handle. The zero value is not usable;
// create one with New. A nil *Notifier discards everything.
type Notifier struct {
	log      *logger.Log
	minLevel Level
	sender   string
	instance string
	ch       chan<- Event
}

// New creates a Notifier writing to log. An invalid minLevel falls back to INFO.
// minLevel alone decides what is written: log's own level is lowered to DEBUG.
// log may be nil, in which case events only go to the channel set with
// WithChannel.
func New(log *logger.Log, minLevel Level, sender string) *Notifier {
	if minLevel == LevelInvalid {
		minLevel = LevelInfo
	}
	if log != nil {
		log = log.WithLevel(logger.DEBUG)
	}
	return &Notifier{
		log:      log,
		minLevel: minLevel,
		sender:   sender,
	}
}

// WithInstance returns a copy of n tagged with the given instance, typically
// an invocation ID.
func (n *Notifier) WithInstance(instance string) *Notifier {
	if n == nil {
		return nil
	}
	c := *n
	c.instance = instance
	return &c
}

// WithSender returns a copy of n with a different sender name.
func (n *Notifier) WithSender(sender string) *Notifier {
	if n == nil {
		return nil
	}
	c := *n
	c.sender = sender
	return &c
}

// WithChannel returns a copy of n that also sends every emitted event to ch.
// Sends never block; events are dropped when ch is full.
func (n *Notifier) WithChannel(ch chan<- Event) *Notifier {
	if n == nil {
		return nil
	}
	c := *n
	c.ch = ch
	return &c
}

// Instance returns the instance tag set with WithInstance.
func (n *Notifier) Instance() string {
	if n == nil {
		return ""
	}
	return n.instance
}

// Debugf emits a DEBUG event.
func (n *Notifier) Debugf(format string, args ...any) { n.notify(LevelDebug, format, args...) }

// Infof emits an INFO event.
func (n *Notifier) Infof(format string, args ...any) { n.notify(LevelInfo, format, args...) }

// Warnf emits a WARN event.
func (n *Notifier) Warnf(format string, args ...any) { n.notify(LevelWarn, format, args...) }

// Errorf emits an ERROR event.
func (n *Notifier) Errorf(format string, args ...any) { n.notify(LevelError, format, args...) }

func (n *Notifier) notify(level Level, format string, args ...any) {
	if n == nil || level < n.minLevel {
		return
	}

	msg := fmt.Sprintf(format, args...)

	if n.ch != nil {
		event := Event{
			Level:     level.String(),
			Sender:    n.sender,
			Instance:  n.instance,
			Message:   msg,
			Timestamp: time.Now().UTC(),
		}
		select {
		case n.ch <- event:
		default:
		}
	}

	if n.log == nil {
		return
	}

	const fmtstr = "[%s:%s] %s"
	switch level {
	case LevelDebug:
		n.log.Debugf(fmtstr, n.sender, n.instance, msg)
	case LevelInfo:
		n.log.Infof(fmtstr, n.sender, n.instance, msg)
	case LevelWarn:
		n.log.Warnf(fmtstr, n.sender, n.instance, msg)
	case LevelError:
		n.log.Errorf(fmtstr, n.sender, n.instance, msg)
	}
}
