// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teltech/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{" warn ", LevelWarn},
		{"warning", LevelWarn},
		{"Error", LevelError},
		{"verbose", LevelInvalid},
		{"", LevelInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNotifierFiltersBelowMinimum(t *testing.T) {
	ch := make(chan Event, 10)
	n := New(nil, LevelWarn, "test").WithInstance("inv-1").WithChannel(ch)

	n.Debugf("debug %d", 1)
	n.Infof("info %d", 2)
	n.Warnf("warn %d", 3)
	n.Errorf("error %d", 4)
	close(ch)

	var got []Event
	for e := range ch {
		got = append(got, e)
	}
	require.Len(t, got, 2)
	assert.Equal(t, "WARN", got[0].Level)
	assert.Equal(t, "warn 3", got[0].Message)
	assert.Equal(t, "ERROR", got[1].Level)
	assert.Equal(t, "test", got[1].Sender)
	assert.Equal(t, "inv-1", got[1].Instance)
}

func TestNotifierInvalidLevelDefaultsToInfo(t *testing.T) {
	ch := make(chan Event, 10)
	n := New(nil, LevelInvalid, "test").WithChannel(ch)

	n.Debugf("hidden")
	n.Infof("shown")
	close(ch)

	var msgs []string
	for e := range ch {
		msgs = append(msgs, e.Message)
	}
	assert.Equal(t, []string{"shown"}, msgs)
}

func TestNotifierFullChannelDoesNotBlock(t *testing.T) {
	ch := make(chan Event, 1)
	n := New(nil, LevelInfo, "test").WithChannel(ch)

	n.Infof("first")
	n.Infof("second")

	e := <-ch
	assert.Equal(t, "first", e.Message)
}

func TestNilNotifierIsSafe(t *testing.T) {
	var n *Notifier
	assert.NotPanics(t, func() {
		n.Infof("ignored")
		n.WithInstance("x").Errorf("ignored")
	})
	assert.Equal(t, "", n.Instance())
}

func TestWithCopiesDoNotShareState(t *testing.T) {
	base := New(nil, LevelInfo, "dispatch")
	a := base.WithInstance("a")
	b := base.WithSender("load")

	assert.Equal(t, "a", a.Instance())
	assert.Equal(t, "", base.Instance())
	assert.Equal(t, "load", b.sender)
	assert.Equal(t, "dispatch", a.sender)
}

func TestNotifierLevelControlsLoggerOutput(t *testing.T) {
	tests := []struct {
		name     string
		minLevel Level
		wantLogs []string
		dropLogs []string
	}{
		{name: "debug", minLevel: LevelDebug, wantLogs: []string{"debug line", "info line", "error line"}},
		{name: "info", minLevel: LevelInfo, wantLogs: []string{"info line", "error line"}, dropLogs: []string{"debug line"}},
		{name: "error", minLevel: LevelError, wantLogs: []string{"error line"}, dropLogs: []string{"debug line", "info line"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			// the logger's own level would drop DEBUG
			log := logger.New().WithOutput(&buf).WithLevel(logger.ERROR)
			n := New(log, tt.minLevel, "test").WithInstance("inv-1")

			n.Debugf("debug line")
			n.Infof("info line")
			n.Errorf("error line")

			out := buf.String()
			for _, s := range tt.wantLogs {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.dropLogs {
				assert.NotContains(t, out, s)
			}
			assert.Contains(t, out, "[test:inv-1]")
		})
	}
}
