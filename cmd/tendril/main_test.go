// ABOUTME: Tests for the colorized slog handler
// ABOUTME: Covers level filtering, attr rendering and group qualification

package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func newTestHandler(level slog.Level) (*colorHandler, *bytes.Buffer) {
	var buf bytes.Buffer
	return &colorHandler{out: &buf, level: level}, &buf
}

func TestColorHandler_RendersMessageAndAttrs(t *testing.T) {
	color.NoColor = true
	h, buf := newTestHandler(slog.LevelInfo)

	logger := slog.New(h)
	logger.Info("store opened", "path", "/tmp/test.db")

	out := buf.String()
	if !strings.Contains(out, "INF store opened") {
		t.Errorf("output missing level and message: %q", out)
	}
	if !strings.Contains(out, "path=/tmp/test.db") {
		t.Errorf("output missing attr: %q", out)
	}
}

func TestColorHandler_LevelFilter(t *testing.T) {
	color.NoColor = true
	h, buf := newTestHandler(slog.LevelWarn)

	logger := slog.New(h)
	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info line leaked past warn level: %q", out)
	}
	if !strings.Contains(out, "WRN loud") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestColorHandler_GroupsQualifyAttrKeys(t *testing.T) {
	color.NoColor = true
	h, buf := newTestHandler(slog.LevelDebug)

	logger := slog.New(h).WithGroup("engine").With("component", "store")
	logger.Debug("opened", "path", "/tmp/test.db")

	out := buf.String()
	if !strings.Contains(out, "engine.component=store") {
		t.Errorf("WithAttrs key not group-qualified: %q", out)
	}
	if !strings.Contains(out, "engine.path=/tmp/test.db") {
		t.Errorf("record attr key not group-qualified: %q", out)
	}
}

func TestColorHandler_NestedGroups(t *testing.T) {
	color.NoColor = true
	h, buf := newTestHandler(slog.LevelDebug)

	logger := slog.New(h).WithGroup("bridge").WithGroup("transport")
	logger.Info("sent", "op", "habit.create")

	if out := buf.String(); !strings.Contains(out, "bridge.transport.op=habit.create") {
		t.Errorf("nested groups not dot-joined: %q", out)
	}
}
