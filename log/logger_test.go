package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)

	origLevel := GetLevel()
	defer SetLevel(origLevel)

	logger := New("test")

	SetLevel(Notice)
	logger.Debugf("hidden %d", 1)
	logger.Noticef("visible %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden 1") {
		t.Fatalf("expected debug message to be filtered at notice level; got %q", out)
	}
	if !strings.Contains(out, "visible 2") || !strings.Contains(out, "[test]") {
		t.Fatalf("expected notice message tagged with module name; got %q", out)
	}

	buf.Reset()
	SetLevel(Debug)
	logger.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Fatalf("expected debug message at debug level; got %q", buf.String())
	}
}

func TestSetSinkPreservesLevel(t *testing.T) {
	origLevel := GetLevel()
	defer SetLevel(origLevel)

	SetLevel(Warning)

	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)

	New("test").Info("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("expected info message to be filtered after sink swap; got %q", buf.String())
	}
	if GetLevel() != Warning {
		t.Fatalf("expected level to be %s; got %s", Warning, GetLevel())
	}
}
