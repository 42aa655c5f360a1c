package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("agenda", &buf, "info")

	logger.Info("materialized rule", "rule_id", "r-1", "created", 3)

	pattern := `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z \[agenda\] INFO materialized rule rule_id=r-1 created=3\n$`
	assert.Regexp(t, regexp.MustCompile(pattern), buf.String())
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("agenda", &buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN shown")
}

func TestAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("agenda", &buf, "debug").With("component", "reconciler").WithGroup("run")

	logger.Debug("done", "owner_id", "o-1", slog.Group("counts", "deleted", 2))

	out := buf.String()
	assert.Contains(t, out, " component=reconciler")
	assert.Contains(t, out, " run.owner_id=o-1")
	assert.Contains(t, out, " run.counts.deleted=2")
}

func TestQuotingAndErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("agenda", &buf, "info")

	logger.Error("upsert failed", "note", "auto-recurring: Office rent", "err", errors.New("boom"))

	out := strings.TrimSpace(buf.String())
	assert.Contains(t, out, `note="auto-recurring: Office rent"`)
	assert.True(t, strings.HasSuffix(out, "err=boom"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestInitWithWriter(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	InitWithWriter("agenda", "info", &buf)
	slog.Info("hello")
	require.Contains(t, buf.String(), "[agenda] INFO hello")
}
