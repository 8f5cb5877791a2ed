package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})
	return &buf
}

func TestDebug_SilentByDefault(t *testing.T) {
	buf := withBuffer(t)
	SetVerbose(false)

	Debug("round %d", 3)

	assert.Empty(t, buf.String())
}

func TestDebug_PrintsWhenVerbose(t *testing.T) {
	buf := withBuffer(t)
	SetVerbose(true)

	Debug("round %d", 3)

	assert.Equal(t, "[DEBUG] round 3\n", buf.String())
}

func TestInfoAndWarn_Prefixes(t *testing.T) {
	buf := withBuffer(t)
	SetVerbose(true)

	Info("labeled %d", 100)
	Warn("no positives yet")

	assert.Contains(t, buf.String(), "[INFO] labeled 100\n")
	assert.Contains(t, buf.String(), "[WARN] no positives yet\n")
}

func TestSection_Header(t *testing.T) {
	buf := withBuffer(t)
	SetVerbose(true)

	Section("MaxEnt-SEALS")

	assert.Equal(t, "\n=== MaxEnt-SEALS ===\n", buf.String())
}

func TestIsVerbose(t *testing.T) {
	t.Cleanup(func() { SetVerbose(false) })

	SetVerbose(true)
	assert.True(t, IsVerbose())
	SetVerbose(false)
	assert.False(t, IsVerbose())
}
