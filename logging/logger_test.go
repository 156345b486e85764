package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEduLoggerAttachesContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "json", Output: &buf})

	logger.WithComponent("orchestrator").
		WithStudent("s1", "sess1").
		Info("routing query", "intent", "practice")

	var entry map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "routing query", entry["msg"])
	assert.Equal(t, "orchestrator", entry["component"])
	assert.Equal(t, "s1", entry["student_id"])
	assert.Equal(t, "sess1", entry["session_id"])
	assert.Equal(t, "practice", entry["intent"])
}

func TestEduLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelWarn, Format: "json", Output: &buf})

	logger.Info("suppressed")
	assert.Zero(t, buf.Len())

	logger.Warn("emitted")
	assert.NotZero(t, buf.Len())
}

func TestWithHelpersDoNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	_ = parent.WithContext("k", "v").WithComponent("memory")

	parent.Info("plain")
	var entry map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "k")
	assert.NotContains(t, entry, "component")
}

func TestLogModelCall(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	logger.WithComponent("model").LogModelCall("claude-sonnet", 120*time.Millisecond, true, nil)

	var entry map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Model call completed", entry["msg"])
	assert.Equal(t, "claude-sonnet", entry["model"])
	assert.Equal(t, "model", entry["component"])
	assert.Equal(t, true, entry["success"])

	buf.Reset()
	logger.LogModelCall("claude-sonnet", time.Millisecond, false, errors.New("boom"))
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Model call failed", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
}

func TestStartTimerLogsElapsed(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	logger.StartTimer("idle_sweep")()

	var entry map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Operation completed", entry["msg"])
	assert.Equal(t, "idle_sweep", entry["operation"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLevel("debug"))
	assert.Equal(t, LogLevelWarn, ParseLevel("WARN"))
	assert.Equal(t, LogLevelError, ParseLevel("error"))
	assert.Equal(t, LogLevelInfo, ParseLevel("anything-else"))
}
