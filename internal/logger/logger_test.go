package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	InitializeWithWriter(&buf, level, "json")
	t.Cleanup(func() { InitializeWithWriter(io.Discard, "info", "text") })
	return &buf
}

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		out = append(out, rec)
	}
	return out
}

func TestMethodTracking(t *testing.T) {
	buf := capture(t, "debug")

	EnterMethod("contractService.EndContract", "contractID", "CON-001")
	ExitMethodWithError("contractService.EndContract", errors.New("not ongoing"), "contractID", "CON-001")

	recs := records(t, buf)
	require.Len(t, recs, 2)
	assert.Equal(t, "DEBUG", recs[0]["level"])
	assert.Equal(t, "enter", recs[0]["event"])
	assert.Equal(t, "contractService.EndContract", recs[0]["method"])
	assert.Equal(t, "CON-001", recs[0]["contractID"])

	assert.Equal(t, "ERROR", recs[1]["level"])
	assert.Equal(t, "exit", recs[1]["event"])
	assert.Equal(t, "not ongoing", recs[1]["error"])
}

func TestStoreResult(t *testing.T) {
	buf := capture(t, "debug")

	StoreResult("UPDATE", 1, nil, "id", "CAM-LF-1")
	StoreResult("UPDATE", 0, errors.New("unit missing"), "id", "CAM-LF-9")

	recs := records(t, buf)
	require.Len(t, recs, 2)
	assert.Equal(t, "← Store call succeeded", recs[0]["msg"])
	assert.Equal(t, float64(1), recs[0]["records_affected"])
	assert.Equal(t, "WARN", recs[1]["level"])
	assert.Equal(t, "← Store call rejected", recs[1]["msg"])
	assert.Equal(t, "unit missing", recs[1]["error"])
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t, "warn")

	Debug("dropped")
	Info("dropped")
	StoreCall("LIST", "equipment")
	WithContract("CON-007").Warn("overdue")
	Error("kept")

	recs := records(t, buf)
	require.Len(t, recs, 2)
	assert.Equal(t, "overdue", recs[0]["msg"])
	assert.Equal(t, "CON-007", recs[0]["contract_id"])
	assert.Equal(t, "kept", recs[1]["msg"])
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter(&buf, "bogus", "text")
	t.Cleanup(func() { InitializeWithWriter(io.Discard, "info", "text") })

	Debug("hidden at the default level")
	Get().Info("visible", "unit", "LNS-CK7-1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=visible")
	assert.Contains(t, out, "unit=LNS-CK7-1")
}
